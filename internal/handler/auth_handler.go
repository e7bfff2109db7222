package handler

import (
	"io"
	"net/http"
	"strings"

	"go-social-api/internal/model"
)

type AuthHandler struct {
	service authService
	cookies CookieConfig
}

func NewAuthHandler(service authService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

// Register accepts JSON or a multipart form with an optional avatar file.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	var avatar io.Reader

	if isMultipart(r) {
		form, err := parseUploadForm(r)
		if err != nil {
			writeError(w, err)
			return
		}
		defer form.Close()

		payload = model.RegisterRequest{
			Username: form.value("username"),
			Fullname: form.value("fullname"),
			Email:    form.value("email"),
			Password: form.value("password"),
			Project:  form.value("project"),
		}
		if avatar, err = form.first("avatar"); err != nil {
			writeError(w, err)
			return
		}
	} else if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), payload, avatar)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.setSession(w, result)
	writeSuccess(w, http.StatusCreated, "user created", result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.setSession(w, result)
	writeSuccess(w, http.StatusOK, "user logged in", result)
}

// RefreshToken reads the refresh token from its cookie, falling back to the
// JSON body.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var raw string
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		raw = strings.TrimSpace(cookie.Value)
	}

	if raw == "" {
		var payload model.RefreshRequest
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, err)
			return
		}
		raw = strings.TrimSpace(payload.RefreshToken)
	}

	result, err := h.service.Refresh(r.Context(), raw)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.setSession(w, result)
	writeSuccess(w, http.StatusOK, "access token refreshed", result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.Logout(r.Context(), identity); err != nil {
		writeError(w, err)
		return
	}

	h.cookies.clearSession(w)
	writeSuccess(w, http.StatusOK, "user logged out", map[string]any{})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.ChangePasswordRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), identity, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "password changed", map[string]any{})
}

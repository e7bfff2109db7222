package handler

import (
	"net/http"

	"go-social-api/internal/model"
	"go-social-api/pkg/apierror"
)

type UserHandler struct {
	service userService
}

func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{service: service}
}

type userPayload struct {
	User model.PublicUser `json:"user"`
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "user found", userPayload{User: user})
}

func (h *UserHandler) AddScore(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.AddScoreRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.AddScore(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "score added", userPayload{User: user})
}

func (h *UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	board, err := h.service.Leaderboard(r.Context(), identity, r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "leaderboard fetched", board)
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if !isMultipart(r) {
		writeError(w, apierror.Validation("avatar file is required", "avatar"))
		return
	}

	form, err := parseUploadForm(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer form.Close()

	avatar, err := form.first("avatar")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.UpdateAvatar(r.Context(), identity, avatar)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "avatar updated", userPayload{User: user})
}

func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.UpdateEmailRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.UpdateEmail(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "email updated", userPayload{User: user})
}

func (h *UserHandler) StoreData(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.StoreDataRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	data, err := h.service.StoreData(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "data stored", data)
}

func (h *UserHandler) GetStoredData(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	data, err := h.service.GetStoredData(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "data fetched", data)
}

package handler

import (
	"net/http"
	"time"

	"go-social-api/internal/middleware"
	"go-social-api/internal/model"
)

const refreshTokenCookie = "refreshToken"

// CookieConfig controls the session cookies set on register, login and
// refresh.
type CookieConfig struct {
	Secure     bool
	SameSite   string
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (c CookieConfig) sameSite() http.SameSite {
	switch c.SameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteNoneMode
	}
}

func (c CookieConfig) cookie(name string, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	} else {
		cookie.MaxAge = -1
	}
	return cookie
}

func (c CookieConfig) setSession(w http.ResponseWriter, result model.AuthResult) {
	http.SetCookie(w, c.cookie(middleware.AccessTokenCookie, result.AccessToken, c.AccessTTL))
	http.SetCookie(w, c.cookie(refreshTokenCookie, result.RefreshToken, c.RefreshTTL))
}

func (c CookieConfig) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(middleware.AccessTokenCookie, "", 0))
	http.SetCookie(w, c.cookie(refreshTokenCookie, "", 0))
}

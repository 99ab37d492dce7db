package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/residence-leads/internal/infra/auth"
	"github.com/xavierca1/residence-leads/internal/usecase"
)

type AuthHandler struct {
	Gate         usecase.SessionAuthenticator
	CookieName   string
	SecureCookie bool
	Log          logrus.FieldLogger
}

func NewAuthHandler(gate usecase.SessionAuthenticator, cookieName string, secure bool, log logrus.FieldLogger) *AuthHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthHandler{Gate: gate, CookieName: cookieName, SecureCookie: secure, Log: log}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	token, expiresAt, err := h.Gate.Authenticate(req.Password)
	if errors.Is(err, auth.ErrInvalidCredential) {
		h.Log.WithField("ip", getClientIP(r)).Warn("admin login failed")
		writeErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err != nil {
		reportError(r, err)
		writeErrorResponse(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.Log.Info("admin logged in")
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token, ExpiresAt: expiresAt})
}

// Logout clears the cookie. Tokens are stateless and stay valid until expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

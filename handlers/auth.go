package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/satheeshds/autodealer/logger"
	"github.com/satheeshds/autodealer/session"
)

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Session   *session.Session `json:"session"`
}

// Login opens an admin session
// @Summary      Log in
// @Description  Exchanges admin credentials for a bearer token. The session lasts until logout or expiry.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      loginInput  true  "Admin credentials"
// @Success      200          {object}  Response{data=loginResult}
// @Failure      401          {object}  Response{error=string}
// @Failure      429          {object}  Response{error=string}
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if !decodeJSON(w, r, &input) {
		return
	}
	token, s, err := h.Sessions.Login(input.Username, input.Password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		logger.FromContext(r.Context()).Warn().Str("ip", clientIP(r)).Msg("login failed")
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info().Str("session_id", s.ID).Msg("admin logged in")
	writeJSON(w, http.StatusOK, loginResult{Token: token, ExpiresAt: s.ExpiresAt, Session: s})
}

// Logout ends the current session
// @Summary      Log out
// @Tags         auth
// @Success      204
// @Failure      401  {object}  Response{error=string}
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(bearerToken(r)); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	logger.FromContext(r.Context()).Info().Msg("admin logged out")
	w.WriteHeader(http.StatusNoContent)
}

// CurrentSession describes the caller's session
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Response{data=session.Session}
// @Router       /auth/session [get]
// @Security     BearerAuth
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()))
}

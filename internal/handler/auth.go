package handler

import (
	"net/http"

	"github.com/msomdec/accounts/internal/domain"
	"github.com/msomdec/accounts/internal/service"
)

const sessionCookieName = "session"

// AuthHandler handles signup, signin, signout and whoami.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *service.SessionService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookieSecure: cookieSecure}
}

// HandleSignup creates an account and starts a session for it.
// POST /auth/signup
// Request:  {"email":"...","password":"..."}
// Response: 201 {"id":...,"email":"..."}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode signup", err)
		return
	}

	user, err := h.auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "signup", err)
		return
	}

	if err := h.startSession(w, user); err != nil {
		writeServiceError(w, r, "start session after signup", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// HandleSignin verifies credentials and starts a session.
// POST /auth/signin
// Request:  {"email":"...","password":"..."}
// Response: 200 {"id":...,"email":"..."}
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode signin", err)
		return
	}

	user, err := h.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "signin", err)
		return
	}

	if err := h.startSession(w, user); err != nil {
		writeServiceError(w, r, "start session after signin", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleSignout clears the session cookie.
// POST /auth/signout
// Response: 204 No Content
func (h *AuthHandler) HandleSignout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// HandleWhoAmI returns the user resolved from the session.
// GET /auth/whoami
// Response: 200 {"id":...,"email":"..."} or 401
func (h *AuthHandler) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeServiceError(w, r, "whoami", domain.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user *domain.User) error {
	value, err := h.sessions.Issue(user.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL().Seconds()),
	})
	return nil
}

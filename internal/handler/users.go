package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/msomdec/accounts/internal/domain"
	"github.com/msomdec/accounts/internal/service"
)

// UserHandler exposes CRUD on user records.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleGet returns one user.
// GET /auth/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "parse user id", err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleFind lists the users registered under an email.
// GET /auth?email=...
func (h *UserHandler) HandleFind(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeServiceError(w, r, "find users", fmt.Errorf("%w: email query parameter is required", domain.ErrInvalidInput))
		return
	}

	users, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, "find users", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTOs(users))
}

// HandleUpdate changes a user's email and/or password.
// PATCH /auth/{id}
// Request: {"email":"...","password":"..."} (both optional)
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "parse user id", err)
		return
	}

	var req updateUserRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "decode update", err)
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleDelete removes a user and returns the removed record.
// DELETE /auth/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "parse user id", err)
		return
	}

	user, err := h.users.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "delete user", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}
	return id, nil
}

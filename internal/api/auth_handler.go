package api

import (
	"net/http"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	token, user, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, "login successful", map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Role     domain.Role `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.authSvc.CreateUser(r.Context(), actorFrom(r), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, "user created", user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authSvc.ListUsers(r.Context(), actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "users retrieved", users)
}

func (h *AuthHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, domain.NewValidationError("id", "must be a number"))
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authSvc.SetUserActive(r.Context(), actorFrom(r), id, req.Active); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, "user updated", nil)
}

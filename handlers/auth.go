package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"p9e.in/riverai/middleware"
	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/store"
)

const minPasswordLen = 6

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an unverified account. Admin accounts are only seeded.
// An owner is linked to an industry by an admin setting the industry's
// owner_id, never by the registrant.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleIndustryOwner
	}
	switch {
	case strings.TrimSpace(req.Name) == "" || !strings.Contains(req.Email, "@"):
		http.Error(w, "name and a valid email are required", http.StatusBadRequest)
		return
	case len(req.Password) < minPasswordLen:
		http.Error(w, "password must be at least 6 characters", http.StatusBadRequest)
		return
	case !models.ValidRole(req.Role) || req.Role == models.RoleAdmin:
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}
	u := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := h.Users.Create(r.Context(), &u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		h.fail(w, r, "failed to create user", err)
		return
	}
	h.Logger.Info("User registered", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	writeJSON(w, http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token    string      `json:"token"`
	User     models.User `json:"user"`
	Redirect string      `json:"redirect"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.fail(w, r, "failed to load user", err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !u.Verification {
		http.Error(w, "account not verified", http.StatusForbidden)
		return
	}
	token, err := h.Auth.GenerateToken(u)
	if err != nil {
		http.Error(w, "couldn't create token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, loginResp{Token: token, User: *u, Redirect: u.LandingRoute()})
}

// Profile returns the caller's account and effective permissions.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), middleware.GetUserID(r))
	if err != nil {
		h.fail(w, r, "failed to load profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":        u,
		"permissions": middleware.GetUserPermissions(r),
		"redirect":    u.LandingRoute(),
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" && !models.ValidRole(role) {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}
	users, err := h.Users.List(r.Context(), role)
	if err != nil {
		h.fail(w, r, "failed to list users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

type verificationReq struct {
	Verification *bool `json:"verification"`
}

// SetVerification lets an admin approve or suspend an account.
func (h *Handler) SetVerification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	var req verificationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Verification == nil {
		http.Error(w, "verification flag required", http.StatusBadRequest)
		return
	}
	u, err := h.Users.SetVerification(r.Context(), id, *req.Verification)
	if err != nil {
		h.fail(w, r, "failed to update user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

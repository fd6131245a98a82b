package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"donorbase/internal/model"
	"donorbase/internal/store"
)

// UsersPage handles GET /users (admin only).
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	users, _ := store.ListUsers(r.Context(), s.DB)
	orgs, _ := store.ListOrganizations(r.Context(), s.DB)

	s.Templates.Render(w, "users.html", &struct {
		PageData
		Users         []model.User
		Organizations []model.Organization
	}{
		PageData:      PageData{Title: "Users", User: claims, Token: GetWebToken(r.Context())},
		Users:         users,
		Organizations: orgs,
	})
}

// UserCreateSubmit handles POST /users (admin only).
func (s *Server) UserCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	role := r.FormValue("role")

	if username == "" || password == "" || role == "" {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	if err := model.ValidatePassword(password); err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	var organizationID *int64
	if v := r.FormValue("organization_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			organizationID = &id
		}
	}
	if role != model.RoleAdmin && organizationID == nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	if _, err := store.CreateUser(r.Context(), s.DB, username, string(hash), role, organizationID); err != nil {
		slog.Error("failed to create user", "error", err)
	} else {
		slog.Info("user created", "user", claims.Username, "new_user", username, "role", role)
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// UserResetPasswordSubmit handles POST /users/{id}/password (admin only).
func (s *Server) UserResetPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	newPassword := r.FormValue("new_password")
	if newPassword == "" || model.ValidatePassword(newPassword) != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	store.UpdateUserPassword(r.Context(), s.DB, id, string(hash))
	slog.Info("user password reset", "user", claims.Username, "target_user_id", id)
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// UserUpdateRoleSubmit handles POST /users/{id}/role (admin only).
func (s *Server) UserUpdateRoleSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	role := r.FormValue("role")
	if role != model.RoleAdmin && role != model.RoleManager && role != model.RoleUser {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	var organizationID *int64
	if v := r.FormValue("organization_id"); v != "" {
		if orgID, err := strconv.ParseInt(v, 10, 64); err == nil {
			organizationID = &orgID
		}
	}

	if err := store.UpdateUser(r.Context(), s.DB, id, role, organizationID); err != nil {
		slog.Error("failed to update user", "error", err)
	} else {
		slog.Info("user role updated", "user", claims.Username, "target_user_id", id, "role", role)
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

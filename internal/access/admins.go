package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"equipment-logbook/internal/config"
	"equipment-logbook/internal/lending"
)

// FallbackID is the subject of sessions opened by the fallback principal.
const FallbackID = "fallback"

// AdminStore is the part of the storage provider the registry needs.
type AdminStore interface {
	ListAdmins(ctx context.Context) ([]lending.AdminUser, error)
	GetAdminByUsername(ctx context.Context, username string) (lending.AdminUser, error)
	CreateAdmin(ctx context.Context, admin lending.AdminUser) (lending.AdminUser, error)
	UpdateAdminPassword(ctx context.Context, id string, passwordHash string) error
	DeleteAdmin(ctx context.Context, id string) error
}

// Principal is an authenticated administrator.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Fallback bool   `json:"fallback"`
}

// Registry authenticates administrators and enforces the admin account rules.
// The fallback principal is checked first and never stored.
type Registry struct {
	store            AdminStore
	fallbackUsername string
	fallbackHash     string
	logger           *slog.Logger
}

// NewRegistry configures the fallback principal from cfg. A clear text password
// is hashed once here; without any password the fallback login is disabled.
func NewRegistry(store AdminStore, cfg config.FallbackAdmin) (*Registry, error) {
	r := &Registry{
		store:            store,
		fallbackUsername: strings.TrimSpace(cfg.Username),
		fallbackHash:     cfg.PasswordHash,
		logger:           slog.With("component", "access"),
	}
	if r.fallbackHash == "" && cfg.Password != "" {
		r.logger.Warn("Fallback admin password is configured in clear text, prefer fallback_admin.password_hash")
		hash, err := HashPassword(cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash fallback password: %w", err)
		}
		r.fallbackHash = hash
	}
	if r.fallbackUsername != "" && r.fallbackHash == "" {
		r.logger.Warn("Fallback admin has no password, fallback login disabled", "username", r.fallbackUsername)
	}
	return r, nil
}

func (r *Registry) FallbackUsername() string {
	return r.fallbackUsername
}

// Authenticate checks the fallback principal, then the stored admins.
// Usernames compare exactly.
func (r *Registry) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	if username == "" || password == "" {
		return Principal{}, ErrInvalidCredentials
	}

	if r.fallbackUsername != "" && username == r.fallbackUsername {
		if CheckPassword(r.fallbackHash, password) {
			return Principal{ID: FallbackID, Username: username, Fallback: true}, nil
		}
		return Principal{}, ErrInvalidCredentials
	}

	admin, err := r.store.GetAdminByUsername(ctx, username)
	if errors.Is(err, lending.ErrNotFound) {
		return Principal{}, ErrInvalidCredentials
	}
	if err != nil {
		return Principal{}, lending.WrapStore("authenticate", err)
	}
	if !CheckPassword(admin.PasswordHash, password) {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{ID: admin.ID, Username: admin.Username}, nil
}

func (r *Registry) List(ctx context.Context) ([]lending.AdminUser, error) {
	admins, err := r.store.ListAdmins(ctx)
	return admins, lending.WrapStore("list admins", err)
}

// Create adds an admin. The username must be unused by stored admins and must
// not be the fallback username.
func (r *Registry) Create(ctx context.Context, username, password string) (lending.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return lending.AdminUser{}, &lending.ValidationError{Field: "username", Message: "username is required"}
	}
	if password == "" {
		return lending.AdminUser{}, &lending.ValidationError{Field: "password", Message: "password is required"}
	}
	if username == r.fallbackUsername {
		return lending.AdminUser{}, &lending.PreconditionError{Message: "username already taken"}
	}
	_, err := r.store.GetAdminByUsername(ctx, username)
	if err == nil {
		return lending.AdminUser{}, &lending.PreconditionError{Message: "username already taken"}
	}
	if !errors.Is(err, lending.ErrNotFound) {
		return lending.AdminUser{}, lending.WrapStore("lookup admin", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return lending.AdminUser{}, fmt.Errorf("failed to hash password: %w", err)
	}
	admin, err := r.store.CreateAdmin(ctx, lending.AdminUser{Username: username, PasswordHash: hash})
	if err != nil {
		return lending.AdminUser{}, lending.WrapStore("create admin", err)
	}
	r.logger.Info("Admin created", "username", username)
	return admin, nil
}

// ChangePassword replaces the password of a stored admin.
func (r *Registry) ChangePassword(ctx context.Context, id, password string) error {
	if id == FallbackID {
		return &lending.PreconditionError{Message: "the fallback admin is configured statically"}
	}
	if password == "" {
		return &lending.ValidationError{Field: "password", Message: "password is required"}
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return lending.WrapStore("update admin", r.store.UpdateAdminPassword(ctx, id, hash))
}

// Delete removes a stored admin. The last stored admin cannot be removed.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if id == FallbackID {
		return &lending.PreconditionError{Message: "the fallback admin cannot be deleted"}
	}
	admins, err := r.store.ListAdmins(ctx)
	if err != nil {
		return lending.WrapStore("list admins", err)
	}
	found := false
	for _, a := range admins {
		if a.ID == id {
			found = true
			break
		}
	}
	if !found {
		return lending.ErrNotFound
	}
	if len(admins) <= 1 {
		return &lending.PreconditionError{Message: "cannot delete the last admin"}
	}
	return lending.WrapStore("delete admin", r.store.DeleteAdmin(ctx, id))
}

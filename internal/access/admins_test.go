package access

import (
	"context"
	"errors"
	"sort"
	"testing"

	"equipment-logbook/internal/config"
	"equipment-logbook/internal/lending"
)

type memAdmins struct {
	admins map[string]lending.AdminUser
	next   int
	err    error
}

func newMemAdmins() *memAdmins {
	return &memAdmins{admins: map[string]lending.AdminUser{}}
}

func (m *memAdmins) ListAdmins(context.Context) ([]lending.AdminUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []lending.AdminUser
	for _, a := range m.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memAdmins) GetAdminByUsername(_ context.Context, username string) (lending.AdminUser, error) {
	if m.err != nil {
		return lending.AdminUser{}, m.err
	}
	for _, a := range m.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return lending.AdminUser{}, lending.ErrNotFound
}

func (m *memAdmins) CreateAdmin(_ context.Context, a lending.AdminUser) (lending.AdminUser, error) {
	m.next++
	a.ID = string(rune('a' + m.next))
	m.admins[a.ID] = a
	return a, nil
}

func (m *memAdmins) UpdateAdminPassword(_ context.Context, id, hash string) error {
	a, ok := m.admins[id]
	if !ok {
		return lending.ErrNotFound
	}
	a.PasswordHash = hash
	m.admins[id] = a
	return nil
}

func (m *memAdmins) DeleteAdmin(_ context.Context, id string) error {
	if _, ok := m.admins[id]; !ok {
		return lending.ErrNotFound
	}
	delete(m.admins, id)
	return nil
}

func newRegistry(t *testing.T, store AdminStore) *Registry {
	t.Helper()
	r, err := NewRegistry(store, config.FallbackAdmin{Username: "admin", Password: "fallback-pw"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := newMemAdmins()
	r := newRegistry(t, store)
	if _, err := r.Create(ctx, "alex", "pw1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
		fallback bool
	}{
		{"fallback", "admin", "fallback-pw", false, true},
		{"fallback wrong password", "admin", "nope", true, false},
		{"stored admin", "alex", "pw1", false, false},
		{"stored admin wrong password", "alex", "pw2", true, false},
		{"username is case-sensitive", "Alex", "pw1", true, false},
		{"unknown user", "sam", "pw1", true, false},
		{"empty password", "alex", "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Fatalf("expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if p.Fallback != tt.fallback || p.Username != tt.username {
				t.Errorf("unexpected principal %+v", p)
			}
		})
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	store := newMemAdmins()
	store.err = errors.New("connection reset")
	r := newRegistry(t, store)

	_, err := r.Authenticate(context.Background(), "alex", "pw")
	var sf *lending.StoreFailure
	if !errors.As(err, &sf) {
		t.Fatalf("expected StoreFailure, got %v", err)
	}
}

func TestCreate_UsernameRules(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, newMemAdmins())

	if _, err := r.Create(ctx, "alex", "pw"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var perr *lending.PreconditionError
	if _, err := r.Create(ctx, "alex", "other"); !errors.As(err, &perr) {
		t.Errorf("duplicate username: expected PreconditionError, got %v", err)
	}
	if _, err := r.Create(ctx, "admin", "other"); !errors.As(err, &perr) {
		t.Errorf("fallback username: expected PreconditionError, got %v", err)
	}

	var verr *lending.ValidationError
	if _, err := r.Create(ctx, " ", "pw"); !errors.As(err, &verr) {
		t.Errorf("blank username: expected ValidationError, got %v", err)
	}
	if _, err := r.Create(ctx, "sam", ""); !errors.As(err, &verr) {
		t.Errorf("blank password: expected ValidationError, got %v", err)
	}
}

func TestCreate_StoresHashNotPassword(t *testing.T) {
	store := newMemAdmins()
	r := newRegistry(t, store)
	a, err := r.Create(context.Background(), "alex", "pw")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.PasswordHash == "pw" || !CheckPassword(store.admins[a.ID].PasswordHash, "pw") {
		t.Fatal("password must be stored as a bcrypt hash")
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, newMemAdmins())
	a, _ := r.Create(ctx, "alex", "old")

	if err := r.ChangePassword(ctx, a.ID, "new"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := r.Authenticate(ctx, "alex", "new"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if err := r.ChangePassword(ctx, a.ID, ""); err == nil {
		t.Error("empty password must be rejected")
	}
	if err := r.ChangePassword(ctx, FallbackID, "x"); err == nil {
		t.Error("fallback password is not editable")
	}
}

func TestDelete_Rules(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, newMemAdmins())
	a, _ := r.Create(ctx, "alex", "pw")
	b, _ := r.Create(ctx, "sam", "pw")

	var perr *lending.PreconditionError
	if err := r.Delete(ctx, FallbackID); !errors.As(err, &perr) {
		t.Errorf("fallback delete: expected PreconditionError, got %v", err)
	}
	if err := r.Delete(ctx, "missing"); !errors.Is(err, lending.ErrNotFound) {
		t.Errorf("missing admin: expected ErrNotFound, got %v", err)
	}
	if err := r.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := r.Delete(ctx, b.ID); !errors.As(err, &perr) {
		t.Errorf("last admin: expected PreconditionError, got %v", err)
	}
}

func TestNewRegistry_PasswordHash(t *testing.T) {
	hash, err := HashPassword("hashed-pw")
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewRegistry(newMemAdmins(), config.FallbackAdmin{Username: "root", PasswordHash: hash})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, err := r.Authenticate(context.Background(), "root", "hashed-pw"); err != nil {
		t.Fatalf("fallback with hash: %v", err)
	}
}

func TestNewRegistry_FallbackDisabledWithoutPassword(t *testing.T) {
	r, err := NewRegistry(newMemAdmins(), config.FallbackAdmin{Username: "admin"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, err := r.Authenticate(context.Background(), "admin", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

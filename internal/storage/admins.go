package storage

import (
	"context"
	"fmt"
	"time"

	"equipment-logbook/internal/lending"
)

const adminColumns = "id, username, password_hash, created_at"

func (p *SQLProvider) ListAdmins(ctx context.Context) ([]lending.AdminUser, error) {
	var rows []adminRow
	if err := p.db.SelectContext(ctx, &rows, "SELECT "+adminColumns+" FROM admins ORDER BY username ASC"); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	out := make([]lending.AdminUser, len(rows))
	for i, r := range rows {
		out[i] = r.admin()
	}
	return out, nil
}

// GetAdminByUsername matches the username exactly, including letter case.
func (p *SQLProvider) GetAdminByUsername(ctx context.Context, username string) (lending.AdminUser, error) {
	var r adminRow
	if err := p.get(ctx, &r, "SELECT "+adminColumns+" FROM admins WHERE username = ?", username); err != nil {
		return lending.AdminUser{}, err
	}
	// MySQL collations compare case-insensitively.
	if r.Username != username {
		return lending.AdminUser{}, lending.ErrNotFound
	}
	return r.admin(), nil
}

func (p *SQLProvider) CreateAdmin(ctx context.Context, admin lending.AdminUser) (lending.AdminUser, error) {
	id, err := p.registryIDs.New()
	if err != nil {
		return lending.AdminUser{}, fmt.Errorf("generate admin id: %w", err)
	}
	admin.ID = id
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}
	if _, err := p.db.ExecContext(ctx, p.q("INSERT INTO admins ("+adminColumns+") VALUES (?, ?, ?, ?)"),
		admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt.UTC()); err != nil {
		return lending.AdminUser{}, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

func (p *SQLProvider) UpdateAdminPassword(ctx context.Context, id string, passwordHash string) error {
	return p.exec(ctx, p.db, "UPDATE admins SET password_hash = ? WHERE id = ?", passwordHash, id)
}

func (p *SQLProvider) DeleteAdmin(ctx context.Context, id string) error {
	return p.exec(ctx, p.db, "DELETE FROM admins WHERE id = ?", id)
}

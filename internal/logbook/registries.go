package logbook

import (
	"context"
	"fmt"
	"strings"

	"equipment-logbook/internal/lending"
)

func trimEquipment(item lending.EquipmentItem) lending.EquipmentItem {
	item.Name = strings.TrimSpace(item.Name)
	item.ImageURL = strings.TrimSpace(item.ImageURL)
	return item
}

func (s *Service) CreateEquipment(ctx context.Context, item lending.EquipmentItem) (lending.EquipmentItem, error) {
	item = trimEquipment(item)
	if err := item.Validate(); err != nil {
		return lending.EquipmentItem{}, s.record("equipment_create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.store.CreateEquipment(ctx, item)
	if err != nil {
		return lending.EquipmentItem{}, s.record("equipment_create", lending.WrapStore("create equipment", err))
	}
	s.record("equipment_create", nil)
	s.afterWrite(ctx, "equipment_create")
	return created, nil
}

func (s *Service) UpdateEquipment(ctx context.Context, item lending.EquipmentItem) error {
	item = trimEquipment(item)
	if err := item.Validate(); err != nil {
		return s.record("equipment_update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.UpdateEquipment(ctx, item); err != nil {
		return s.record("equipment_update", lending.WrapStore("update equipment", err))
	}
	s.record("equipment_update", nil)
	s.afterWrite(ctx, "equipment_update")
	return nil
}

// DeleteEquipment removes a catalog item. Log entries naming it are kept.
func (s *Service) DeleteEquipment(ctx context.Context, id string, confirm Confirm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.store.GetEquipment(ctx, id)
	if err != nil {
		return s.record("equipment_delete", lending.WrapStore("get equipment", err))
	}
	if err := confirmed(confirm, fmt.Sprintf("Delete equipment %q?", item.Name)); err != nil {
		return s.record("equipment_delete", err)
	}
	if err := s.store.DeleteEquipment(ctx, id); err != nil {
		return s.record("equipment_delete", lending.WrapStore("delete equipment", err))
	}
	s.record("equipment_delete", nil)
	s.afterWrite(ctx, "equipment_delete")
	return nil
}

// Equipment looks an item up in the snapshot, falling back to the store.
func (s *Service) Equipment(ctx context.Context, id string) (lending.EquipmentItem, error) {
	for _, e := range s.Snapshot().Equipment {
		if e.ID == id {
			return e, nil
		}
	}
	item, err := s.store.GetEquipment(ctx, id)
	return item, lending.WrapStore("get equipment", err)
}

// ImportEquipment creates every item whose name is not yet in the catalog.
// All items are validated before anything is written.
func (s *Service) ImportEquipment(ctx context.Context, items []lending.EquipmentItem) (created, skipped int, err error) {
	for i := range items {
		items[i] = trimEquipment(items[i])
		if err := items[i].Validate(); err != nil {
			return 0, 0, s.record("equipment_import", fmt.Errorf("item %d: %w", i+1, err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.ListEquipment(ctx)
	if err != nil {
		return 0, 0, s.record("equipment_import", lending.WrapStore("list equipment", err))
	}
	names := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		names[e.Name] = struct{}{}
	}

	defer s.afterWrite(ctx, "equipment_import")
	for _, item := range items {
		if _, ok := names[item.Name]; ok {
			skipped++
			continue
		}
		if _, err := s.store.CreateEquipment(ctx, item); err != nil {
			return created, skipped, s.record("equipment_import", lending.WrapStore("create equipment", err))
		}
		names[item.Name] = struct{}{}
		created++
	}
	s.record("equipment_import", nil)
	s.logger.Info("Equipment imported", "created", created, "skipped", skipped)
	return created, skipped, nil
}

func trimCollateral(item lending.CollateralItem) lending.CollateralItem {
	item.Name = strings.TrimSpace(item.Name)
	item.Location = strings.TrimSpace(item.Location)
	item.Remarks = strings.TrimSpace(item.Remarks)
	return item
}

func (s *Service) CreateCollateral(ctx context.Context, item lending.CollateralItem) (lending.CollateralItem, error) {
	item = trimCollateral(item)
	if err := item.Validate(); err != nil {
		return lending.CollateralItem{}, s.record("collateral_create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.store.CreateCollateral(ctx, item)
	if err != nil {
		return lending.CollateralItem{}, s.record("collateral_create", lending.WrapStore("create collateral", err))
	}
	s.record("collateral_create", nil)
	s.afterWrite(ctx, "collateral_create")
	return created, nil
}

func (s *Service) UpdateCollateral(ctx context.Context, item lending.CollateralItem) error {
	item = trimCollateral(item)
	if err := item.Validate(); err != nil {
		return s.record("collateral_update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.UpdateCollateral(ctx, item); err != nil {
		return s.record("collateral_update", lending.WrapStore("update collateral", err))
	}
	s.record("collateral_update", nil)
	s.afterWrite(ctx, "collateral_update")
	return nil
}

func (s *Service) DeleteCollateral(ctx context.Context, id string, confirm Confirm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.store.GetCollateral(ctx, id)
	if err != nil {
		return s.record("collateral_delete", lending.WrapStore("get collateral", err))
	}
	if err := confirmed(confirm, fmt.Sprintf("Delete collateral %q at %s?", item.Name, item.Location)); err != nil {
		return s.record("collateral_delete", err)
	}
	if err := s.store.DeleteCollateral(ctx, id); err != nil {
		return s.record("collateral_delete", lending.WrapStore("delete collateral", err))
	}
	s.record("collateral_delete", nil)
	s.afterWrite(ctx, "collateral_delete")
	return nil
}

func (s *Service) CreateAdmin(ctx context.Context, username, password string) (lending.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, err := s.admins.Create(ctx, username, password)
	if err != nil {
		return lending.AdminUser{}, s.record("admin_create", err)
	}
	s.record("admin_create", nil)
	s.afterWrite(ctx, "admin_create")
	return admin, nil
}

func (s *Service) ChangeAdminPassword(ctx context.Context, id, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admins.ChangePassword(ctx, id, password); err != nil {
		return s.record("admin_password", err)
	}
	s.record("admin_password", nil)
	s.afterWrite(ctx, "admin_password")
	return nil
}

func (s *Service) DeleteAdmin(ctx context.Context, id string, confirm Confirm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := confirmed(confirm, "Delete this admin account?"); err != nil {
		return s.record("admin_delete", err)
	}
	if err := s.admins.Delete(ctx, id); err != nil {
		return s.record("admin_delete", err)
	}
	s.record("admin_delete", nil)
	s.afterWrite(ctx, "admin_delete")
	return nil
}

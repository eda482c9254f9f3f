package storage

import (
	"context"
	"fmt"

	"equipment-logbook/internal/lending"
)

func (p *SQLProvider) ListEquipment(ctx context.Context) ([]lending.EquipmentItem, error) {
	var rows []equipmentRow
	if err := p.db.SelectContext(ctx, &rows, "SELECT id, name, image_url FROM equipment ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	out := make([]lending.EquipmentItem, len(rows))
	for i, r := range rows {
		out[i] = lending.EquipmentItem(r)
	}
	return out, nil
}

func (p *SQLProvider) GetEquipment(ctx context.Context, id string) (lending.EquipmentItem, error) {
	var r equipmentRow
	if err := p.get(ctx, &r, "SELECT id, name, image_url FROM equipment WHERE id = ?", id); err != nil {
		return lending.EquipmentItem{}, err
	}
	return lending.EquipmentItem(r), nil
}

func (p *SQLProvider) CreateEquipment(ctx context.Context, item lending.EquipmentItem) (lending.EquipmentItem, error) {
	id, err := p.registryIDs.New()
	if err != nil {
		return lending.EquipmentItem{}, fmt.Errorf("generate equipment id: %w", err)
	}
	item.ID = id
	if _, err := p.db.ExecContext(ctx, p.q("INSERT INTO equipment (id, name, image_url) VALUES (?, ?, ?)"),
		item.ID, item.Name, item.ImageURL); err != nil {
		return lending.EquipmentItem{}, fmt.Errorf("create equipment: %w", err)
	}
	return item, nil
}

func (p *SQLProvider) UpdateEquipment(ctx context.Context, item lending.EquipmentItem) error {
	return p.exec(ctx, p.db, "UPDATE equipment SET name = ?, image_url = ? WHERE id = ?", item.Name, item.ImageURL, item.ID)
}

// DeleteEquipment leaves log entries naming the item untouched.
func (p *SQLProvider) DeleteEquipment(ctx context.Context, id string) error {
	return p.exec(ctx, p.db, "DELETE FROM equipment WHERE id = ?", id)
}

const collateralColumns = "id, name, location, quantity, remarks"

func (p *SQLProvider) ListCollaterals(ctx context.Context) ([]lending.CollateralItem, error) {
	var rows []collateralRow
	if err := p.db.SelectContext(ctx, &rows, "SELECT "+collateralColumns+" FROM collaterals ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list collaterals: %w", err)
	}
	out := make([]lending.CollateralItem, len(rows))
	for i, r := range rows {
		out[i] = lending.CollateralItem(r)
	}
	return out, nil
}

func (p *SQLProvider) GetCollateral(ctx context.Context, id string) (lending.CollateralItem, error) {
	var r collateralRow
	if err := p.get(ctx, &r, "SELECT "+collateralColumns+" FROM collaterals WHERE id = ?", id); err != nil {
		return lending.CollateralItem{}, err
	}
	return lending.CollateralItem(r), nil
}

func (p *SQLProvider) CreateCollateral(ctx context.Context, item lending.CollateralItem) (lending.CollateralItem, error) {
	id, err := p.registryIDs.New()
	if err != nil {
		return lending.CollateralItem{}, fmt.Errorf("generate collateral id: %w", err)
	}
	item.ID = id
	if _, err := p.db.ExecContext(ctx, p.q("INSERT INTO collaterals ("+collateralColumns+") VALUES (?, ?, ?, ?, ?)"),
		item.ID, item.Name, item.Location, item.Quantity, item.Remarks); err != nil {
		return lending.CollateralItem{}, fmt.Errorf("create collateral: %w", err)
	}
	return item, nil
}

func (p *SQLProvider) UpdateCollateral(ctx context.Context, item lending.CollateralItem) error {
	return p.exec(ctx, p.db, "UPDATE collaterals SET name = ?, location = ?, quantity = ?, remarks = ? WHERE id = ?",
		item.Name, item.Location, item.Quantity, item.Remarks, item.ID)
}

func (p *SQLProvider) DeleteCollateral(ctx context.Context, id string) error {
	return p.exec(ctx, p.db, "DELETE FROM collaterals WHERE id = ?", id)
}

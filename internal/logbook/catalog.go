package logbook

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"equipment-logbook/internal/lending"
)

// Catalog is the YAML document accepted by equipment import:
//
//	equipment:
//	  - name: Drone
//	    imageUrl: https://example.com/drone.png
type Catalog struct {
	Equipment []struct {
		Name     string `yaml:"name"`
		ImageURL string `yaml:"imageUrl"`
	} `yaml:"equipment"`
}

func ParseCatalog(r io.Reader) ([]lending.EquipmentItem, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	items := make([]lending.EquipmentItem, len(c.Equipment))
	for i, e := range c.Equipment {
		items[i] = lending.EquipmentItem{Name: e.Name, ImageURL: e.ImageURL}
	}
	return items, nil
}

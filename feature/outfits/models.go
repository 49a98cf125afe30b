package outfits

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"tailor-preview/core/engine"
)

// Outfit is a named outfit config stored in the catalog.
type Outfit struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;size:128;uniqueIndex"`
	Config    string    `gorm:"column:config;type:text"` // JSON encoded engine.OutfitConfig
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Outfit) TableName() string {
	return "outfits"
}

// Columns lists the columns the catalog expects on the outfits table.
var Columns = []string{"id", "name", "config", "created_at", "updated_at"}

// Decode parses the stored config.
func (o Outfit) Decode() (engine.OutfitConfig, error) {
	var cfg engine.OutfitConfig
	if err := json.Unmarshal([]byte(o.Config), &cfg); err != nil {
		return cfg, fmt.Errorf("outfit %s has a corrupt config: %w", o.Name, err)
	}
	return cfg, nil
}

// Summary is the catalog listing entry of an outfit.
type Summary struct {
	Name      string    `json:"name"`
	Groups    []string  `json:"groups"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func summarize(o Outfit, cfg engine.OutfitConfig) Summary {
	groups := make([]string, 0, len(cfg.GroupLayers))
	for g := range cfg.GroupLayers {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return Summary{Name: o.Name, Groups: groups, UpdatedAt: o.UpdatedAt}
}

package outfits

import (
	"context"
	"errors"
	"fmt"

	"tailor-preview/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no outfit has the requested name.
var ErrNotFound = errors.New("outfit not found")

// Repository persists outfits through gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the outfits table and verifies its columns.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&Outfit{}); err != nil {
		return fmt.Errorf("failed to migrate outfits: %w", err)
	}
	missing, err := database.MissingColumns(r.db, Outfit{}.TableName(), Columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("outfits table is missing columns %v", missing)
	}
	return nil
}

// List returns every outfit ordered by name.
func (r *Repository) List(ctx context.Context) ([]Outfit, error) {
	var outfits []Outfit
	if err := r.db.WithContext(ctx).Order("name").Find(&outfits).Error; err != nil {
		return nil, fmt.Errorf("failed to list outfits: %w", err)
	}
	return outfits, nil
}

// Get returns the outfit with the given name.
func (r *Repository) Get(ctx context.Context, name string) (*Outfit, error) {
	var outfit Outfit
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&outfit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outfit %s: %w", name, err)
	}
	return &outfit, nil
}

// Save inserts the outfit or replaces the config of an existing one.
func (r *Repository) Save(ctx context.Context, outfit *Outfit) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"config", "updated_at"}),
	}).Create(outfit).Error
	if err != nil {
		return fmt.Errorf("failed to save outfit %s: %w", outfit.Name, err)
	}
	return nil
}

// Delete removes the outfit with the given name.
func (r *Repository) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", name).Delete(&Outfit{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete outfit %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

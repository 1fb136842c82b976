package categories

import (
	"context"
	"errors"

	"artmarket-app/internal/domain/catalog"

	"gorm.io/gorm"
)

// GormStore implements Store on the shared gorm connection pool.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) List(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	err := g.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (g *GormStore) ByID(ctx context.Context, id string) (*catalog.Category, error) {
	var category catalog.Category
	err := g.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (g *GormStore) Create(ctx context.Context, category *catalog.Category) error {
	return g.db.WithContext(ctx).Create(category).Error
}

func (g *GormStore) Update(ctx context.Context, category *catalog.Category, updates map[string]interface{}) error {
	return g.db.WithContext(ctx).Model(category).Updates(updates).Error
}

func (g *GormStore) Delete(ctx context.Context, category *catalog.Category) error {
	return g.db.WithContext(ctx).Delete(category).Error
}

func (g *GormStore) ArtworkCount(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&catalog.Artwork{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

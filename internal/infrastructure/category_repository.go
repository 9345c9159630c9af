package infrastructure

import (
	"context"
	"time"

	"Finary/internal/domain/category"
	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

var _ category.Repository = (*CategoryRepository)(nil)

type categoryDB struct {
	Id          string    `gorm:"type:varchar(26);primaryKey"`
	UserId      string    `gorm:"type:varchar(26);not null;uniqueIndex:idx_categories_user_name,priority:1"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_categories_user_name,priority:2"`
	Description string    `gorm:"size:255"`
	Type        string    `gorm:"type:varchar(10);not null;default:expense"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (categoryDB) TableName() string {
	return "categories"
}

func toDomainCategory(cdb *categoryDB) (*category.Category, error) {
	id, err := pkg.ParseULID(cdb.Id)
	if err != nil {
		return nil, err
	}
	uid, err := pkg.ParseULID(cdb.UserId)
	if err != nil {
		return nil, err
	}
	return &category.Category{
		Id:          id,
		UserId:      uid,
		Name:        cdb.Name,
		Description: cdb.Description,
		Type:        category.Types(cdb.Type),
		CreatedAt:   cdb.CreatedAt,
		UpdatedAt:   cdb.UpdatedAt,
	}, nil
}

func toDBCategory(c *category.Category) *categoryDB {
	return &categoryDB{
		Id:          c.Id.String(),
		UserId:      c.UserId.String(),
		Name:        c.Name,
		Description: c.Description,
		Type:        string(c.Type),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	return r.DB.WithContext(ctx).Create(toDBCategory(c)).Error
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	cdb := toDBCategory(c)
	return matchedRow(r.DB.WithContext(ctx).Model(&categoryDB{}).
		Where("id = ? AND user_id = ?", cdb.Id, cdb.UserId).
		Updates(map[string]interface{}{
			"name":        cdb.Name,
			"description": cdb.Description,
			"updated_at":  cdb.UpdatedAt,
		}))
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID, userID ulid.ULID) error {
	return matchedRow(r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID.String(), userID.String()).
		Delete(&categoryDB{}))
}

func (r *CategoryRepository) GetByID(ctx context.Context, categoryID, userID ulid.ULID) (*category.Category, error) {
	var row categoryDB
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID.String(), userID.String()).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&row)
}

// GetByName matches case-insensitively so "Food" and "food" collide.
func (r *CategoryRepository) GetByName(ctx context.Context, name string, userID ulid.ULID) (*category.Category, error) {
	var row categoryDB
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID.String(), name).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&row)
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*category.Category, error) {
	var rows []categoryDB
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*category.Category, 0, len(rows))
	for i := range rows {
		c, err := toDomainCategory(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

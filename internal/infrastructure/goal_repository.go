package infrastructure

import (
	"context"
	"time"

	"Finary/internal/domain/goal"
	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GoalRepository struct {
	DB *gorm.DB
}

var _ goal.Repository = (*GoalRepository)(nil)

type goalDB struct {
	Id           string          `gorm:"type:varchar(26);primaryKey"`
	UserId       string          `gorm:"type:varchar(26);not null;uniqueIndex:idx_goals_user_category_name,priority:1"`
	CategoryId   string          `gorm:"type:varchar(26);not null;uniqueIndex:idx_goals_user_category_name,priority:2"`
	CategoryName string          `gorm:"->;-:migration;column:category_name"`
	Name         string          `gorm:"size:100;not null;uniqueIndex:idx_goals_user_category_name,priority:3"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Date         time.Time
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (goalDB) TableName() string {
	return "goals"
}

func toDomainGoal(gdb *goalDB) (*goal.Goal, error) {
	id, err := pkg.ParseULID(gdb.Id)
	if err != nil {
		return nil, err
	}
	uid, err := pkg.ParseULID(gdb.UserId)
	if err != nil {
		return nil, err
	}
	cid, err := pkg.ParseULID(gdb.CategoryId)
	if err != nil {
		return nil, err
	}
	return &goal.Goal{
		Id:           id,
		UserId:       uid,
		CategoryId:   cid,
		CategoryName: gdb.CategoryName,
		Name:         gdb.Name,
		Amount:       money(gdb.Amount),
		Date:         gdb.Date.UTC(),
		CreatedAt:    gdb.CreatedAt,
		UpdatedAt:    gdb.UpdatedAt,
	}, nil
}

func toDBGoal(g *goal.Goal) *goalDB {
	return &goalDB{
		Id:         g.Id.String(),
		UserId:     g.UserId.String(),
		CategoryId: g.CategoryId.String(),
		Name:       g.Name,
		Amount:     g.Amount,
		Date:       g.Date,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

func (r *GoalRepository) withCategory(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Table("goals g").
		Select("g.*, c.name AS category_name").
		Joins("LEFT JOIN categories c ON c.id = g.category_id")
}

func (r *GoalRepository) Create(ctx context.Context, g *goal.Goal) error {
	return r.DB.WithContext(ctx).Create(toDBGoal(g)).Error
}

func (r *GoalRepository) Update(ctx context.Context, g *goal.Goal) error {
	gdb := toDBGoal(g)
	return matchedRow(r.DB.WithContext(ctx).Model(&goalDB{}).
		Where("id = ? AND user_id = ?", gdb.Id, gdb.UserId).
		Updates(map[string]interface{}{
			"category_id": gdb.CategoryId,
			"name":        gdb.Name,
			"amount":      gdb.Amount,
			"date":        gdb.Date,
			"updated_at":  gdb.UpdatedAt,
		}))
}

func (r *GoalRepository) Delete(ctx context.Context, goalID, userID ulid.ULID) error {
	return matchedRow(r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID.String(), userID.String()).
		Delete(&goalDB{}))
}

func (r *GoalRepository) GetByIDAndUser(ctx context.Context, goalID, userID ulid.ULID) (*goal.Goal, error) {
	var row goalDB
	err := r.withCategory(ctx).
		Where("g.id = ? AND g.user_id = ?", goalID.String(), userID.String()).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return toDomainGoal(&row)
}

func (r *GoalRepository) FindByKey(ctx context.Context, userID, categoryID ulid.ULID, name string) (*goal.Goal, error) {
	var row goalDB
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND name = ?", userID.String(), categoryID.String(), name).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return toDomainGoal(&row)
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*goal.Goal, error) {
	var rows []goalDB
	err := r.withCategory(ctx).
		Where("g.user_id = ?", userID.String()).
		Order("g.date ASC, g.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*goal.Goal, 0, len(rows))
	for i := range rows {
		g, err := toDomainGoal(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

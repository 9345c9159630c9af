package infrastructure

import (
	"context"
	"time"

	"Finary/internal/domain/budget"
	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BudgetRepository struct {
	DB *gorm.DB
}

var _ budget.Repository = (*BudgetRepository)(nil)

type budgetDB struct {
	Id           string          `gorm:"type:varchar(26);primaryKey"`
	UserId       string          `gorm:"type:varchar(26);not null;uniqueIndex:idx_budgets_user_category_period,priority:1"`
	CategoryId   string          `gorm:"type:varchar(26);not null;index;uniqueIndex:idx_budgets_user_category_period,priority:2"`
	CategoryName string          `gorm:"->;-:migration;column:category_name"`
	Allocated    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Spent        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Period       string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_budgets_user_category_period,priority:3"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

func (budgetDB) TableName() string {
	return "budgets"
}

func toDomainBudget(bdb *budgetDB) (*budget.Budget, error) {
	id, err := pkg.ParseULID(bdb.Id)
	if err != nil {
		return nil, err
	}
	userID, err := pkg.ParseULID(bdb.UserId)
	if err != nil {
		return nil, err
	}
	categoryID, err := pkg.ParseULID(bdb.CategoryId)
	if err != nil {
		return nil, err
	}

	return &budget.Budget{
		Id:           id,
		UserId:       userID,
		CategoryId:   categoryID,
		CategoryName: bdb.CategoryName,
		Allocated:    money(bdb.Allocated),
		Spent:        money(bdb.Spent),
		Period:       budget.Period(bdb.Period),
		CreatedAt:    bdb.CreatedAt,
		UpdatedAt:    bdb.UpdatedAt,
	}, nil
}

func toDBBudget(b *budget.Budget) *budgetDB {
	return &budgetDB{
		Id:         b.Id.String(),
		UserId:     b.UserId.String(),
		CategoryId: b.CategoryId.String(),
		Allocated:  b.Allocated,
		Spent:      b.Spent,
		Period:     string(b.Period),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// money rounds a scanned column to cents. SQLite keeps decimals as REAL, so
// sums and increments can come back with binary noise.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func (r *BudgetRepository) withCategory(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Table("budgets b").
		Select("b.*, c.name AS category_name").
		Joins("LEFT JOIN categories c ON c.id = b.category_id")
}

func (r *BudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	return r.DB.WithContext(ctx).Create(toDBBudget(b)).Error
}

func (r *BudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	bdb := toDBBudget(b)
	return matchedRow(r.DB.WithContext(ctx).Model(&budgetDB{}).
		Where("id = ? AND user_id = ?", bdb.Id, bdb.UserId).
		Updates(map[string]interface{}{
			"category_id": bdb.CategoryId,
			"allocated":   bdb.Allocated,
			"period":      bdb.Period,
			"updated_at":  bdb.UpdatedAt,
		}))
}

func (r *BudgetRepository) Delete(ctx context.Context, budgetID, userID ulid.ULID) error {
	return matchedRow(r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", budgetID.String(), userID.String()).
		Delete(&budgetDB{}))
}

func (r *BudgetRepository) GetByID(ctx context.Context, budgetID, userID ulid.ULID) (*budget.Budget, error) {
	var bdb budgetDB
	err := r.withCategory(ctx).
		Where("b.id = ? AND b.user_id = ?", budgetID.String(), userID.String()).
		Take(&bdb).Error
	if err != nil {
		return nil, err
	}
	return toDomainBudget(&bdb)
}

func (r *BudgetRepository) FindByKey(ctx context.Context, userID, categoryID ulid.ULID, period budget.Period) (*budget.Budget, error) {
	var bdb budgetDB
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND period = ?", userID.String(), categoryID.String(), string(period)).
		Take(&bdb).Error
	if err != nil {
		return nil, err
	}
	return toDomainBudget(&bdb)
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*budget.Budget, error) {
	var rows []budgetDB
	err := r.withCategory(ctx).
		Where("b.user_id = ?", userID.String()).
		Order("b.created_at DESC, b.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	budgets := make([]*budget.Budget, 0, len(rows))
	for i := range rows {
		b, err := toDomainBudget(&rows[i])
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

func (r *BudgetRepository) GetSummary(ctx context.Context, userID ulid.ULID) (*budget.Summary, error) {
	var result struct {
		TotalAllocated decimal.Decimal
		TotalSpent     decimal.Decimal
	}

	err := r.DB.WithContext(ctx).Model(&budgetDB{}).
		Where("user_id = ?", userID.String()).
		Select("COALESCE(SUM(allocated), 0) AS total_allocated, COALESCE(SUM(spent), 0) AS total_spent").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	total := budget.Budget{Allocated: money(result.TotalAllocated), Spent: money(result.TotalSpent)}
	return &budget.Summary{
		TotalAllocated: total.Allocated,
		TotalSpent:     total.Spent,
		TotalRemaining: total.Remaining(),
		Percentage:     total.Percentage(),
	}, nil
}

// FindByCategory resolves the budget the ledger adjusts for a category. When
// the category has budgets for several periods the oldest one is used.
func (r *BudgetRepository) FindByCategory(ctx context.Context, userID, categoryID ulid.ULID) (*budget.Budget, error) {
	var bdb budgetDB
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID.String(), categoryID.String()).
		Order("created_at ASC, id ASC").
		Take(&bdb).Error
	if err != nil {
		return nil, err
	}
	return toDomainBudget(&bdb)
}

// AdjustSpent applies the delta in the database, so concurrent adjustments
// serialise on the row lock instead of overwriting each other.
func (r *BudgetRepository) AdjustSpent(ctx context.Context, budgetID ulid.ULID, delta decimal.Decimal) error {
	return matchedRow(r.DB.WithContext(ctx).Model(&budgetDB{}).
		Where("id = ?", budgetID.String()).
		UpdateColumns(map[string]interface{}{
			"spent":      gorm.Expr("spent + ?", delta),
			"updated_at": time.Now().UTC(),
		}))
}

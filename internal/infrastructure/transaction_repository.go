package infrastructure

import (
	"context"
	"time"

	"Finary/internal/domain/report"
	"Finary/internal/domain/transaction"
	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	DB *gorm.DB
}

var _ transaction.Repository = (*TransactionRepository)(nil)

type transactionDB struct {
	Id           string          `gorm:"type:varchar(26);primaryKey;column:id"`
	UserId       string          `gorm:"type:varchar(26);not null;index:idx_transactions_user_date,priority:1;column:user_id"`
	CategoryId   string          `gorm:"type:varchar(26);not null;index;column:category_id"`
	CategoryName string          `gorm:"->;-:migration;column:category_name"`
	Type         string          `gorm:"type:varchar(10);not null;column:type"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null;column:amount"`
	Description  string          `gorm:"size:255;column:description"`
	Date         time.Time       `gorm:"not null;index:idx_transactions_user_date,priority:2;column:date"`
	CreatedAt    time.Time       `gorm:"not null;column:created_at"`
	UpdatedAt    time.Time       `gorm:"not null;column:updated_at"`
}

func (transactionDB) TableName() string {
	return "transactions"
}

func toDomainTransaction(tdb *transactionDB) (*transaction.Transaction, error) {
	id, err := pkg.ParseULID(tdb.Id)
	if err != nil {
		return nil, err
	}
	uid, err := pkg.ParseULID(tdb.UserId)
	if err != nil {
		return nil, err
	}
	cid, err := pkg.ParseULID(tdb.CategoryId)
	if err != nil {
		return nil, err
	}

	return &transaction.Transaction{
		Id:           id,
		UserId:       uid,
		CategoryId:   cid,
		CategoryName: tdb.CategoryName,
		Type:         transaction.Types(tdb.Type),
		Amount:       money(tdb.Amount),
		Description:  tdb.Description,
		Date:         tdb.Date.UTC(),
		CreatedAt:    tdb.CreatedAt,
		UpdatedAt:    tdb.UpdatedAt,
	}, nil
}

func toDBTransaction(t *transaction.Transaction) *transactionDB {
	return &transactionDB{
		Id:          t.Id.String(),
		UserId:      t.UserId.String(),
		CategoryId:  t.CategoryId.String(),
		Type:        string(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date.UTC(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	return r.DB.WithContext(ctx).Create(toDBTransaction(t)).Error
}

func (r *TransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	tdb := toDBTransaction(t)
	return matchedRow(r.DB.WithContext(ctx).Model(&transactionDB{}).
		Where("id = ? AND user_id = ?", tdb.Id, tdb.UserId).
		Updates(map[string]interface{}{
			"category_id": tdb.CategoryId,
			"type":        tdb.Type,
			"amount":      tdb.Amount,
			"description": tdb.Description,
			"date":        tdb.Date,
			"updated_at":  tdb.UpdatedAt,
		}))
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID, userID ulid.ULID) error {
	return matchedRow(r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", transactionID.String(), userID.String()).
		Delete(&transactionDB{}))
}

func (r *TransactionRepository) GetByIDAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*transaction.Transaction, error) {
	var tdb transactionDB
	err := r.DB.WithContext(ctx).Table("transactions t").
		Select("t.*, c.name AS category_name").
		Joins("LEFT JOIN categories c ON c.id = t.category_id").
		Where("t.id = ? AND t.user_id = ?", transactionID.String(), userID.String()).
		Take(&tdb).Error
	if err != nil {
		return nil, err
	}
	return toDomainTransaction(&tdb)
}

func (r *TransactionRepository) GetForUpdate(ctx context.Context, transactionID, userID ulid.ULID) (*transaction.Transaction, error) {
	var tdb transactionDB
	q := r.DB.WithContext(ctx).Table("transactions t").
		Select("t.*, c.name AS category_name").
		Joins("LEFT JOIN categories c ON c.id = t.category_id").
		Where("t.id = ? AND t.user_id = ?", transactionID.String(), userID.String())
	if err := forUpdate(q, "t").Take(&tdb).Error; err != nil {
		return nil, err
	}
	return toDomainTransaction(&tdb)
}

// filtered builds the shared WHERE clause for every report read. The data
// query, the count and the sums all go through it so they cover the same rows.
func (r *TransactionRepository) filtered(ctx context.Context, userID ulid.ULID, f report.Filters) *gorm.DB {
	q := r.DB.WithContext(ctx).Table("transactions t").Where("t.user_id = ?", userID.String())
	if f.Type != "" {
		q = q.Where("t.type = ?", f.Type)
	}
	if f.CategoryId != nil {
		q = q.Where("t.category_id = ?", f.CategoryId.String())
	}
	if f.DateFrom != nil {
		q = q.Where("t.date >= ?", f.DateFrom.UTC())
	}
	if f.DateTo != nil {
		q = q.Where("t.date <= ?", f.DateTo.UTC())
	}
	return q
}

func (r *TransactionRepository) List(ctx context.Context, userID ulid.ULID, f report.Filters, pagination *pkg.PaginationParams) ([]*transaction.Transaction, error) {
	pagination = pkg.NormalizePagination(pagination)

	var rows []transactionDB
	err := r.filtered(ctx, userID, f).
		Select("t.*, c.name AS category_name").
		Joins("LEFT JOIN categories c ON c.id = t.category_id").
		Order("t.date DESC, t.created_at DESC, t.id DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*transaction.Transaction, 0, len(rows))
	for i := range rows {
		item, err := toDomainTransaction(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *TransactionRepository) Count(ctx context.Context, userID ulid.ULID, f report.Filters) (int64, error) {
	var total int64
	err := r.filtered(ctx, userID, f).Count(&total).Error
	return total, err
}

// SumByType adds the typ condition on top of the filters. A filter already
// pinned to the other type therefore sums to zero.
func (r *TransactionRepository) SumByType(ctx context.Context, userID ulid.ULID, f report.Filters, typ string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.filtered(ctx, userID, f).
		Where("t.type = ?", typ).
		Select("COALESCE(SUM(t.amount), 0) AS total").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return money(result.Total), nil
}

func (r *TransactionRepository) SumByCategory(ctx context.Context, userID ulid.ULID, f report.Filters) ([]report.CategoryTotal, error) {
	var rows []struct {
		CategoryId string
		Total      decimal.Decimal
	}
	err := r.filtered(ctx, userID, f).
		Select("t.category_id AS category_id, SUM(t.amount) AS total").
		Group("t.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		id, err := pkg.ParseULID(row.CategoryId)
		if err != nil {
			return nil, err
		}
		out = append(out, report.CategoryTotal{CategoryId: id, Total: money(row.Total)})
	}
	return out, nil
}

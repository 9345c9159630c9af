package budget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"Finary/internal/cache"
	"Finary/internal/cache/cachetest"
	"Finary/internal/domain/budget"
	"Finary/internal/domain/category"
	appErrors "Finary/internal/errors"
	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeBudgetRepository struct {
	createFn     func(ctx context.Context, b *budget.Budget) error
	updateFn     func(ctx context.Context, b *budget.Budget) error
	deleteFn     func(ctx context.Context, budgetID, userID ulid.ULID) error
	getByIDFn    func(ctx context.Context, budgetID, userID ulid.ULID) (*budget.Budget, error)
	findByKeyFn  func(ctx context.Context, userID, categoryID ulid.ULID, period budget.Period) (*budget.Budget, error)
	listByUserFn func(ctx context.Context, userID ulid.ULID) ([]*budget.Budget, error)
	summaryFn    func(ctx context.Context, userID ulid.ULID) (*budget.Summary, error)
}

func (f *fakeBudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, b)
	}
	return nil
}

func (f *fakeBudgetRepository) Delete(ctx context.Context, budgetID, userID ulid.ULID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, budgetID, userID)
	}
	return nil
}

func (f *fakeBudgetRepository) GetByID(ctx context.Context, budgetID, userID ulid.ULID) (*budget.Budget, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, budgetID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBudgetRepository) FindByKey(ctx context.Context, userID, categoryID ulid.ULID, period budget.Period) (*budget.Budget, error) {
	if f.findByKeyFn != nil {
		return f.findByKeyFn(ctx, userID, categoryID, period)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBudgetRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*budget.Budget, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}
	return []*budget.Budget{}, nil
}

func (f *fakeBudgetRepository) GetSummary(ctx context.Context, userID ulid.ULID) (*budget.Summary, error) {
	if f.summaryFn != nil {
		return f.summaryFn(ctx, userID)
	}
	return &budget.Summary{}, nil
}

type fakeCategories struct {
	owned map[ulid.ULID]*category.Category
}

func (f *fakeCategories) FindOne(_ context.Context, categoryID, userID ulid.ULID) (*category.Category, error) {
	c, ok := f.owned[categoryID]
	if !ok || c.UserId != userID {
		return nil, appErrors.ErrCategoryNotFound
	}
	return c, nil
}

func newCategories(userID ulid.ULID, names ...string) (*fakeCategories, []ulid.ULID) {
	f := &fakeCategories{owned: make(map[ulid.ULID]*category.Category)}
	ids := make([]ulid.ULID, 0, len(names))
	for _, name := range names {
		id := pkg.GenerateULIDObject()
		f.owned[id] = &category.Category{Id: id, UserId: userID, Name: name, Type: category.TypeExpense}
		ids = append(ids, id)
	}
	return f, ids
}

func TestCreateBudget(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	cats, ids := newCategories(userID, "Groceries")
	mem := cachetest.NewMemory()
	mem.Put(cache.BudgetsKey(userID), []byte("[]"))

	var stored *budget.Budget
	repo := &fakeBudgetRepository{
		createFn: func(_ context.Context, b *budget.Budget) error {
			stored = b
			return nil
		},
	}
	svc := budget.NewService(repo, cats, mem, 10*time.Minute)

	created, err := svc.Create(context.Background(), userID, budget.CreateInput{
		CategoryId: ids[0],
		Allocated:  decimal.NewFromInt(500),
		Period:     budget.PeriodMonthly,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.Spent.IsZero() {
		t.Fatalf("new budget must start with zero spent, got %s", stored.Spent)
	}
	if created.CategoryName != "Groceries" {
		t.Fatalf("expected category name, got %q", created.CategoryName)
	}
	if mem.Has(cache.BudgetsKey(userID)) {
		t.Fatalf("expected budgets cache to be invalidated")
	}
	deleted := mem.Deleted()
	if len(deleted) != 2 || deleted[1] != cache.TransactionsKey(userID) {
		t.Fatalf("unexpected invalidations %v", deleted)
	}
}

func TestCreateBudgetErrors(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	cats, ids := newCategories(userID, "Groceries")

	tests := []struct {
		name     string
		input    budget.CreateInput
		repo     *fakeBudgetRepository
		wantErr  error
		wantKind appErrors.Kind
	}{
		{
			name:     "non positive allocation",
			input:    budget.CreateInput{CategoryId: ids[0], Allocated: decimal.Zero, Period: budget.PeriodMonthly},
			repo:     &fakeBudgetRepository{},
			wantKind: appErrors.KindBadRequest,
		},
		{
			name:     "unknown period",
			input:    budget.CreateInput{CategoryId: ids[0], Allocated: decimal.NewFromInt(10), Period: "DAILY"},
			repo:     &fakeBudgetRepository{},
			wantKind: appErrors.KindBadRequest,
		},
		{
			name:     "foreign category",
			input:    budget.CreateInput{CategoryId: pkg.GenerateULIDObject(), Allocated: decimal.NewFromInt(10), Period: budget.PeriodMonthly},
			repo:     &fakeBudgetRepository{},
			wantErr:  appErrors.ErrCategoryNotFound,
			wantKind: appErrors.KindNotFound,
		},
		{
			name:  "slot already taken",
			input: budget.CreateInput{CategoryId: ids[0], Allocated: decimal.NewFromInt(10), Period: budget.PeriodMonthly},
			repo: &fakeBudgetRepository{
				findByKeyFn: func(context.Context, ulid.ULID, ulid.ULID, budget.Period) (*budget.Budget, error) {
					return &budget.Budget{Id: pkg.GenerateULIDObject()}, nil
				},
			},
			wantErr:  budget.ErrAlreadyExists,
			wantKind: appErrors.KindConflict,
		},
		{
			name:  "lost race on unique index",
			input: budget.CreateInput{CategoryId: ids[0], Allocated: decimal.NewFromInt(10), Period: budget.PeriodMonthly},
			repo: &fakeBudgetRepository{
				createFn: func(context.Context, *budget.Budget) error { return gorm.ErrDuplicatedKey },
			},
			wantErr:  budget.ErrAlreadyExists,
			wantKind: appErrors.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := budget.NewService(tt.repo, cats, nil, time.Minute)

			_, err := svc.Create(context.Background(), userID, tt.input)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if kind := appErrors.KindOf(err); kind != tt.wantKind {
				t.Fatalf("expected kind %s, got %s", tt.wantKind, kind)
			}
		})
	}
}

func TestUpdateBudgetMergesPatchAndKeepsSpent(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	cats, ids := newCategories(userID, "Groceries")
	budgetID := pkg.GenerateULIDObject()

	var checkedPeriod budget.Period
	var stored *budget.Budget
	repo := &fakeBudgetRepository{
		getByIDFn: func(context.Context, ulid.ULID, ulid.ULID) (*budget.Budget, error) {
			return &budget.Budget{
				Id:         budgetID,
				UserId:     userID,
				CategoryId: ids[0],
				Allocated:  decimal.NewFromInt(500),
				Spent:      decimal.NewFromInt(120),
				Period:     budget.PeriodMonthly,
			}, nil
		},
		findByKeyFn: func(_ context.Context, _ ulid.ULID, categoryID ulid.ULID, period budget.Period) (*budget.Budget, error) {
			checkedPeriod = period
			if categoryID != ids[0] {
				t.Fatalf("duplicate check used the wrong category")
			}
			return nil, gorm.ErrRecordNotFound
		},
		updateFn: func(_ context.Context, b *budget.Budget) error {
			stored = b
			return nil
		},
	}
	svc := budget.NewService(repo, cats, nil, time.Minute)

	yearly := budget.PeriodYearly
	updated, err := svc.Update(context.Background(), budgetID, userID, budget.UpdateInput{Period: &yearly})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkedPeriod != budget.PeriodYearly {
		t.Fatalf("duplicate check must use the merged period, got %s", checkedPeriod)
	}
	if !stored.Spent.Equal(decimal.NewFromInt(120)) || !updated.Allocated.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected budget after update: %+v", stored)
	}
}

func TestUpdateBudgetConflictsWithAnotherBudget(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	cats, ids := newCategories(userID, "Groceries")
	budgetID := pkg.GenerateULIDObject()

	repo := &fakeBudgetRepository{
		getByIDFn: func(context.Context, ulid.ULID, ulid.ULID) (*budget.Budget, error) {
			return &budget.Budget{Id: budgetID, UserId: userID, CategoryId: ids[0], Allocated: decimal.NewFromInt(5), Period: budget.PeriodWeekly}, nil
		},
		findByKeyFn: func(context.Context, ulid.ULID, ulid.ULID, budget.Period) (*budget.Budget, error) {
			return &budget.Budget{Id: pkg.GenerateULIDObject()}, nil
		},
		updateFn: func(context.Context, *budget.Budget) error {
			t.Fatalf("update must not reach the store")
			return nil
		},
	}
	svc := budget.NewService(repo, cats, nil, time.Minute)

	monthly := budget.PeriodMonthly
	_, err := svc.Update(context.Background(), budgetID, userID, budget.UpdateInput{Period: &monthly})
	if !errors.Is(err, budget.ErrDuplicateOnSet) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}
}

func TestUpdateBudgetMatchingItselfIsAllowed(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	cats, ids := newCategories(userID, "Groceries")
	budgetID := pkg.GenerateULIDObject()
	self := &budget.Budget{Id: budgetID, UserId: userID, CategoryId: ids[0], Allocated: decimal.NewFromInt(5), Period: budget.PeriodWeekly}

	repo := &fakeBudgetRepository{
		getByIDFn: func(context.Context, ulid.ULID, ulid.ULID) (*budget.Budget, error) {
			copied := *self
			return &copied, nil
		},
		findByKeyFn: func(context.Context, ulid.ULID, ulid.ULID, budget.Period) (*budget.Budget, error) {
			return self, nil
		},
	}
	svc := budget.NewService(repo, cats, nil, time.Minute)

	allocated := decimal.NewFromInt(50)
	updated, err := svc.Update(context.Background(), budgetID, userID, budget.UpdateInput{Allocated: &allocated})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Allocated.Equal(allocated) {
		t.Fatalf("expected allocation %s, got %s", allocated, updated.Allocated)
	}
}

func TestFindOneForeignBudgetIsNotFound(t *testing.T) {
	svc := budget.NewService(&fakeBudgetRepository{}, &fakeCategories{}, nil, time.Minute)

	_, err := svc.FindOne(context.Background(), pkg.GenerateULIDObject(), pkg.GenerateULIDObject())
	if appErrors.KindOf(err) != appErrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveBudgetInvalidatesLedgerKeys(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	budgetID := pkg.GenerateULIDObject()
	deleted := false
	repo := &fakeBudgetRepository{
		getByIDFn: func(context.Context, ulid.ULID, ulid.ULID) (*budget.Budget, error) {
			return &budget.Budget{Id: budgetID, UserId: userID}, nil
		},
		deleteFn: func(_ context.Context, id, uid ulid.ULID) error {
			deleted = id == budgetID && uid == userID
			return nil
		},
	}
	mem := cachetest.NewMemory()
	svc := budget.NewService(repo, &fakeCategories{}, mem, time.Minute)

	if err := svc.Remove(context.Background(), budgetID, userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatalf("expected scoped delete")
	}
	if got := mem.Deleted(); len(got) != 2 {
		t.Fatalf("unexpected invalidations %v", got)
	}
}

func TestFindAllFallsBackWhenCacheIsDown(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	mem := cachetest.NewMemory()
	mem.FailReads = true
	mem.FailWrites = true

	repo := &fakeBudgetRepository{
		listByUserFn: func(context.Context, ulid.ULID) ([]*budget.Budget, error) {
			return []*budget.Budget{{Id: pkg.GenerateULIDObject(), UserId: userID, Allocated: decimal.NewFromInt(10)}}, nil
		},
	}
	svc := budget.NewService(repo, &fakeCategories{}, mem, time.Minute)

	budgets, err := svc.FindAll(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected store result, got %d budgets", len(budgets))
	}
}

func TestBudgetFigures(t *testing.T) {
	b := &budget.Budget{Allocated: decimal.NewFromInt(200), Spent: decimal.NewFromInt(250)}
	if !b.Remaining().IsZero() {
		t.Fatalf("remaining must floor at zero, got %s", b.Remaining())
	}
	if b.Percentage() != 125 {
		t.Fatalf("unexpected percentage %v", b.Percentage())
	}
	if !b.IsExceeded() {
		t.Fatalf("expected exceeded budget")
	}
}

func TestWritesOnVanishedBudgetAreNotFound(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	cats, ids := newCategories(userID, "Groceries")
	budgetID := pkg.GenerateULIDObject()
	repo := &fakeBudgetRepository{
		getByIDFn: func(context.Context, ulid.ULID, ulid.ULID) (*budget.Budget, error) {
			return &budget.Budget{Id: budgetID, UserId: userID, CategoryId: ids[0], Allocated: decimal.NewFromInt(5), Period: budget.PeriodMonthly}, nil
		},
		updateFn: func(context.Context, *budget.Budget) error { return gorm.ErrRecordNotFound },
		deleteFn: func(context.Context, ulid.ULID, ulid.ULID) error { return gorm.ErrRecordNotFound },
	}
	mem := cachetest.NewMemory()
	svc := budget.NewService(repo, cats, mem, time.Minute)

	allocated := decimal.NewFromInt(9)
	if _, err := svc.Update(context.Background(), budgetID, userID, budget.UpdateInput{Allocated: &allocated}); !errors.Is(err, appErrors.ErrBudgetNotFound) {
		t.Fatalf("expected ErrBudgetNotFound on update, got %v", err)
	}
	if err := svc.Remove(context.Background(), budgetID, userID); !errors.Is(err, appErrors.ErrBudgetNotFound) {
		t.Fatalf("expected ErrBudgetNotFound on remove, got %v", err)
	}
	if got := mem.Deleted(); len(got) != 0 {
		t.Fatalf("expected no invalidation, got %v", got)
	}
}

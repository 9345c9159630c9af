package goal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"Finary/internal/cache"
	"Finary/internal/cache/cachetest"
	"Finary/internal/domain/category"
	"Finary/internal/domain/goal"
	appErrors "Finary/internal/errors"
	"Finary/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeGoalRepository struct {
	createFn    func(ctx context.Context, g *goal.Goal) error
	updateFn    func(ctx context.Context, g *goal.Goal) error
	deleteFn    func(ctx context.Context, goalID, userID ulid.ULID) error
	getFn       func(ctx context.Context, goalID, userID ulid.ULID) (*goal.Goal, error)
	findByKeyFn func(ctx context.Context, userID, categoryID ulid.ULID, name string) (*goal.Goal, error)
	listFn      func(ctx context.Context, userID ulid.ULID) ([]*goal.Goal, error)
}

func (f *fakeGoalRepository) Create(ctx context.Context, g *goal.Goal) error {
	if f.createFn != nil {
		return f.createFn(ctx, g)
	}
	return nil
}

func (f *fakeGoalRepository) Update(ctx context.Context, g *goal.Goal) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, g)
	}
	return nil
}

func (f *fakeGoalRepository) Delete(ctx context.Context, goalID, userID ulid.ULID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, goalID, userID)
	}
	return nil
}

func (f *fakeGoalRepository) GetByIDAndUser(ctx context.Context, goalID, userID ulid.ULID) (*goal.Goal, error) {
	if f.getFn != nil {
		return f.getFn(ctx, goalID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGoalRepository) FindByKey(ctx context.Context, userID, categoryID ulid.ULID, name string) (*goal.Goal, error) {
	if f.findByKeyFn != nil {
		return f.findByKeyFn(ctx, userID, categoryID, name)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGoalRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*goal.Goal, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}
	return []*goal.Goal{}, nil
}

type fakeCategories struct {
	known map[ulid.ULID]string
}

func (f *fakeCategories) FindOne(_ context.Context, categoryID, userID ulid.ULID) (*category.Category, error) {
	name, ok := f.known[categoryID]
	if !ok {
		return nil, appErrors.ErrCategoryNotFound
	}
	return &category.Category{Id: categoryID, UserId: userID, Name: name, Type: category.TypeGoal}, nil
}

func TestCreateStoresGoalAndInvalidates(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	savings := pkg.GenerateULIDObject()
	mem := cachetest.NewMemory()
	mem.Put(cache.GoalsKey(userID), []byte("[]"))

	var stored *goal.Goal
	repo := &fakeGoalRepository{
		createFn: func(_ context.Context, g *goal.Goal) error {
			stored = g
			return nil
		},
	}
	svc := goal.NewService(repo, &fakeCategories{known: map[ulid.ULID]string{savings: "Savings"}}, mem, 10*time.Minute)

	created, err := svc.Create(context.Background(), userID, goal.CreateInput{
		Name:       " Emergency   fund ",
		CategoryId: savings,
		Amount:     decimal.NewFromInt(5000),
		Date:       time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || stored.Id != created.Id {
		t.Fatalf("expected goal to be stored")
	}
	if created.Name != "Emergency fund" || created.CategoryName != "Savings" {
		t.Fatalf("unexpected goal %+v", created)
	}
	if mem.Has(cache.GoalsKey(userID)) {
		t.Fatalf("expected goals cache to be invalidated")
	}
}

func TestCreateRejections(t *testing.T) {
	savings := pkg.GenerateULIDObject()

	tests := []struct {
		name     string
		input    goal.CreateInput
		existing *goal.Goal
		wantErr  error
		wantKind appErrors.Kind
	}{
		{name: "zero amount", input: goal.CreateInput{Name: "Car", CategoryId: savings}, wantErr: goal.ErrInvalidAmount, wantKind: appErrors.KindBadRequest},
		{name: "negative amount", input: goal.CreateInput{Name: "Car", CategoryId: savings, Amount: decimal.NewFromInt(-1)}, wantErr: goal.ErrInvalidAmount, wantKind: appErrors.KindBadRequest},
		{name: "unknown category", input: goal.CreateInput{Name: "Car", CategoryId: pkg.GenerateULIDObject(), Amount: decimal.NewFromInt(1)}, wantErr: appErrors.ErrCategoryNotFound, wantKind: appErrors.KindNotFound},
		{name: "duplicate", input: goal.CreateInput{Name: "Car", CategoryId: savings, Amount: decimal.NewFromInt(1)}, existing: &goal.Goal{Id: pkg.GenerateULIDObject()}, wantErr: goal.ErrNameTaken, wantKind: appErrors.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeGoalRepository{
				findByKeyFn: func(context.Context, ulid.ULID, ulid.ULID, string) (*goal.Goal, error) {
					if tt.existing != nil {
						return tt.existing, nil
					}
					return nil, gorm.ErrRecordNotFound
				},
				createFn: func(context.Context, *goal.Goal) error {
					t.Fatalf("create must not reach the store")
					return nil
				},
			}
			svc := goal.NewService(repo, &fakeCategories{known: map[ulid.ULID]string{savings: "Savings"}}, nil, time.Minute)

			_, err := svc.Create(context.Background(), pkg.GenerateULIDObject(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if kind := appErrors.KindOf(err); kind != tt.wantKind {
				t.Fatalf("expected kind %s, got %s", tt.wantKind, kind)
			}
		})
	}
}

func TestUpdateChecksMergedKeyExcludingSelf(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	savings := pkg.GenerateULIDObject()
	existing := &goal.Goal{Id: pkg.GenerateULIDObject(), UserId: userID, CategoryId: savings, Name: "Car", Amount: decimal.NewFromInt(100)}

	var lookedUp string
	repo := &fakeGoalRepository{
		getFn: func(context.Context, ulid.ULID, ulid.ULID) (*goal.Goal, error) {
			copied := *existing
			return &copied, nil
		},
		findByKeyFn: func(_ context.Context, _ ulid.ULID, categoryID ulid.ULID, name string) (*goal.Goal, error) {
			lookedUp = categoryID.String() + "/" + name
			// the goal finds itself under the merged key
			return existing, nil
		},
	}
	svc := goal.NewService(repo, &fakeCategories{known: map[ulid.ULID]string{savings: "Savings"}}, nil, time.Minute)

	amount := decimal.NewFromInt(250)
	updated, err := svc.Update(context.Background(), existing.Id, userID, goal.UpdateInput{Amount: &amount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Amount.Equal(amount) {
		t.Fatalf("expected amount 250, got %s", updated.Amount)
	}
	if lookedUp != savings.String()+"/Car" {
		t.Fatalf("unexpected uniqueness lookup %q", lookedUp)
	}
}

func TestUpdateConflictsWithAnotherGoal(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	savings := pkg.GenerateULIDObject()
	existing := &goal.Goal{Id: pkg.GenerateULIDObject(), UserId: userID, CategoryId: savings, Name: "Car", Amount: decimal.NewFromInt(100)}
	other := &goal.Goal{Id: pkg.GenerateULIDObject(), UserId: userID, CategoryId: savings, Name: "House", Amount: decimal.NewFromInt(100)}

	repo := &fakeGoalRepository{
		getFn: func(context.Context, ulid.ULID, ulid.ULID) (*goal.Goal, error) {
			copied := *existing
			return &copied, nil
		},
		findByKeyFn: func(context.Context, ulid.ULID, ulid.ULID, string) (*goal.Goal, error) {
			return other, nil
		},
		updateFn: func(context.Context, *goal.Goal) error {
			t.Fatalf("update must not reach the store")
			return nil
		},
	}
	svc := goal.NewService(repo, &fakeCategories{known: map[ulid.ULID]string{savings: "Savings"}}, nil, time.Minute)

	name := "House"
	_, err := svc.Update(context.Background(), existing.Id, userID, goal.UpdateInput{Name: &name})
	if !errors.Is(err, goal.ErrDuplicateOnSet) {
		t.Fatalf("expected ErrDuplicateOnSet, got %v", err)
	}
}

func TestUpdateRejectsNonPositiveAmount(t *testing.T) {
	existing := &goal.Goal{Id: pkg.GenerateULIDObject(), Name: "Car", Amount: decimal.NewFromInt(100)}
	repo := &fakeGoalRepository{
		getFn: func(context.Context, ulid.ULID, ulid.ULID) (*goal.Goal, error) { return existing, nil },
	}
	svc := goal.NewService(repo, &fakeCategories{}, nil, time.Minute)

	zero := decimal.Zero
	_, err := svc.Update(context.Background(), existing.Id, pkg.GenerateULIDObject(), goal.UpdateInput{Amount: &zero})
	if !errors.Is(err, goal.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRemoveMissingGoal(t *testing.T) {
	svc := goal.NewService(&fakeGoalRepository{}, &fakeCategories{}, nil, time.Minute)

	_, err := svc.Remove(context.Background(), pkg.GenerateULIDObject(), pkg.GenerateULIDObject())
	if !errors.Is(err, appErrors.ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
}

func TestFindAllReadsThroughCache(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	calls := 0
	repo := &fakeGoalRepository{
		listFn: func(context.Context, ulid.ULID) ([]*goal.Goal, error) {
			calls++
			return []*goal.Goal{{Id: pkg.GenerateULIDObject(), UserId: userID, Name: "Car", Amount: decimal.RequireFromString("1200.50")}}, nil
		},
	}
	mem := cachetest.NewMemory()
	svc := goal.NewService(repo, &fakeCategories{}, mem, 10*time.Minute)

	for i := 0; i < 3; i++ {
		goals, err := svc.FindAll(context.Background(), userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(goals) != 1 || !goals[0].Amount.Equal(decimal.RequireFromString("1200.50")) {
			t.Fatalf("unexpected goals %+v", goals)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one store read, got %d", calls)
	}
	if ttl := mem.TTL(cache.GoalsKey(userID)); ttl != 10*time.Minute {
		t.Fatalf("expected 10m ttl, got %s", ttl)
	}
}

func TestRemoveGoalDeletedMeanwhile(t *testing.T) {
	userID := pkg.GenerateULIDObject()
	goalID := pkg.GenerateULIDObject()
	repo := &fakeGoalRepository{
		getFn: func(context.Context, ulid.ULID, ulid.ULID) (*goal.Goal, error) {
			return &goal.Goal{Id: goalID, UserId: userID, Name: "Trip", Amount: decimal.NewFromInt(100)}, nil
		},
		deleteFn: func(context.Context, ulid.ULID, ulid.ULID) error { return gorm.ErrRecordNotFound },
	}
	svc := goal.NewService(repo, &fakeCategories{}, nil, time.Minute)

	_, err := svc.Remove(context.Background(), goalID, userID)
	if !errors.Is(err, appErrors.ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
}

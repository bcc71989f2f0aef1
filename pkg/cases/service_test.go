package cases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/plans"
)

// fakeRepo is an in-memory case Repository.
type fakeRepo struct {
	mu      sync.Mutex
	cases   map[primitive.ObjectID]*models.Case
	failIns bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{cases: make(map[primitive.ObjectID]*models.Case)}
}

func (f *fakeRepo) Insert(ctx context.Context, c *models.Case) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIns {
		return fmt.Errorf("insert failed")
	}
	c.ID = primitive.NewObjectID()
	if c.Status == "" {
		c.Status = models.CaseActive
	}
	clone := *c
	f.cases[c.ID] = &clone
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[id]
	if !ok || c.UserID != ownerID {
		return nil, ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeRepo) List(ctx context.Context, ownerID primitive.ObjectID, filter ListFilter) ([]models.Case, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Case{}
	for _, c := range f.cases {
		if c.UserID != ownerID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.Client+" "+c.Description), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Update(ctx context.Context, id, ownerID primitive.ObjectID, fields map[string]interface{}) (*models.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[id]
	if !ok || c.UserID != ownerID {
		return nil, ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			c.Name = v.(string)
		case "client":
			c.Client = v.(string)
		case "description":
			c.Description = v.(string)
		case "status":
			c.Status = v.(models.CaseStatus)
		}
	}
	clone := *c
	return &clone, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[id]
	if !ok || c.UserID != ownerID {
		return ErrNotFound
	}
	delete(f.cases, id)
	return nil
}

func (f *fakeRepo) IncFileCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.cases[id]; ok {
		if c.FileCount+delta >= 0 {
			c.FileCount += delta
		}
	}
	return nil
}

func (f *fakeRepo) Stats(ctx context.Context, ownerID primitive.ObjectID) (*models.CaseStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.CaseStats{}
	for _, c := range f.cases {
		if c.UserID != ownerID {
			continue
		}
		stats.Total++
		switch c.Status {
		case models.CaseActive:
			stats.Active++
		case models.CaseClosed:
			stats.Closed++
		case models.CaseArchived:
			stats.Archived++
		}
	}
	return stats, nil
}

func (f *fakeRepo) CountByUser(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.cases {
		if c.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.cases)), nil
}

func (f *fakeRepo) ListAllByUser(ctx context.Context, ownerID primitive.ObjectID) ([]models.Case, error) {
	out, _, err := f.List(ctx, ownerID, ListFilter{})
	return out, err
}

var _ Repository = (*fakeRepo)(nil)

// fakeQuota mirrors the atomic slot accounting of the user repository.
type fakeQuota struct {
	mu      sync.Mutex
	current int
	limit   int
	plan    plans.Plan
}

func (q *fakeQuota) ReserveCaseSlot(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current >= q.limit {
		return nil, &plans.LimitError{Current: q.current, Limit: q.limit, Plan: q.plan}
	}
	q.current++
	return &models.User{ID: userID, Plan: q.plan, PlanLimit: q.limit, CurrentCases: q.current}, nil
}

func (q *fakeQuota) ReleaseCaseSlot(ctx context.Context, userID primitive.ObjectID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current > 0 {
		q.current--
	}
	return nil
}

type fakePurger struct{ purged []primitive.ObjectID }

func (p *fakePurger) PurgeCase(ctx context.Context, caseID, ownerID primitive.ObjectID) error {
	p.purged = append(p.purged, caseID)
	return nil
}

type fakeMsgPurger struct{ purged []primitive.ObjectID }

func (p *fakeMsgPurger) PurgeCase(ctx context.Context, caseID primitive.ObjectID) error {
	p.purged = append(p.purged, caseID)
	return nil
}

func basicSetup() (*Service, *fakeRepo, *fakeQuota, primitive.ObjectID) {
	repo := newFakeRepo()
	quota := &fakeQuota{limit: 5, plan: plans.Basic}
	svc := NewService(repo, quota, nil, nil)
	return svc, repo, quota, primitive.NewObjectID()
}

func TestCreate(t *testing.T) {
	svc, _, quota, owner := basicSetup()

	c, err := svc.Create(context.Background(), owner, models.CreateCaseRequest{
		Name:        "Smith v. Jones",
		Client:      "John Smith",
		Description: "Contract dispute",
	})
	require.NoError(t, err)

	assert.Equal(t, "Smith v. Jones", c.Name)
	assert.Equal(t, models.CaseActive, c.Status)
	assert.Equal(t, owner, c.UserID)
	assert.Equal(t, 1, quota.current)

	got, err := svc.Get(context.Background(), c.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Smith v. Jones", got.Name)
}

func TestCreate_QuotaExhausted(t *testing.T) {
	svc, _, quota, owner := basicSetup()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, owner, models.CreateCaseRequest{Name: fmt.Sprintf("Case %d", i), Client: "C"})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, owner, models.CreateCaseRequest{Name: "One too many", Client: "C"})
	var limitErr *plans.LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 5, limitErr.Current)
	assert.Equal(t, 5, limitErr.Limit)
	assert.Equal(t, plans.Basic, limitErr.Plan)
	assert.Equal(t, 5, quota.current)
}

func TestCreate_InsertFailureReleasesSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.failIns = true
	quota := &fakeQuota{limit: 5, plan: plans.Basic}
	svc := NewService(repo, quota, nil, nil)

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), models.CreateCaseRequest{Name: "N", Client: "C"})
	require.Error(t, err)
	assert.Equal(t, 0, quota.current)
}

func TestDelete_CascadesAndReleasesSlot(t *testing.T) {
	repo := newFakeRepo()
	quota := &fakeQuota{limit: 5, plan: plans.Basic}
	files := &fakePurger{}
	messages := &fakeMsgPurger{}
	svc := NewService(repo, quota, files, messages)
	owner := primitive.NewObjectID()
	ctx := context.Background()

	c, err := svc.Create(ctx, owner, models.CreateCaseRequest{Name: "N", Client: "C"})
	require.NoError(t, err)
	require.Equal(t, 1, quota.current)

	require.NoError(t, svc.Delete(ctx, c.ID, owner))

	assert.Equal(t, 0, quota.current)
	assert.Equal(t, []primitive.ObjectID{c.ID}, files.purged)
	assert.Equal(t, []primitive.ObjectID{c.ID}, messages.purged)

	_, err = svc.Get(ctx, c.ID, owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_ForeignCaseNotFound(t *testing.T) {
	svc, _, quota, owner := basicSetup()
	ctx := context.Background()

	c, err := svc.Create(ctx, owner, models.CreateCaseRequest{Name: "N", Client: "C"})
	require.NoError(t, err)

	err = svc.Delete(ctx, c.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
	// Slot untouched when nothing was deleted
	assert.Equal(t, 1, quota.current)
}

func TestDelete_CounterNeverNegative(t *testing.T) {
	repo := newFakeRepo()
	quota := &fakeQuota{limit: 5, plan: plans.Basic}
	svc := NewService(repo, quota, nil, nil)
	owner := primitive.NewObjectID()
	ctx := context.Background()

	// A case that exists without a reserved slot, as after quota drift.
	c := &models.Case{Name: "Orphan", Client: "C", UserID: owner}
	require.NoError(t, repo.Insert(ctx, c))

	require.NoError(t, svc.Delete(ctx, c.ID, owner))
	assert.Equal(t, 0, quota.current)
}

func TestUpdate(t *testing.T) {
	svc, _, _, owner := basicSetup()
	ctx := context.Background()

	c, err := svc.Create(ctx, owner, models.CreateCaseRequest{Name: "N", Client: "C"})
	require.NoError(t, err)

	status := "closed"
	name := "Renamed"
	updated, err := svc.Update(ctx, c.ID, owner, models.UpdateCaseRequest{Name: &name, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.CaseClosed, updated.Status)

	bad := "pending"
	_, err = svc.Update(ctx, c.ID, owner, models.UpdateCaseRequest{Status: &bad})
	assert.Error(t, err)
}

func TestList_FilterAndSearch(t *testing.T) {
	svc, _, _, owner := basicSetup()
	ctx := context.Background()

	_, err := svc.Create(ctx, owner, models.CreateCaseRequest{Name: "Smith v. Jones", Client: "John Smith"})
	require.NoError(t, err)
	c2, err := svc.Create(ctx, owner, models.CreateCaseRequest{Name: "Estate of Miller", Client: "Ann Miller"})
	require.NoError(t, err)

	status := "archived"
	_, err = svc.Update(ctx, c2.ID, owner, models.UpdateCaseRequest{Status: &status})
	require.NoError(t, err)

	archived, total, err := svc.List(ctx, owner, ListFilter{Status: models.CaseArchived})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, archived, 1)
	assert.Equal(t, "Estate of Miller", archived[0].Name)

	found, _, err := svc.List(ctx, owner, ListFilter{Search: "smith"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Smith v. Jones", found[0].Name)
}

func TestStats(t *testing.T) {
	svc, _, _, owner := basicSetup()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, owner, models.CreateCaseRequest{Name: fmt.Sprintf("Case %d", i), Client: "C"})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 0, stats.Closed)
}

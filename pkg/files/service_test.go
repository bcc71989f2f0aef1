package files

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
)

// memRepo is an in-memory file Repository.
type memRepo struct {
	mu    sync.Mutex
	files map[primitive.ObjectID]*models.CaseFile
}

func newMemRepo() *memRepo {
	return &memRepo{files: make(map[primitive.ObjectID]*models.CaseFile)}
}

func (m *memRepo) Insert(ctx context.Context, f *models.CaseFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = primitive.NewObjectID()
	clone := *f
	m.files[f.ID] = &clone
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.CaseFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.UserID != ownerID {
		return nil, ErrNotFound
	}
	clone := *f
	return &clone, nil
}

func (m *memRepo) ListByCase(ctx context.Context, caseID, ownerID primitive.ObjectID) ([]models.CaseFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CaseFile{}
	for _, f := range m.files {
		if f.CaseID == caseID && f.UserID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memRepo) ListByUser(ctx context.Context, ownerID primitive.ObjectID) ([]models.CaseFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CaseFile{}
	for _, f := range m.files {
		if f.UserID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memRepo) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.UserID != ownerID {
		return ErrNotFound
	}
	delete(m.files, id)
	return nil
}

func (m *memRepo) DeleteByCase(ctx context.Context, caseID, ownerID primitive.ObjectID) ([]models.CaseFile, error) {
	records, err := m.ListByCase(ctx, caseID, ownerID)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range records {
		delete(m.files, f.ID)
	}
	return records, nil
}

func (m *memRepo) CountAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.files)), nil
}

var _ Repository = (*memRepo)(nil)

// memCases tracks case ownership and the file counter.
type memCases struct {
	mu     sync.Mutex
	owners map[primitive.ObjectID]primitive.ObjectID
	counts map[primitive.ObjectID]int
}

func newMemCases() *memCases {
	return &memCases{
		owners: make(map[primitive.ObjectID]primitive.ObjectID),
		counts: make(map[primitive.ObjectID]int),
	}
}

func (m *memCases) add(caseID, ownerID primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[caseID] = ownerID
}

func (m *memCases) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.owners[id]
	if !ok || owner != ownerID {
		return nil, fmt.Errorf("case not found")
	}
	return &models.Case{ID: id, UserID: owner, FileCount: m.counts[id]}, nil
}

func (m *memCases) IncFileCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts[id]+delta >= 0 {
		m.counts[id] += delta
	}
	return nil
}

// memStore is an in-memory object store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "https://files.example.com/" + key, nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func setup() (*Service, *memRepo, *memCases, *memStore) {
	repo := newMemRepo()
	cases := newMemCases()
	store := newMemStore()
	return NewService(repo, cases, store), repo, cases, store
}

func TestUpload(t *testing.T) {
	svc, _, cases, store := setup()
	owner := primitive.NewObjectID()
	caseID := primitive.NewObjectID()
	cases.add(caseID, owner)

	file, err := svc.Upload(context.Background(), caseID, owner, "contract.pdf", "application/pdf", []byte("%PDF-1.4 content"))
	require.NoError(t, err)

	assert.Equal(t, "contract.pdf", file.OriginalName)
	assert.Equal(t, int64(16), file.Size)
	assert.Contains(t, file.URL, file.Key)
	assert.Contains(t, file.Key, "files/"+owner.Hex()+"/"+caseID.Hex()+"/")
	assert.Equal(t, 1, cases.counts[caseID])
	assert.Len(t, store.objects, 1)
}

func TestUpload_ForeignCase(t *testing.T) {
	svc, repo, cases, store := setup()
	owner := primitive.NewObjectID()
	caseID := primitive.NewObjectID()
	cases.add(caseID, owner)

	intruder := primitive.NewObjectID()
	_, err := svc.Upload(context.Background(), caseID, intruder, "contract.pdf", "application/pdf", []byte("data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// Nothing persisted, nothing counted
	n, _ := repo.CountAll(context.Background())
	assert.Zero(t, n)
	assert.Empty(t, store.objects)
	assert.Zero(t, cases.counts[caseID])
}

func TestUpload_TooLarge(t *testing.T) {
	svc, _, cases, _ := setup()
	owner := primitive.NewObjectID()
	caseID := primitive.NewObjectID()
	cases.add(caseID, owner)

	data := make([]byte, MaxFileSize+1)
	_, err := svc.Upload(context.Background(), caseID, owner, "big.pdf", "application/pdf", data)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUpload_TypeNotAllowed(t *testing.T) {
	svc, _, cases, _ := setup()
	owner := primitive.NewObjectID()
	caseID := primitive.NewObjectID()
	cases.add(caseID, owner)

	_, err := svc.Upload(context.Background(), caseID, owner, "script.sh", "application/x-sh", []byte("#!/bin/sh"))
	assert.ErrorIs(t, err, ErrTypeNotAllowed)
}

func TestDelete(t *testing.T) {
	svc, _, cases, store := setup()
	owner := primitive.NewObjectID()
	caseID := primitive.NewObjectID()
	cases.add(caseID, owner)
	ctx := context.Background()

	file, err := svc.Upload(ctx, caseID, owner, "contract.pdf", "application/pdf", []byte("data"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, file.ID, owner))
	assert.Empty(t, store.objects)
	assert.Zero(t, cases.counts[caseID])

	_, err = svc.Get(ctx, file.ID, owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPurgeCase(t *testing.T) {
	svc, repo, cases, store := setup()
	owner := primitive.NewObjectID()
	caseID := primitive.NewObjectID()
	cases.add(caseID, owner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Upload(ctx, caseID, owner, fmt.Sprintf("doc%d.pdf", i), "application/pdf", []byte("data"))
		require.NoError(t, err)
	}

	require.NoError(t, svc.PurgeCase(ctx, caseID, owner))

	n, _ := repo.CountAll(ctx)
	assert.Zero(t, n)
	assert.Empty(t, store.objects)
}

func TestAllowedType(t *testing.T) {
	assert.True(t, AllowedType("application/pdf"))
	assert.True(t, AllowedType("image/png"))
	assert.True(t, AllowedType("text/plain"))
	assert.False(t, AllowedType("application/zip"))
	assert.False(t, AllowedType("video/mp4"))
}

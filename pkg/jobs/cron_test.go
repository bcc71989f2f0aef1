package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
)

type fakeUsers struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUsers) All(ctx context.Context, page, limit int64) ([]models.User, int64, error) {
	if page > 1 {
		return nil, int64(len(f.users)), nil
	}
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUsers) SetCurrentCases(ctx context.Context, id primitive.ObjectID, count int) error {
	if count < 0 {
		count = 0
	}
	f.users[id].CurrentCases = count
	return nil
}

type fakeCounter struct {
	counts map[primitive.ObjectID]int64
}

func (f *fakeCounter) CountByUser(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return f.counts[ownerID], nil
}

func TestReconcileQuotas(t *testing.T) {
	driftedID := primitive.NewObjectID()
	correctID := primitive.NewObjectID()

	users := &fakeUsers{users: map[primitive.ObjectID]*models.User{
		driftedID: {ID: driftedID, Email: "drift@firm.com", CurrentCases: 4},
		correctID: {ID: correctID, Email: "ok@firm.com", CurrentCases: 2},
	}}
	counter := &fakeCounter{counts: map[primitive.ObjectID]int64{
		driftedID: 1,
		correctID: 2,
	}}

	m := NewCronManager(users, counter, nil)
	require.NoError(t, m.ReconcileQuotas(context.Background()))

	assert.Equal(t, 1, users.users[driftedID].CurrentCases)
	assert.Equal(t, 2, users.users[correctID].CurrentCases)
}

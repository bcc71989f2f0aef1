package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
)

type staticSource struct {
	cases []models.Case
}

func (s staticSource) ListAllByUser(ctx context.Context, ownerID primitive.ObjectID) ([]models.Case, error) {
	return s.cases, nil
}

func sampleCases() []models.Case {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return []models.Case{
		{Name: "Smith v. Jones", Client: "John Smith", Status: models.CaseActive, Description: "Contract dispute", FileCount: 3, CreatedAt: created},
		{Name: "Estate of Miller", Client: "Ann Miller", Status: models.CaseClosed, FileCount: 0, CreatedAt: created},
	}
}

func TestCSV(t *testing.T) {
	svc := NewService(staticSource{cases: sampleCases()})

	out, err := svc.CSV(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Name", "Client", "Status", "Description", "Files", "Created"}, records[0])
	assert.Equal(t, "Smith v. Jones", records[1][0])
	assert.Equal(t, "active", records[1][2])
	assert.Equal(t, "3", records[1][4])
	assert.Equal(t, "2025-03-14T09:30:00Z", records[1][5])
	assert.Equal(t, "Estate of Miller", records[2][0])
}

func TestXLSX(t *testing.T) {
	svc := NewService(staticSource{cases: sampleCases()})

	out, err := svc.XLSX(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Cases")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "Smith v. Jones", rows[1][0])
	assert.Equal(t, "closed", rows[2][2])
}

func TestCSV_Empty(t *testing.T) {
	svc := NewService(staticSource{})

	out, err := svc.CSV(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

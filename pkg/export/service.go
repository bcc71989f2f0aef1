package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
)

// CaseSource lists every case a user owns, newest first.
type CaseSource interface {
	ListAllByUser(ctx context.Context, ownerID primitive.ObjectID) ([]models.Case, error)
}

// Service renders a user's case list as a downloadable spreadsheet.
type Service struct {
	cases CaseSource
}

// NewService creates an export service.
func NewService(cases CaseSource) *Service {
	return &Service{cases: cases}
}

var header = []string{"Name", "Client", "Status", "Description", "Files", "Created"}

func row(c models.Case) []string {
	return []string{
		c.Name,
		c.Client,
		string(c.Status),
		c.Description,
		strconv.Itoa(c.FileCount),
		c.CreatedAt.Format(time.RFC3339),
	}
}

// CSV renders the owner's cases as CSV.
func (s *Service) CSV(ctx context.Context, ownerID primitive.ObjectID) ([]byte, error) {
	cases, err := s.cases.ListAllByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed writing csv header: %w", err)
	}
	for _, c := range cases {
		if err := w.Write(row(c)); err != nil {
			return nil, fmt.Errorf("failed writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX renders the owner's cases as an Excel workbook.
func (s *Service) XLSX(ctx context.Context, ownerID primitive.ObjectID) ([]byte, error) {
	cases, err := s.cases.ListAllByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Cases"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed removing default sheet: %w", err)
	}

	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed writing header: %w", err)
		}
	}

	for i, c := range cases {
		for col, value := range row(c) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed writing row %d: %w", i+1, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

package files

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/storage"
)

// MaxFileSize is the upload ceiling in bytes.
const MaxFileSize = 10 << 20 // 10 MiB

// allowedTypes is the upload MIME allow-list.
var allowedTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

// ErrFileTooLarge is returned when an upload exceeds MaxFileSize.
var ErrFileTooLarge = fmt.Errorf("file exceeds the %d MB size limit", MaxFileSize>>20)

// ErrTypeNotAllowed is returned for MIME types outside the allow-list.
var ErrTypeNotAllowed = fmt.Errorf("file type not allowed")

// CaseStore is the slice of the case repository the file service needs:
// ownership checks and the denormalized file counter.
type CaseStore interface {
	FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Case, error)
	IncFileCount(ctx context.Context, id primitive.ObjectID, delta int) error
}

// Service stores file blobs in object storage and their metadata in the
// repository, bound to case ownership.
type Service struct {
	repo  Repository
	cases CaseStore
	store storage.ObjectStore
}

// NewService creates a file service.
func NewService(repo Repository, cases CaseStore, store storage.ObjectStore) *Service {
	return &Service{repo: repo, cases: cases, store: store}
}

// AllowedType reports whether the MIME type may be uploaded.
func AllowedType(contentType string) bool {
	return allowedTypes[contentType]
}

// Upload validates, stores and records a file on an owned case. Uploads to
// cases the user does not own fail with the case store's not-found error
// before any byte reaches storage.
func (s *Service) Upload(ctx context.Context, caseID, ownerID primitive.ObjectID, filename, contentType string, data []byte) (*models.CaseFile, error) {
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	if !AllowedType(contentType) {
		return nil, ErrTypeNotAllowed
	}

	if _, err := s.cases.FindByID(ctx, caseID, ownerID); err != nil {
		return nil, err
	}

	if s.store == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}

	key := storage.ObjectKey(ownerID.Hex(), caseID.Hex(), filename)
	url, err := s.store.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed storing file: %w", err)
	}

	file := &models.CaseFile{
		Name:         filename,
		OriginalName: filename,
		Size:         int64(len(data)),
		Type:         contentType,
		CaseID:       caseID,
		UserID:       ownerID,
		URL:          url,
		Key:          key,
	}

	if err := s.repo.Insert(ctx, file); err != nil {
		// Orphaned blob cleanup is best effort.
		if derr := s.store.Delete(ctx, key); derr != nil {
			log.Printf("⚠️ Failed to remove orphaned blob %s: %v", key, derr)
		}
		return nil, err
	}

	if err := s.cases.IncFileCount(ctx, caseID, 1); err != nil {
		log.Printf("⚠️ Failed to bump file count for case %s: %v", caseID.Hex(), err)
	}

	return file, nil
}

// ListByCase returns the metadata of every file on an owned case.
func (s *Service) ListByCase(ctx context.Context, caseID, ownerID primitive.ObjectID) ([]models.CaseFile, error) {
	if _, err := s.cases.FindByID(ctx, caseID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByCase(ctx, caseID, ownerID)
}

// ListByUser returns the metadata of every file the user owns, across all
// their cases.
func (s *Service) ListByUser(ctx context.Context, ownerID primitive.ObjectID) ([]models.CaseFile, error) {
	return s.repo.ListByUser(ctx, ownerID)
}

// Get returns one owned file record.
func (s *Service) Get(ctx context.Context, id, ownerID primitive.ObjectID) (*models.CaseFile, error) {
	return s.repo.FindByID(ctx, id, ownerID)
}

// Delete removes a file's blob and record and decrements the case counter.
func (s *Service) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	file, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if s.store != nil {
		if err := s.store.Delete(ctx, file.Key); err != nil {
			log.Printf("⚠️ Failed to delete blob %s: %v", file.Key, err)
		}
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.cases.IncFileCount(ctx, file.CaseID, -1); err != nil {
		log.Printf("⚠️ Failed to drop file count for case %s: %v", file.CaseID.Hex(), err)
	}
	return nil
}

// PurgeCase removes every file of a case, blobs and records. Used by the
// case deletion cascade.
func (s *Service) PurgeCase(ctx context.Context, caseID, ownerID primitive.ObjectID) error {
	records, err := s.repo.DeleteByCase(ctx, caseID, ownerID)
	if err != nil {
		return err
	}

	for _, f := range records {
		if s.store == nil {
			break
		}
		if err := s.store.Delete(ctx, f.Key); err != nil {
			log.Printf("⚠️ Failed to delete blob %s during case purge: %v", f.Key, err)
		}
	}
	return nil
}

// CountAll returns the platform-wide file count for admin stats.
func (s *Service) CountAll(ctx context.Context) (int64, error) {
	return s.repo.CountAll(ctx)
}

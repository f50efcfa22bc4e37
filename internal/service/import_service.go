package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/importer"
	"github.com/nitesh-dev/gymmora-sub000/internal/storage"
	"github.com/nitesh-dev/gymmora-sub000/internal/telemetry/metrics"
	"github.com/nitesh-dev/gymmora-sub000/internal/telemetry/tracing"
)

// ImportStatus is the outcome of one document of a batch.
type ImportStatus string

const (
	ImportStatusImported  ImportStatus = "imported"
	ImportStatusInvalid   ImportStatus = "invalid"
	ImportStatusFailed    ImportStatus = "failed"
	ImportStatusCancelled ImportStatus = "cancelled"
)

// ImportResult reports one document of a batch. Index is the document's
// position in the batch.
type ImportResult struct {
	Index    int          `json:"index"`
	Status   ImportStatus `json:"status"`
	PlanID   string       `json:"planId,omitempty"`
	Name     string       `json:"name,omitempty"`
	Problems []string     `json:"problems,omitempty"`
	Err      error        `json:"-"`
}

// ArchivedExport points at an exported document stored in object storage.
type ArchivedExport struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// --- Service Interface ---
type ImportService interface {
	Import(ctx context.Context, ownerID string, raw []byte) (*domain.Plan, error)
	ImportBatch(ctx context.Context, ownerID string, raw []byte) ([]ImportResult, error)
	Export(ctx context.Context, planID string) (domain.ProgramDocument, error)
	ArchiveExport(ctx context.Context, planID string) (*ArchivedExport, error)
}

// --- Service Implementation ---

type importService struct {
	programs    ProgramService
	fileStorage storage.FileStorage
	metrics     *metrics.Manager
	now         func() time.Time
}

// NewImportService creates a new instance of importService. fileStorage and
// metricsManager may be nil.
func NewImportService(programs ProgramService, fileStorage storage.FileStorage, metricsManager *metrics.Manager) ImportService {
	return &importService{
		programs:    programs,
		fileStorage: fileStorage,
		metrics:     metricsManager,
		now:         time.Now,
	}
}

// Import normalizes one raw document and stores it as a new plan.
func (s *importService) Import(ctx context.Context, ownerID string, raw []byte) (*domain.Plan, error) {
	doc, err := importer.ValidateAndNormalize(raw)
	if err != nil {
		s.count(ImportStatusInvalid)
		return nil, err
	}
	plan, err := s.programs.CreateProgram(ctx, ownerID, doc)
	if err != nil {
		s.count(statusOf(err))
		return nil, err
	}
	s.count(ImportStatusImported)
	return plan, nil
}

// ImportBatch imports a single document or an array of documents one after
// another. A failing document does not affect the others. Once ctx is
// cancelled the remaining documents are reported as cancelled and ctx.Err()
// is returned next to the results; a document already being written is
// allowed to finish.
func (s *importService) ImportBatch(ctx context.Context, ownerID string, raw []byte) (_ []ImportResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "importService.ImportBatch")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	docs, err := importer.SplitBatch(raw)
	if err != nil {
		s.count(ImportStatusInvalid)
		return nil, err
	}
	span.SetAttributes(attribute.Int("documents", len(docs)))

	results := make([]ImportResult, 0, len(docs))
	for i, doc := range docs {
		if ctx.Err() != nil {
			results = append(results, ImportResult{Index: i, Status: ImportStatusCancelled, Err: ctx.Err()})
			s.count(ImportStatusCancelled)
			continue
		}

		result := ImportResult{Index: i}
		plan, err := s.Import(context.WithoutCancel(ctx), ownerID, doc)
		switch {
		case err == nil:
			result.Status = ImportStatusImported
			result.PlanID = plan.ID
			result.Name = plan.Name
		default:
			result.Status = statusOf(err)
			result.Err = err
			result.Problems = problemsOf(err)
		}
		results = append(results, result)

		logrus.WithFields(logrus.Fields{
			"owner_id": ownerID,
			"index":    i,
			"status":   result.Status,
			"plan_id":  result.PlanID,
		}).Debug("batch document processed")
	}

	if ctx.Err() != nil {
		return results, ctx.Err()
	}
	return results, nil
}

func (s *importService) Export(ctx context.Context, planID string) (domain.ProgramDocument, error) {
	structure, err := s.programs.GetFullStructure(ctx, planID)
	if err != nil {
		return domain.ProgramDocument{}, err
	}
	return importer.Export(structure), nil
}

// ArchiveExport stores the exported document in object storage and returns a
// temporary download link for it.
func (s *importService) ArchiveExport(ctx context.Context, planID string) (_ *ArchivedExport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "importService.ArchiveExport")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if s.fileStorage == nil {
		return nil, ErrNoArchiveTarget
	}
	structure, err := s.programs.GetFullStructure(ctx, planID)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(importer.Export(structure), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	objectKey := path.Join("exports", structure.Plan.OwnerID, planID, fmt.Sprintf("%s.json", uuid.NewString()))
	if err := s.fileStorage.PutObject(ctx, objectKey, "application/json", body); err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}
	expiresAt := s.now().Add(storage.DefaultPresignedURLExpiry)
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		// Nobody can reach the object without a link.
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			logrus.WithError(delErr).WithField("object_key", objectKey).Warn("failed to remove orphaned export")
		}
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}

	logrus.WithFields(logrus.Fields{"plan_id": planID, "object_key": objectKey}).Info("export archived")
	return &ArchivedExport{ObjectKey: objectKey, DownloadURL: url, ExpiresAt: expiresAt}, nil
}

func (s *importService) count(status ImportStatus) {
	if s.metrics != nil {
		s.metrics.CounterImports.WithLabelValues(string(status)).Inc()
	}
}

func statusOf(err error) ImportStatus {
	if domain.IsValidation(err) {
		return ImportStatusInvalid
	}
	return ImportStatusFailed
}

func problemsOf(err error) []string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Problems
	}
	return []string{err.Error()}
}

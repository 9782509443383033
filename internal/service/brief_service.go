package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brieflab/brief-analyzer/internal/analyzer"
	"github.com/brieflab/brief-analyzer/internal/basecamp"
	"github.com/brieflab/brief-analyzer/internal/extract"
	"github.com/brieflab/brief-analyzer/internal/model"
	"github.com/brieflab/brief-analyzer/internal/storage"
	"github.com/brieflab/brief-analyzer/internal/worker"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNoContent is returned when a stage 2 submission carries neither a
// document nor text.
var ErrNoContent = errors.New("no content provided")

// RetryQueue accepts failed delivery actions for background re-attempts.
type RetryQueue interface {
	Submit(briefID string, kinds []string) error
}

// BriefService orchestrates the two-stage brief workflow.
type BriefService struct {
	storage  storage.BriefStorage
	analyzer analyzer.Analyzer
	basecamp *basecamp.Client
	retries  RetryQueue
}

// NewBriefService constructs a BriefService.
func NewBriefService(st storage.BriefStorage, an analyzer.Analyzer, bc *basecamp.Client) *BriefService {
	return &BriefService{
		storage:  st,
		analyzer: an,
		basecamp: bc,
	}
}

// SetRetryQueue wires the background delivery pool. The pool needs the
// service as its delivery target, so this is set after construction.
func (s *BriefService) SetRetryQueue(q RetryQueue) {
	s.retries = q
}

// AnalyzeUpload runs stage 1: extract, analyze, persist and deliver the
// content writer report.
func (s *BriefService) AnalyzeUpload(ctx context.Context, in model.UploadInput) (*model.UploadResult, error) {
	start := time.Now()

	if in.AnalysisType == "" {
		in.AnalysisType = model.AnalysisComprehensive
	}

	hash := contentHash(in.Data)
	if _, err := s.storage.GetBriefByHash(ctx, hash); err == nil {
		return nil, storage.ErrBriefExists
	}

	text, err := extract.Text(in.FileName, in.Data)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.AnalyzeBrief(ctx, text, analyzer.Options{
		AnalysisType:       in.AnalysisType,
		IncludeSuggestions: in.IncludeSuggestions,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	brief := &model.Brief{
		ID:                  uuid.NewString(),
		FileName:            in.FileName,
		ContentHash:         hash,
		ProjectID:           in.ProjectID,
		ProjectName:         in.ProjectName,
		ContentWriterID:     in.ContentWriterID,
		AnalysisType:        in.AnalysisType,
		Stage:               model.StageContentWriterReport,
		Structured:          result.Brief,
		ContentWriterReport: result.ContentWriterReport,
		TokensUsed:          result.TokensUsed,
	}

	if brief.Structured.ProjectName == "" {
		brief.Structured.ProjectName = in.ProjectName
	}

	if err := s.storage.SaveBrief(ctx, brief); err != nil {
		return nil, err
	}

	failed := s.deliver(ctx, brief, []string{worker.KindContentWriterUpload, worker.KindContentWriterNotify})

	if err := s.storage.UpdateBrief(ctx, brief); err != nil {
		log.Error().Err(err).Str("briefID", brief.ID).Msg("Failed to persist delivery state")
	}

	// Retries go out only after the delivery state is persisted, so the
	// worker's re-read never overwrites it with a stale brief.
	s.queueRetries(brief.ID, failed)

	return &model.UploadResult{
		Brief:          brief,
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}

// SubmitContent runs stage 2: generate and deliver the designer report for
// the submitted copy.
func (s *BriefService) SubmitContent(ctx context.Context, in model.SubmitInput) (*model.SubmitResult, error) {
	start := time.Now()

	brief, err := s.storage.GetBrief(ctx, in.ProjectBriefID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.ContentText)
	if len(in.ContentFile) > 0 {
		fileText, err := extract.Text(in.FileName, in.ContentFile)
		if err != nil {
			return nil, err
		}
		content = fileText
	}
	if content == "" {
		return nil, ErrNoContent
	}

	report, tokens, err := s.analyzer.DesignerReport(ctx, brief, content)
	if err != nil {
		return nil, fmt.Errorf("designer report failed: %w", err)
	}

	brief.DesignerID = in.DesignerID
	brief.SubmittedContent = content
	brief.DesignerReport = report
	brief.Stage = model.StageDesignerReport
	brief.TokensUsed += tokens

	failed := s.deliver(ctx, brief, []string{worker.KindDesignerUpload, worker.KindDesignerNotify})

	if err := s.storage.UpdateBrief(ctx, brief); err != nil {
		return nil, err
	}

	s.queueRetries(brief.ID, failed)

	return &model.SubmitResult{
		Brief:          brief,
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}

// GetBrief returns a stored brief by ID.
func (s *BriefService) GetBrief(ctx context.Context, id string) (*model.Brief, error) {
	return s.storage.GetBrief(ctx, id)
}

// ListProjects returns the project directory.
func (s *BriefService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.storage.ListProjects(ctx)
}

// ListUsers returns the team directory.
func (s *BriefService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.storage.ListUsers(ctx)
}

// Stats returns totals for the overview metrics.
func (s *BriefService) Stats(ctx context.Context) (int, int, error) {
	return s.storage.Stats(ctx)
}

// RedeliverReports re-attempts the listed delivery actions for a brief.
// Called from the delivery worker pool.
func (s *BriefService) RedeliverReports(briefID string, kinds []string) error {
	ctx := context.Background()

	brief, err := s.storage.GetBrief(ctx, briefID)
	if err != nil {
		return err
	}

	s.attemptDeliveries(ctx, brief, kinds)

	return s.storage.UpdateBrief(ctx, brief)
}

// deliver attempts the given delivery actions, records the outcome on the
// brief and returns the failed retryable kinds. Callers queue the retries
// themselves, after persisting the brief.
func (s *BriefService) deliver(ctx context.Context, brief *model.Brief, kinds []string) []string {
	if !s.basecamp.Enabled() {
		brief.Delivery.Errors = append(brief.Delivery.Errors, "basecamp integration not configured")
		return nil
	}

	return s.attemptDeliveries(ctx, brief, kinds)
}

func (s *BriefService) attemptDeliveries(ctx context.Context, brief *model.Brief, kinds []string) []string {
	var failed []string

	for _, kind := range kinds {
		dropDeliveryError(brief, kind)

		err := s.deliverKind(ctx, brief, kind)
		if err == nil {
			markDelivered(brief, kind)
			continue
		}

		log.Warn().Err(err).Str("briefID", brief.ID).Str("kind", kind).Msg("Report delivery failed")
		brief.Delivery.Errors = append(brief.Delivery.Errors, kind+": "+err.Error())

		if retryable(brief, kind) {
			failed = append(failed, kind)
		}
	}

	return failed
}

func (s *BriefService) queueRetries(briefID string, kinds []string) {
	if len(kinds) == 0 || s.retries == nil {
		return
	}
	if err := s.retries.Submit(briefID, kinds); err != nil {
		log.Error().Err(err).Str("briefID", briefID).Msg("Failed to queue delivery retry")
	}
}

func (s *BriefService) deliverKind(ctx context.Context, brief *model.Brief, kind string) error {
	switch kind {
	case worker.KindContentWriterUpload:
		if brief.ProjectID == "" {
			return errors.New("no project selected")
		}
		title := "Content Writer Report: " + brief.Structured.ProjectName
		return s.basecamp.UploadDocument(ctx, brief.ProjectID, title, brief.ContentWriterReport)

	case worker.KindContentWriterNotify:
		message := fmt.Sprintf("Your content writer report for %q is ready.", brief.Structured.ProjectName)
		return s.basecamp.NotifyUser(ctx, brief.ContentWriterID, message)

	case worker.KindDesignerUpload:
		if brief.ProjectID == "" {
			return errors.New("no project selected")
		}
		title := "Designer Report: " + brief.Structured.ProjectName
		return s.basecamp.UploadDocument(ctx, brief.ProjectID, title, brief.DesignerReport)

	case worker.KindDesignerNotify:
		message := fmt.Sprintf("The designer report for %q is ready.", brief.Structured.ProjectName)
		return s.basecamp.NotifyUser(ctx, brief.DesignerID, message)

	default:
		return fmt.Errorf("unknown delivery kind %q", kind)
	}
}

// retryable reports whether a failed action can succeed later. Missing
// project or recipient IDs are permanent.
func retryable(brief *model.Brief, kind string) bool {
	switch kind {
	case worker.KindContentWriterUpload, worker.KindDesignerUpload:
		return brief.ProjectID != ""
	case worker.KindContentWriterNotify:
		return brief.ContentWriterID != ""
	case worker.KindDesignerNotify:
		return brief.DesignerID != ""
	}
	return false
}

func markDelivered(brief *model.Brief, kind string) {
	switch kind {
	case worker.KindContentWriterUpload:
		brief.Delivery.ContentWriterUploaded = true
	case worker.KindContentWriterNotify:
		brief.Delivery.ContentWriterNotified = true
	case worker.KindDesignerUpload:
		brief.Delivery.DesignerUploaded = true
	case worker.KindDesignerNotify:
		brief.Delivery.DesignerNotified = true
	}
}

// dropDeliveryError removes stale error entries for a kind before a fresh attempt.
func dropDeliveryError(brief *model.Brief, kind string) {
	remaining := brief.Delivery.Errors[:0]
	for _, msg := range brief.Delivery.Errors {
		if !strings.HasPrefix(msg, kind+":") {
			remaining = append(remaining, msg)
		}
	}
	brief.Delivery.Errors = remaining
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

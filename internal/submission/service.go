package submission

import (
	"context"
	"log/slog"

	"github.com/izzatfaris/permohonan-intake/internal"
)

// Repository interface defines the data access methods for submissions
type Repository interface {
	Create(ctx context.Context, sub *Submission) error
	GetAll(ctx context.Context) ([]*Submission, error)
	GetByID(ctx context.Context, id string) (*Submission, error)
	GetByEmail(ctx context.Context, email string) ([]*Submission, error)
	UpdateStatus(ctx context.Context, id, status string) (*Submission, error)
}

// Service handles submission business logic
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new submission service
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateSubmission validates the payload, applies defaults and persists the
// record. Validation failures short-circuit before any store call.
func (s *Service) CreateSubmission(ctx context.Context, dto CreateSubmissionDTO) (*Submission, error) {
	if missing := dto.MissingFields(); len(missing) > 0 {
		s.logger.Warn("submission validation failed", "missing_fields", missing)
		return nil, internal.ErrMissingRequiredFields
	}

	sub := dto.ToSubmission()
	if err := s.repo.Create(ctx, sub); err != nil {
		s.logger.Error("failed to create submission", "error", err, "email", sub.Email)
		return nil, internal.NewInternalError("Failed to create submission", err)
	}

	s.logger.Info("submission created successfully",
		"submission_id", sub.ID,
		"bahagian", sub.Bahagian,
		"status", sub.Status)

	return sub, nil
}

// GetAllSubmissions returns every stored submission, newest first.
func (s *Service) GetAllSubmissions(ctx context.Context) ([]*Submission, error) {
	subs, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to fetch submissions", "error", err)
		return nil, internal.NewInternalError("Failed to fetch submissions", err)
	}
	return subs, nil
}

// GetSubmissionByID returns a single submission or a not-found error.
func (s *Service) GetSubmissionByID(ctx context.Context, id string) (*Submission, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.ErrSubmissionNotFound
		}
		s.logger.Error("failed to fetch submission", "error", err, "submission_id", id)
		return nil, internal.NewInternalError("Failed to fetch submission", err)
	}
	return sub, nil
}

// GetSubmissionsByEmail returns all submissions indexed under email,
// case-insensitively, newest first. An unknown email yields an empty set.
func (s *Service) GetSubmissionsByEmail(ctx context.Context, email string) ([]*Submission, error) {
	subs, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to fetch submissions by email", "error", err, "email", email)
		return nil, internal.NewInternalError("Failed to fetch submissions", err)
	}
	return subs, nil
}

// UpdateStatus replaces the status of a submission and refreshes updatedAt.
// Any non-empty status string is accepted; the canonical four values are a
// portal convention, not a storage constraint.
func (s *Service) UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) (*Submission, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("status update validation failed", "error", err, "submission_id", id)
		return nil, internal.ErrMissingStatus
	}

	sub, err := s.repo.UpdateStatus(ctx, id, dto.Status)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.ErrSubmissionNotFound
		}
		s.logger.Error("failed to update submission status", "error", err, "submission_id", id)
		return nil, internal.NewInternalError("Failed to update submission", err)
	}

	s.logger.Info("submission status updated",
		"submission_id", id,
		"status", dto.Status)

	return sub, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nexiot/site-backend/internal/core/domain"
	"github.com/nexiot/site-backend/internal/core/ports"
	"github.com/nexiot/site-backend/internal/core/validation"
	"github.com/nexiot/site-backend/internal/pkg/metrics"
)

// ContactService validates, persists and then best-effort announces contact
// form submissions. The stored row is the source of truth; the email is advisory.
type ContactService struct {
	repo      ports.ContactRepository
	notifier  ports.Notifier
	validator *validation.Validator
	log       zerolog.Logger
}

func NewContactService(repo ports.ContactRepository, notifier ports.Notifier, log zerolog.Logger) *ContactService {
	return &ContactService{
		repo:      repo,
		notifier:  notifier,
		validator: validation.New(),
		log:       log,
	}
}

var _ ports.ContactService = (*ContactService)(nil)

// Submit runs validate -> insert -> notify strictly in that order. Nothing is
// retried.
func (s *ContactService) Submit(ctx context.Context, in ports.ContactInput) (ports.SubmitResult, error) {
	in = normalize(in)

	// 1. Validation.
	if err := s.validator.Validate(in); err != nil {
		s.log.Info().Err(err).Msg("contact submission rejected")
		metrics.ContactSubmissionsTotal.WithLabelValues("invalid").Inc()
		return ports.SubmitResult{}, err
	}

	// 2. Unprovisioned mail is an operator error reported as 500, so refuse
	// before writing rather than store rows nobody is told about.
	if s.notifier == nil || !s.notifier.Configured() {
		s.log.Error().Msg("contact submission refused: mail transport not configured")
		metrics.ContactSubmissionsTotal.WithLabelValues("misconfigured").Inc()
		return ports.SubmitResult{}, domain.ErrServerMisconfigured
	}

	// 3. Durable write.
	sub := &domain.ContactSubmission{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
	}
	if in.Phone != "" {
		phone := in.Phone
		sub.Phone = &phone
	}
	if err := s.repo.Insert(ctx, sub); err != nil {
		s.log.Error().Err(err).Str("email_domain", emailDomain(in.Email)).Msg("failed to persist contact submission")
		metrics.ContactSubmissionsTotal.WithLabelValues("persist_failed").Inc()
		return ports.SubmitResult{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	result := ports.SubmitResult{ID: sub.ID, Persisted: true}
	metrics.ContactSubmissionsTotal.WithLabelValues("accepted").Inc()
	s.log.Info().Int64("submission_id", sub.ID).Msg("contact submission stored")

	// 4. Advisory notification; failures never fail the call.
	if err := s.notify(ctx, *sub); err != nil {
		s.log.Warn().Err(err).Int64("submission_id", sub.ID).Msg("contact notification not delivered")
		metrics.ContactNotificationsTotal.WithLabelValues("degraded").Inc()
		return result, nil
	}

	result.Notified = true
	metrics.ContactNotificationsTotal.WithLabelValues("sent").Inc()
	s.log.Info().Int64("submission_id", sub.ID).Msg("contact notification sent")
	return result, nil
}

func (s *ContactService) notify(ctx context.Context, sub domain.ContactSubmission) error {
	if err := s.notifier.Verify(ctx); err != nil {
		return errors.Join(domain.ErrNotificationDegraded, fmt.Errorf("verify transport: %w", err))
	}
	if err := s.notifier.NotifyContact(ctx, sub); err != nil {
		return errors.Join(domain.ErrNotificationDegraded, fmt.Errorf("send: %w", err))
	}
	return nil
}

// List returns stored submissions, newest first.
func (s *ContactService) List(ctx context.Context, opts domain.ContactListOptions) ([]domain.ContactSubmission, error) {
	items, err := s.repo.List(ctx, opts.Normalize())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list contact submissions")
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if items == nil {
		items = []domain.ContactSubmission{}
	}
	return items, nil
}

func normalize(in ports.ContactInput) ports.ContactInput {
	return ports.ContactInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
}

// emailDomain keeps submitter addresses out of the logs.
func emailDomain(email string) string {
	if at := strings.LastIndexByte(email, '@'); at >= 0 {
		return email[at+1:]
	}
	return ""
}

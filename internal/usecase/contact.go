package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/metrics"
	"portfolio-backend/pkg/validation"
)

// ContactConfirmation is shown to the visitor once their message is stored
const ContactConfirmation = "Thank you for your message. I will get back to you soon!"

// ContactOptions tunes the contact pipeline
type ContactOptions struct {
	// RejectOnNotifyFailure reports stored-but-not-notified submissions as failures
	RejectOnNotifyFailure bool
	// ProcessTimeout bounds persist+notify, which ignore caller cancellation
	ProcessTimeout time.Duration
	Audit          *audit.Logger
}

type contactUsecase struct {
	repo      domain.ContactRepository
	notifier  domain.ContactNotifier
	validator *validation.Validator
	audit     *audit.Logger
	opts      ContactOptions
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(repo domain.ContactRepository, notifier domain.ContactNotifier, validator *validation.Validator, opts ContactOptions) domain.ContactUsecase {
	if opts.ProcessTimeout <= 0 {
		opts.ProcessTimeout = 30 * time.Second
	}
	auditLog := opts.Audit
	if auditLog == nil {
		auditLog = audit.NewNop()
	}
	return &contactUsecase{
		repo:      repo,
		notifier:  notifier,
		validator: validator,
		audit:     auditLog,
		opts:      opts,
	}
}

// submission follows one request through the pipeline states
type submission struct {
	state domain.SubmissionState
	meta  domain.RequestMeta
}

func (s *submission) to(next domain.SubmissionState) {
	if !s.state.CanTransition(next) {
		logger.Log.Error("invalid contact state transition", "request_id", s.meta.RequestID, "from", s.state, "to", next)
	}
	s.state = next
	logger.Log.Debug("contact submission state", "request_id", s.meta.RequestID, "state", next)
}

// Submit validates the raw payload, stores it and notifies the site owner.
// Storage always happens before the email is attempted.
func (uc *contactUsecase) Submit(ctx context.Context, raw map[string]any, meta domain.RequestMeta) (*domain.SubmitResult, error) {
	sub := &submission{state: domain.StateReceived, meta: meta}
	uc.audit.LogReceived(meta)

	sub.to(domain.StateValidating)
	input, err := uc.validator.Validate(raw)
	if err != nil {
		sub.to(domain.StateRejected)
		var fields []string
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			fields = ve.FieldNames()
		}
		uc.audit.LogRejected(meta, fields)
		metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeRejected).Inc()
		logger.Log.Info("Contact submission rejected", "request_id", meta.RequestID, "fields", fields)
		return nil, err
	}

	// Refuse before storing anything: a record that can never be relayed is worse than a clear error
	if !uc.notifier.IsConfigured() {
		sub.to(domain.StateUnconfigured)
		uc.audit.LogConfigMissing(meta)
		metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeUnconfigured).Inc()
		logger.Log.Error("Contact submission refused: mail transport not configured", "request_id", meta.RequestID)
		return nil, domain.ErrMailNotConfigured
	}

	// The visitor may disconnect; a half-applied submission is worse than finishing it
	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.ProcessTimeout)
	defer cancel()

	sub.to(domain.StatePersisting)
	msg := domain.NewContactMessage(input)
	start := time.Now()
	err = uc.repo.Create(workCtx, msg)
	metrics.ContactStepDuration.WithLabelValues("persist").Observe(time.Since(start).Seconds())
	if err != nil {
		sub.to(domain.StatePersistFailed)
		uc.audit.LogStoreFailed(meta, input.Email, err)
		metrics.ContactSubmissions.WithLabelValues(metrics.OutcomePersistFailed).Inc()
		logger.Log.Error("Failed to store contact message", "request_id", meta.RequestID, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	sub.to(domain.StatePersisted)
	uc.audit.LogStored(meta, msg)

	sub.to(domain.StateNotifying)
	start = time.Now()
	err = uc.notifier.NotifyContact(workCtx, msg)
	metrics.ContactStepDuration.WithLabelValues("notify").Observe(time.Since(start).Seconds())
	if err != nil {
		sub.to(domain.StateNotifyFailed)
		uc.audit.LogNotifyFailed(meta, msg, err)
		metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeNotifyFailed).Inc()
		logger.Log.Error("Contact message stored but notification failed",
			"request_id", meta.RequestID, "record_id", msg.ID, "error", err)

		if uc.opts.RejectOnNotifyFailure {
			if errors.Is(err, domain.ErrMailTransport) || errors.Is(err, domain.ErrMailNotConfigured) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrMailTransport, err)
		}
		return uc.result(msg, sub.state, false), nil
	}

	sub.to(domain.StateNotified)
	uc.audit.LogNotified(meta, msg)
	metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeNotified).Inc()
	logger.Log.Info("Contact message stored and relayed", "request_id", meta.RequestID, "record_id", msg.ID)

	return uc.result(msg, sub.state, true), nil
}

func (uc *contactUsecase) result(msg *domain.ContactMessage, state domain.SubmissionState, notified bool) *domain.SubmitResult {
	return &domain.SubmitResult{
		ID:        msg.ID,
		CreatedAt: msg.CreatedAt,
		Notified:  notified,
		State:     state,
		Message:   ContactConfirmation,
	}
}

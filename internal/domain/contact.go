package domain

import (
	"context"
	"time"
)

// ContactSubmission is a validated contact form payload
type ContactSubmission struct {
	Name    string `json:"name" example:"Jo"`
	Email   string `json:"email" example:"a@b.com"`
	Subject string `json:"subject" example:"Hi there"`
	Message string `json:"message" example:"This is a test message."`
}

// ContactMessage is the persisted record of one accepted submission.
// Records are written once and never updated by this service.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewContactMessage copies a validated submission into an unsaved record
func NewContactMessage(s ContactSubmission) *ContactMessage {
	return &ContactMessage{
		Name:    s.Name,
		Email:   s.Email,
		Subject: s.Subject,
		Message: s.Message,
	}
}

// NotificationEmail is the operator notification derived from a submission.
// It only lives for the duration of one send.
type NotificationEmail struct {
	FromName  string
	FromEmail string
	To        string
	ReplyTo   string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// RequestMeta carries caller details used for logging and auditing only
type RequestMeta struct {
	RequestID string
	IP        string
	UserAgent string
}

// SubmitResult is returned for every submission that ended in a caller-visible success
type SubmitResult struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Notified  bool            `json:"notified"`
	State     SubmissionState `json:"-"`
	Message   string          `json:"-"`
}

// ContactRepository persists contact messages
type ContactRepository interface {
	// Create inserts the record, assigning ID and CreatedAt
	Create(ctx context.Context, msg *ContactMessage) error
	// List returns stored messages, newest first
	List(ctx context.Context, limit, offset int) ([]ContactMessage, error)
	Ping(ctx context.Context) error
}

// ContactNotifier sends the operator notification for a stored message
type ContactNotifier interface {
	IsConfigured() bool
	NotifyContact(ctx context.Context, msg *ContactMessage) error
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit validates, stores and relays one raw contact form payload
	Submit(ctx context.Context, raw map[string]any, meta RequestMeta) (*SubmitResult, error)
}

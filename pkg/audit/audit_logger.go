package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"portfolio-backend/internal/domain"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of contact pipeline event
type EventType string

const (
	EventContactReceived      EventType = "contact_received"
	EventContactRejected      EventType = "contact_rejected"
	EventContactConfigMissing EventType = "contact_config_missing"
	EventContactStored        EventType = "contact_stored"
	EventContactStoreFailed   EventType = "contact_store_failed"
	EventContactNotified      EventType = "contact_notified"
	EventContactNotifyFailed  EventType = "contact_notify_failed"
)

// Event represents one audited step of a contact submission
type Event struct {
	Service     string                 `json:"service"`
	Environment string                 `json:"env"`
	Event       EventType              `json:"event"`
	RecordID    string                 `json:"record_id,omitempty"`
	Sender      string                 `json:"sender,omitempty"` // Masked, never the raw address
	IP          string                 `json:"ip,omitempty"`
	UserAgent   string                 `json:"user_agent,omitempty"`
	RequestID   string                 `json:"request_id,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Logger writes contact audit events through zap
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// New builds an audit logger on zap's production config
func New(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// Containers collect stdout
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return NewWithZap(logger, serviceName, environment)
}

// NewWithZap wraps an existing zap logger
func NewWithZap(z *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{
		zapLogger:   z,
		serviceName: serviceName,
		environment: environment,
	}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return NewWithZap(zap.NewNop(), "", "")
}

// Log writes an audit event at the level implied by its type
// zap stamps time and level itself.
func (l *Logger) Log(event Event) {
	event.Service = l.serviceName
	event.Environment = l.environment

	level := zapcore.InfoLevel
	switch event.Event {
	case EventContactRejected:
		level = zapcore.WarnLevel
	case EventContactConfigMissing, EventContactStoreFailed, EventContactNotifyFailed:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.RecordID != "" {
		fields = append(fields, zap.String("record_id", event.RecordID))
	}
	if event.Sender != "" {
		fields = append(fields, zap.String("sender", event.Sender))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)
}

func (l *Logger) event(t EventType, meta domain.RequestMeta) Event {
	return Event{
		Event:     t,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		RequestID: meta.RequestID,
	}
}

func (l *Logger) LogReceived(meta domain.RequestMeta) {
	l.Log(l.event(EventContactReceived, meta))
}

// LogRejected records which fields failed; field values are never logged
func (l *Logger) LogRejected(meta domain.RequestMeta, fields []string) {
	e := l.event(EventContactRejected, meta)
	e.Details = map[string]interface{}{"fields": fields}
	l.Log(e)
}

func (l *Logger) LogConfigMissing(meta domain.RequestMeta) {
	l.Log(l.event(EventContactConfigMissing, meta))
}

func (l *Logger) LogStored(meta domain.RequestMeta, msg *domain.ContactMessage) {
	e := l.event(EventContactStored, meta)
	e.RecordID = msg.ID
	e.Sender = MaskEmail(msg.Email)
	l.Log(e)
}

func (l *Logger) LogStoreFailed(meta domain.RequestMeta, email string, err error) {
	e := l.event(EventContactStoreFailed, meta)
	e.Sender = MaskEmail(email)
	e.Details = map[string]interface{}{"error": err.Error()}
	l.Log(e)
}

func (l *Logger) LogNotified(meta domain.RequestMeta, msg *domain.ContactMessage) {
	e := l.event(EventContactNotified, meta)
	e.RecordID = msg.ID
	e.Sender = MaskEmail(msg.Email)
	l.Log(e)
}

func (l *Logger) LogNotifyFailed(meta domain.RequestMeta, msg *domain.ContactMessage, err error) {
	e := l.event(EventContactNotifyFailed, meta)
	e.RecordID = msg.ID
	e.Sender = MaskEmail(msg.Email)
	e.Details = map[string]interface{}{"error": err.Error()}
	l.Log(e)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	atIndex := strings.IndexByte(email, '@')
	if atIndex < 0 {
		return HashValue(email)
	}
	if atIndex <= 1 {
		return "***" + email[atIndex:]
	}
	return email[:1] + "***" + email[atIndex:]
}

// HashValue creates a short SHA256 fingerprint of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

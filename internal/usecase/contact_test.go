package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/sqlite"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/database"
	"portfolio-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

// Mock Repositories
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockContactRepo) List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContactMessage), args.Error(1)
}

func (m *MockContactRepo) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockNotifier) NotifyContact(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func validInput() map[string]any {
	return map[string]any{
		"name":    "Jo",
		"email":   "a@b.com",
		"subject": "Hi there",
		"message": "This is a test message.",
	}
}

func invalidInput() map[string]any {
	return map[string]any{
		"name":    "J",
		"email":   "not-an-email",
		"subject": "Hi",
		"message": "short",
	}
}

var meta = domain.RequestMeta{RequestID: "req-1", IP: "127.0.0.1", UserAgent: "test"}

func assignID(args mock.Arguments) {
	msg := args.Get(1).(*domain.ContactMessage)
	msg.ID = "rec-1"
	msg.CreatedAt = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
}

func newUsecase(repo domain.ContactRepository, notifier domain.ContactNotifier, reject bool) domain.ContactUsecase {
	return usecase.NewContactUsecase(repo, notifier, validation.NewValidator(), usecase.ContactOptions{
		RejectOnNotifyFailure: reject,
		ProcessTimeout:        5 * time.Second,
	})
}

func TestSubmit_Success(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	uc := newUsecase(repo, notifier, false)

	notifier.On("IsConfigured").Return(true)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.ContactMessage) bool {
		return m.Name == "Jo" && m.Email == "a@b.com" && m.Subject == "Hi there" && m.Message == "This is a test message."
	})).Return(nil).Run(assignID).Once()
	notifier.On("NotifyContact", mock.Anything, mock.MatchedBy(func(m *domain.ContactMessage) bool {
		return m.ID == "rec-1" && m.Subject == "Hi there"
	})).Return(nil).Once()

	res, err := uc.Submit(context.Background(), validInput(), meta)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", res.ID)
	assert.True(t, res.Notified)
	assert.Equal(t, domain.StateNotified, res.State)
	assert.Equal(t, usecase.ContactConfirmation, res.Message)

	repo.AssertNumberOfCalls(t, "Create", 1)
	notifier.AssertNumberOfCalls(t, "NotifyContact", 1)
}

func TestSubmit_ValidationFailureTouchesNothing(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	uc := newUsecase(repo, notifier, false)

	res, err := uc.Submit(context.Background(), invalidInput(), meta)
	assert.Nil(t, res)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"email", "message", "name", "subject"}, ve.FieldNames())

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "IsConfigured")
	notifier.AssertNotCalled(t, "NotifyContact", mock.Anything, mock.Anything)
}

func TestSubmit_EachSingleViolationIsRejected(t *testing.T) {
	bad := map[string]any{"name": "J", "email": "not-an-email", "subject": "Hey", "message": "too short"}
	for field, value := range bad {
		t.Run(field, func(t *testing.T) {
			repo := new(MockContactRepo)
			notifier := new(MockNotifier)
			uc := newUsecase(repo, notifier, false)

			input := validInput()
			input[field] = value
			_, err := uc.Submit(context.Background(), input, meta)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, []string{field}, ve.FieldNames())
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmit_MailNotConfiguredStoresNothing(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	uc := newUsecase(repo, notifier, false)

	notifier.On("IsConfigured").Return(false)

	res, err := uc.Submit(context.Background(), validInput(), meta)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrMailNotConfigured)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "NotifyContact", mock.Anything, mock.Anything)
}

func TestSubmit_StorageFailureSkipsEmail(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	uc := newUsecase(repo, notifier, false)

	notifier.On("IsConfigured").Return(true)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	res, err := uc.Submit(context.Background(), validInput(), meta)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), "connection refused")
	notifier.AssertNotCalled(t, "NotifyContact", mock.Anything, mock.Anything)
}

func TestSubmit_NotifyFailure_AcceptPolicy(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	uc := newUsecase(repo, notifier, false)

	notifier.On("IsConfigured").Return(true)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Run(assignID)
	notifier.On("NotifyContact", mock.Anything, mock.Anything).
		Return(errors.Join(domain.ErrMailTransport, errors.New("535 auth failed")))

	res, err := uc.Submit(context.Background(), validInput(), meta)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", res.ID)
	assert.False(t, res.Notified)
	assert.Equal(t, domain.StateNotifyFailed, res.State)
	assert.True(t, res.State.Stored())
}

func TestSubmit_NotifyFailure_RejectPolicy(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	uc := newUsecase(repo, notifier, true)

	notifier.On("IsConfigured").Return(true)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Run(assignID)
	notifier.On("NotifyContact", mock.Anything, mock.Anything).Return(errors.New("relay timeout"))

	res, err := uc.Submit(context.Background(), validInput(), meta)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrMailTransport)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestSubmit_CallerCancellationDoesNotAbortWork(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	uc := newUsecase(repo, notifier, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notifier.On("IsConfigured").Return(true)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		assert.NoError(t, args.Get(0).(context.Context).Err(), "persist must not see caller cancellation")
		assignID(args)
	})
	notifier.On("NotifyContact", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		workCtx := args.Get(0).(context.Context)
		assert.NoError(t, workCtx.Err())
		_, hasDeadline := workCtx.Deadline()
		assert.True(t, hasDeadline, "work is still bounded by the process timeout")
	})

	res, err := uc.Submit(ctx, validInput(), meta)
	require.NoError(t, err)
	assert.True(t, res.Notified)
}

func TestSubmit_PersistsBeforeNotify(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	uc := newUsecase(repo, notifier, false)

	var order []string
	notifier.On("IsConfigured").Return(true)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		order = append(order, "persist")
		assignID(args)
	})
	notifier.On("NotifyContact", mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) {
		order = append(order, "notify")
	})

	_, err := uc.Submit(context.Background(), validInput(), meta)
	require.NoError(t, err)
	assert.Equal(t, []string{"persist", "notify"}, order)
}

func TestSubmit_RecordSurvivesNotifyFailure(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLiteConnection(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.MigrateSQLite(ctx, db))
	repo := sqlite.NewContactRepository(db)

	for _, reject := range []bool{false, true} {
		notifier := new(MockNotifier)
		notifier.On("IsConfigured").Return(true)
		notifier.On("NotifyContact", mock.Anything, mock.Anything).Return(domain.ErrMailTransport)

		_, _ = newUsecase(repo, notifier, reject).Submit(ctx, validInput(), meta)
	}

	stored, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, stored, 2, "each submission is durably recorded whatever the notify outcome")
	for _, m := range stored {
		assert.Equal(t, "Hi there", m.Subject)
	}
}

func TestHealthCheck(t *testing.T) {
	repo := new(MockContactRepo)
	notifier := new(MockNotifier)
	notifier.On("IsConfigured").Return(false)
	repo.On("Ping", mock.Anything).Return(nil).Once()

	status, err := usecase.NewHealthUsecase(repo, notifier).Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status["database"])
	assert.Equal(t, "not_configured", status["mail"])

	repo.On("Ping", mock.Anything).Return(errors.New("dial tcp: refused")).Once()
	status, err = usecase.NewHealthUsecase(repo, notifier).Check(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, "unreachable", status["database"])
	assert.Equal(t, "degraded", status["status"])
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"portfolio-backend/internal/domain"
)

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, error)
}

type healthUsecase struct {
	repo     domain.ContactRepository
	notifier domain.ContactNotifier
	timeout  time.Duration
}

func NewHealthUsecase(repo domain.ContactRepository, notifier domain.ContactNotifier) HealthUsecase {
	return &healthUsecase{repo: repo, notifier: notifier, timeout: 2 * time.Second}
}

// Check pings the datastore and reports whether mail delivery is configured.
// Only a datastore failure makes the service unhealthy.
func (u *healthUsecase) Check(ctx context.Context) (map[string]string, error) {
	status := map[string]string{
		"status":   "ok",
		"database": "ok",
		"mail":     "configured",
	}
	if !u.notifier.IsConfigured() {
		status["mail"] = "not_configured"
	}

	pingCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	if err := u.repo.Ping(pingCtx); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		return status, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	return status, nil
}

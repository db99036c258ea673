package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contactRepo struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) domain.ContactRepository {
	return &contactRepo{db: db}
}

// Create inserts one contact message. The id is generated here and the
// timestamp comes from the database default.
func (r *contactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	id := uuid.NewString()
	query := `INSERT INTO contact_messages (id, name, email, subject, message)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING created_at`

	var createdAt time.Time
	err = conn.QueryRow(ctx, query, id, msg.Name, msg.Email, msg.Subject, msg.Message).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return fmt.Errorf("insert contact message (sqlstate %s): %w", pgErr.Code, err)
		}
		return fmt.Errorf("insert contact message: %w", err)
	}

	msg.ID = id
	msg.CreatedAt = createdAt
	return nil
}

func (r *contactRepo) List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	query := `SELECT id::text, name, email, subject, message, created_at
              FROM contact_messages
              ORDER BY created_at DESC
              LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *contactRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

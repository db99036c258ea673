package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"portfolio-backend/internal/domain"

	"github.com/google/uuid"
)

type contactRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewContactRepository(db *sql.DB) domain.ContactRepository {
	return &contactRepo{db: db, now: time.Now}
}

func (r *contactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	id := uuid.NewString()
	createdAt := r.now().UTC()
	query := `INSERT INTO contact_messages (id, name, email, subject, message, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := conn.ExecContext(ctx, query, id, msg.Name, msg.Email, msg.Subject, msg.Message, createdAt); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}

	msg.ID = id
	msg.CreatedAt = createdAt
	return nil
}

func (r *contactRepo) List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	query := `SELECT id, name, email, subject, message, created_at
              FROM contact_messages
              ORDER BY created_at DESC
              LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
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
	return r.db.PingContext(ctx)
}

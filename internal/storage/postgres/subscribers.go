package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/internal/storage"
)

// AddSubscriber вставляет подписчика.
// Ошибки: storage.ErrAlreadyExists при конфликте PK, иные — как есть.
func (s *SubscribersStorage) AddSubscriber(ctx context.Context, sub models.Subscriber) error {
	const op = "storage.postgres.subscribers.AddSubscriber"

	q := `INSERT INTO subscribers (user_id, username) VALUES ($1, $2)`

	if _, err := s.db.Exec(ctx, q, sub.UserID, sub.Username); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RemoveSubscriber удаляет подписчика; отсутствие записи -> storage.ErrNotFound.
func (s *SubscribersStorage) RemoveSubscriber(ctx context.Context, userID int64) error {
	const op = "storage.postgres.subscribers.RemoveSubscriber"

	tag, err := s.db.Exec(ctx, `DELETE FROM subscribers WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ListSubscribers возвращает всех подписчиков в порядке подписки.
func (s *SubscribersStorage) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	const op = "storage.postgres.subscribers.ListSubscribers"

	rows, err := s.db.Query(ctx, `
	SELECT user_id, username, subscribed_at
	FROM subscribers
	ORDER BY subscribed_at, user_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Subscriber, error) {
		var sub models.Subscriber
		err := row.Scan(&sub.UserID, &sub.Username, &sub.SubscribedAt)
		sub.SubscribedAt = sub.SubscribedAt.UTC()
		return sub, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return subs, nil
}

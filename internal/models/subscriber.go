package models

import "time"

// Subscriber — получатель ежедневной рассылки.
type Subscriber struct {
	// UserID — идентификатор пользователя в чате.
	UserID int64
	// Username — отображаемое имя (может быть пустым).
	Username string
	// SubscribedAt — момент подписки (UTC).
	SubscribedAt time.Time
}

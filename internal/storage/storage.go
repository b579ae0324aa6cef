// storage определяет контракты доступа к БД подписчиков ежедневной рассылки.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/infomonitor/internal/models"
)

var (
	// ErrNotFound — подписчик отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — подписчик с таким user_id уже есть.
	ErrAlreadyExists = errors.New("already exists")
)

// SubscriberStorage описывает операции над сущностью models.Subscriber.
type SubscriberStorage interface {
	// AddSubscriber сохраняет подписчика; повтор user_id -> ErrAlreadyExists.
	AddSubscriber(ctx context.Context, sub models.Subscriber) error
	// RemoveSubscriber удаляет подписчика; отсутствие записи -> ErrNotFound.
	RemoveSubscriber(ctx context.Context, userID int64) error
	// ListSubscribers возвращает всех подписчиков в порядке подписки.
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// Storage задаёт контракт хранилища с управлением жизненным циклом.
type Storage interface {
	SubscriberStorage
	Close()
}

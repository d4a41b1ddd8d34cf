package domain

// SlotStore — именованные слоты ключ-значение, в которых живёт всё состояние магазина.
type SlotStore interface {
	// Get возвращает значение слота или ErrSlotNotFound.
	Get(key string) ([]byte, error)
	// Set синхронно перезаписывает слот.
	Set(key string, value []byte) error
	// Delete удаляет слот; удаление отсутствующего слота не ошибка.
	Delete(key string) error
	// Ping проверяет доступность хранилища.
	Ping() error
}

// CatalogLookup разрешает товар по идентификатору.
type CatalogLookup interface {
	Lookup(id int) (Product, bool)
}

// EventPublisher публикует события наружу (Kafka и т.п.).
type EventPublisher interface {
	PublishEvent(topic string, key string, event interface{}) error
}

// OrderEventPublisher сообщает о подтверждённых заказах.
type OrderEventPublisher interface {
	PublishOrderConfirmed(order Order) error
}

package domain

// CartRepository читает и сохраняет слот корзины.
type CartRepository interface {
	// Load возвращает сохранённую корзину; без слота корзина пуста.
	Load() (Cart, error)
	Save(cart Cart) error
}

// OrderRepository хранит единственный слот "последнего заказа".
type OrderRepository interface {
	// LoadLast возвращает последний заказ и признак его наличия.
	LoadLast() (Order, bool, error)
	// SaveLast перезаписывает слот последнего заказа.
	SaveLast(order Order) error
	// DeleteLast очищает слот.
	DeleteLast() error
}

// AccountRepository хранит список учётных записей.
type AccountRepository interface {
	List() ([]Account, error)
	SaveAll(accounts []Account) error
}

// SessionRepository хранит слот текущей сессии.
type SessionRepository interface {
	Load() (Session, bool, error)
	Save(session Session) error
	Delete() error
}

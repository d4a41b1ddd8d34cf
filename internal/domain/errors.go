package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingProduct — корзина ссылается на товар, которого нет в каталоге.
	// Нарушение целостности между корзиной и каталогом, пользователь его не исправит.
	ErrMissingProduct = errors.New("cart references a product missing from the catalog")
	// ErrAmountOverflow — сумма корзины не помещается в int64.
	ErrAmountOverflow = errors.New("cart amount overflows")
	// ErrProductNotFound возвращается каталогом при поиске по неизвестному ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrEmptyCart — попытка оформить заказ с пустой корзиной.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrIncompleteShipping — не заполнено имя, адрес или телефон доставки.
	ErrIncompleteShipping = errors.New("shipping name, address and phone are required")
	// ErrInvalidProductID — идентификатор товара должен быть положительным.
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	// ErrSlotNotFound возвращается хранилищем, если слот ещё не записан.
	ErrSlotNotFound = errors.New("slot not found")
	// ErrSlotCorrupt — значение слота не декодируется.
	ErrSlotCorrupt = errors.New("slot value is corrupt")
	// ErrSlotKeyRequired — пустое имя слота.
	ErrSlotKeyRequired = errors.New("slot key is required")
	// ErrRegistrationIncomplete — при регистрации не заполнены все поля.
	ErrRegistrationIncomplete = errors.New("username, password, email, full name and date of birth are required")
	// ErrUsernameTaken — пользователь с таким именем уже зарегистрирован.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials — неверная пара логин/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MissingProductError уточняет ErrMissingProduct идентификатором товара.
type MissingProductError struct {
	ProductID int
}

func (e *MissingProductError) Error() string {
	return fmt.Sprintf("%s: id=%d", ErrMissingProduct.Error(), e.ProductID)
}

// Is позволяет сравнивать ошибку с ErrMissingProduct через errors.Is.
func (e *MissingProductError) Is(target error) bool {
	return target == ErrMissingProduct
}

// AmountOverflowError указывает позицию, на которой расчёт вышел за пределы int64.
type AmountOverflowError struct {
	ProductID int
	Quantity  int
}

func (e *AmountOverflowError) Error() string {
	return fmt.Sprintf("%s: id=%d qty=%d", ErrAmountOverflow.Error(), e.ProductID, e.Quantity)
}

// Is позволяет сравнивать ошибку с ErrAmountOverflow через errors.Is.
func (e *AmountOverflowError) Is(target error) bool {
	return target == ErrAmountOverflow
}

// IsUserRecoverable сообщает, можно ли показать ошибку пользователю и дать повторить действие.
func IsUserRecoverable(err error) bool {
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrIncompleteShipping) ||
		errors.Is(err, ErrRegistrationIncomplete) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrInvalidCredentials)
}

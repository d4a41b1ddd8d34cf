package domain

import "strings"

// Account — учётная запись демо-магазина. Пароль хранится как есть.
type Account struct {
	Username string
	Password string
	Email    string
	FullName string
	DOB      string
}

// Registration — данные формы регистрации.
type Registration struct {
	Username string
	Password string
	Email    string
	FullName string
	DOB      string
}

// Normalize обрезает пробелы; дату рождения оставляет как есть, как и форма.
func (r Registration) Normalize() Registration {
	return Registration{
		Username: strings.TrimSpace(r.Username),
		Password: strings.TrimSpace(r.Password),
		Email:    strings.TrimSpace(r.Email),
		FullName: strings.TrimSpace(r.FullName),
		DOB:      r.DOB,
	}
}

// Validate требует заполнения всех полей.
func (r Registration) Validate() error {
	n := r.Normalize()
	if n.Username == "" || n.Password == "" || n.Email == "" || n.FullName == "" || n.DOB == "" {
		return ErrRegistrationIncomplete
	}
	return nil
}

// Session — текущий вошедший пользователь.
type Session struct {
	Username string
	FullName string
	Email    string
}

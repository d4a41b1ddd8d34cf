// Package account реализует демонстрационные регистрация и вход. Пароли хранятся открытым текстом.
package account

import (
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

// Service управляет учётными записями и текущей сессией.
type Service struct {
	mu       sync.Mutex
	accounts domain.AccountRepository
	sessions domain.SessionRepository
	logger   *log.Entry
}

// NewService создаёт Service.
func NewService(accounts domain.AccountRepository, sessions domain.SessionRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "account")
	}
	return &Service{accounts: accounts, sessions: sessions, logger: logger}
}

// Register добавляет учётную запись. Все поля обязательны, имя пользователя уникально.
func (s *Service) Register(reg domain.Registration) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	reg = reg.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.accounts.List()
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	for _, acc := range accounts {
		if acc.Username == reg.Username {
			return domain.ErrUsernameTaken
		}
	}

	accounts = append(accounts, domain.Account(reg))
	if err := s.accounts.SaveAll(accounts); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}

	s.logger.WithField("username", reg.Username).Info("account registered")
	return nil
}

// Login сверяет логин и пароль и записывает сессию.
func (s *Service) Login(username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.accounts.List()
	if err != nil {
		return domain.Session{}, fmt.Errorf("list accounts: %w", err)
	}

	for _, acc := range accounts {
		if acc.Username != username || acc.Password != password {
			continue
		}

		session := domain.Session{Username: acc.Username, FullName: acc.FullName, Email: acc.Email}
		if err := s.sessions.Save(session); err != nil {
			return domain.Session{}, fmt.Errorf("save session: %w", err)
		}
		s.logger.WithField("username", username).Info("logged in")
		return session, nil
	}

	s.logger.WithField("username", username).Info("login rejected")
	return domain.Session{}, domain.ErrInvalidCredentials
}

// Logout удаляет сессию; без сессии ничего не делает.
func (s *Service) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Current возвращает текущую сессию, если пользователь вошёл.
func (s *Service) Current() (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, found, err := s.sessions.Load()
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("load session: %w", err)
	}
	return session, found, nil
}

package slots

import "github.com/vladislavdragonenkov/partshop/internal/domain"

type accountRecord struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	DOB      string `json:"dob"`
}

type sessionRecord struct {
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

type accountRepository struct {
	store domain.SlotStore
}

// NewAccountRepository возвращает репозиторий слота cps_users.
func NewAccountRepository(store domain.SlotStore) domain.AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) List() ([]domain.Account, error) {
	var records []accountRecord
	if _, err := load(r.store, KeyAccounts, &records); err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(records))
	for _, rec := range records {
		accounts = append(accounts, domain.Account(rec))
	}
	return accounts, nil
}

func (r *accountRepository) SaveAll(accounts []domain.Account) error {
	records := make([]accountRecord, 0, len(accounts))
	for _, acc := range accounts {
		records = append(records, accountRecord(acc))
	}
	return save(r.store, KeyAccounts, records)
}

type sessionRepository struct {
	store domain.SlotStore
}

// NewSessionRepository возвращает репозиторий слота cps_loggedIn.
func NewSessionRepository(store domain.SlotStore) domain.SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) Load() (domain.Session, bool, error) {
	var rec sessionRecord
	found, err := load(r.store, KeySession, &rec)
	if err != nil || !found {
		return domain.Session{}, false, err
	}
	return domain.Session(rec), true, nil
}

func (r *sessionRepository) Save(session domain.Session) error {
	return save(r.store, KeySession, sessionRecord(session))
}

func (r *sessionRepository) Delete() error {
	return remove(r.store, KeySession)
}

var (
	_ domain.AccountRepository = (*accountRepository)(nil)
	_ domain.SessionRepository = (*sessionRepository)(nil)
)

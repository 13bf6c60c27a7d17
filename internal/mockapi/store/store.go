// Package store keeps the contract double's data in memory. Every method
// is safe for concurrent use and returns copies, never internal pointers.
package store

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/common"
)

// UserRecord is a user plus the credentials and links kept server-side.
type UserRecord struct {
	User            models.User
	PasswordHash    string
	MunicipalityIDs []string
}

type RefreshToken struct {
	Token   string
	UserID  string
	Expires time.Time
}

// QRRecord is an issued payment QR code.
type QRRecord struct {
	Code string
	Data models.QRCodeData
}

type Store struct {
	mu sync.RWMutex

	users       map[string]UserRecord
	userByEmail map[string]string
	refresh     map[string]RefreshToken

	municipalities map[string]models.Municipality
	muniByCode     map[string]string

	payments      map[string]models.Payment
	qrCodes       map[string]QRRecord
	notifications map[string]models.Notification
}

func New() *Store {
	return &Store{
		users:          make(map[string]UserRecord),
		userByEmail:    make(map[string]string),
		refresh:        make(map[string]RefreshToken),
		municipalities: make(map[string]models.Municipality),
		muniByCode:     make(map[string]string),
		payments:       make(map[string]models.Payment),
		qrCodes:        make(map[string]QRRecord),
		notifications:  make(map[string]models.Notification),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneUser(r UserRecord) UserRecord {
	r.MunicipalityIDs = slices.Clone(r.MunicipalityIDs)
	return r
}

// --- users ---

func (s *Store) CreateUser(r UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(r.User.Email)
	if _, ok := s.userByEmail[key]; ok {
		return fmt.Errorf("user %s: %w", r.User.Email, common.ErrAlreadyExists)
	}
	s.users[r.User.ID] = cloneUser(r)
	s.userByEmail[key] = r.User.ID
	return nil
}

func (s *Store) UserByID(id string) (UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.users[id]
	if !ok {
		return UserRecord{}, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
	}
	return cloneUser(r), nil
}

func (s *Store) UserByEmail(email string) (UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByEmail[emailKey(email)]
	if !ok {
		return UserRecord{}, fmt.Errorf("user %s: %w", email, common.ErrNotFound)
	}
	return cloneUser(s.users[id]), nil
}

// UpdateUser applies fn to a copy of the user and stores it if fn succeeds.
func (s *Store) UpdateUser(id string, fn func(*UserRecord) error) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.users[id]
	if !ok {
		return UserRecord{}, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
	}
	r = cloneUser(r)
	if err := fn(&r); err != nil {
		return UserRecord{}, err
	}
	s.users[id] = r
	return cloneUser(r), nil
}

// --- refresh tokens ---

func (s *Store) SaveRefreshToken(t RefreshToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[t.Token] = t
}

// TakeRefreshToken removes and returns token, so each one is usable once.
func (s *Store) TakeRefreshToken(token string) (RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.refresh[token]
	if !ok {
		return RefreshToken{}, fmt.Errorf("refresh token: %w", common.ErrNotFound)
	}
	delete(s.refresh, token)
	return t, nil
}

// RevokeRefreshTokens drops every refresh token of a user.
func (s *Store) RevokeRefreshTokens(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, t := range s.refresh {
		if t.UserID == userID {
			delete(s.refresh, k)
			n++
		}
	}
	return n
}

// --- municipalities ---

func (s *Store) CreateMunicipality(m models.Municipality) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.muniByCode[m.Code]; ok {
		return fmt.Errorf("municipality %s: %w", m.Code, common.ErrAlreadyExists)
	}
	s.municipalities[m.ID] = m
	s.muniByCode[m.Code] = m.ID
	return nil
}

func (s *Store) Municipality(id string) (models.Municipality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.municipalities[id]
	if !ok {
		return models.Municipality{}, fmt.Errorf("municipality %s: %w", id, common.ErrNotFound)
	}
	return m, nil
}

// Municipalities lists all municipalities ordered by name.
func (s *Store) Municipalities() []models.Municipality {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Collect(maps.Values(s.municipalities))
	slices.SortFunc(out, func(a, b models.Municipality) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (s *Store) UpdateMunicipality(id string, fn func(*models.Municipality) error) (models.Municipality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.municipalities[id]
	if !ok {
		return models.Municipality{}, fmt.Errorf("municipality %s: %w", id, common.ErrNotFound)
	}
	oldCode := m.Code
	if err := fn(&m); err != nil {
		return models.Municipality{}, err
	}
	if m.Code != oldCode {
		if _, taken := s.muniByCode[m.Code]; taken {
			return models.Municipality{}, fmt.Errorf("municipality %s: %w", m.Code, common.ErrAlreadyExists)
		}
		delete(s.muniByCode, oldCode)
		s.muniByCode[m.Code] = id
	}
	s.municipalities[id] = m
	return m, nil
}

// --- payments ---

func (s *Store) CreatePayment(p models.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
}

func (s *Store) Payment(id string) (models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return models.Payment{}, fmt.Errorf("payment %s: %w", id, common.ErrNotFound)
	}
	return p, nil
}

func (s *Store) UpdatePayment(id string, fn func(*models.Payment) error) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return models.Payment{}, fmt.Errorf("payment %s: %w", id, common.ErrNotFound)
	}
	if err := fn(&p); err != nil {
		return models.Payment{}, err
	}
	s.payments[id] = p
	return p, nil
}

// Payments returns the payments accepted by keep, newest first.
func (s *Store) Payments(keep func(models.Payment) bool) []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Payment
	for _, p := range s.payments {
		if keep(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Payment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// --- QR codes ---

func (s *Store) SaveQRCode(r QRRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qrCodes[r.Code] = r
}

func (s *Store) QRCode(code string) (QRRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.qrCodes[code]
	if !ok {
		return QRRecord{}, fmt.Errorf("qr code: %w", common.ErrNotFound)
	}
	return r, nil
}

// --- notifications ---

func (s *Store) CreateNotification(n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = n
}

func (s *Store) Notification(id string) (models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return models.Notification{}, fmt.Errorf("notification %s: %w", id, common.ErrNotFound)
	}
	return n, nil
}

func (s *Store) UpdateNotification(id string, fn func(*models.Notification) error) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return models.Notification{}, fmt.Errorf("notification %s: %w", id, common.ErrNotFound)
	}
	if err := fn(&n); err != nil {
		return models.Notification{}, err
	}
	s.notifications[id] = n
	return n, nil
}

// Notifications returns the notifications accepted by keep, newest first.
func (s *Store) Notifications(keep func(models.Notification) bool) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Notification
	for _, n := range s.notifications {
		if keep(n) {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b models.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

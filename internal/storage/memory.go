package storage

import (
	"sync"
	"time"

	"github.com/restobook/restobook-backend/internal/models"
	"github.com/restobook/restobook-backend/internal/utils"
)

// MemoryStore holds all data in memory for the lifetime of the process.
// Both maps are shared between HTTP request handlers and the messaging
// webhook handler, so every read-modify-write runs under the matching
// mutex as a single atomic unit.
type MemoryStore struct {
	sessions     map[string]*models.LoginSession // keyed by login code
	reservations map[string]*models.Reservation

	// Mutexes for thread safety
	sessionMu     sync.RWMutex
	reservationMu sync.RWMutex

	// Clock, overridable in tests
	now func() time.Time
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:     make(map[string]*models.LoginSession),
		reservations: make(map[string]*models.Reservation),
		now:          time.Now,
	}
}

// IssueCode generates a fresh 6-digit login code for the subject.
// Any previous session owned by the same subject is evicted first, so a
// subject never has more than one redeemable code.
func (m *MemoryStore) IssueCode(subjectID, displayName string) (string, error) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	for code, session := range m.sessions {
		if session.SubjectID == subjectID {
			delete(m.sessions, code)
		}
	}

	// Retry on collision with an active code. With 6 digits and a
	// handful of active sessions this loop almost never repeats.
	var code string
	for {
		c, err := utils.GenerateSecureOTP()
		if err != nil {
			return "", err
		}
		if _, taken := m.sessions[c]; !taken {
			code = c
			break
		}
	}

	issued := m.now()
	m.sessions[code] = &models.LoginSession{
		Code:        code,
		SubjectID:   subjectID,
		DisplayName: displayName,
		IssuedAt:    issued,
		ExpiresAt:   issued.Add(models.LoginCodeTTL),
	}

	return code, nil
}

// ConsumeCode redeems a login code. The lookup is destructive: whether
// the code turns out valid or expired, it is deleted and a second
// attempt reports ErrCodeInvalid.
func (m *MemoryStore) ConsumeCode(code string) (*models.LoginSession, error) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	session, exists := m.sessions[code]
	if !exists {
		return nil, ErrCodeInvalid
	}

	delete(m.sessions, code)

	if !m.now().Before(session.ExpiresAt) {
		return nil, ErrCodeExpired
	}

	copied := *session
	return &copied, nil
}

// SweepExpiredCodes drops sessions past their TTL and reports how many
// were removed. Expiry is already enforced lazily at verification time;
// the sweep only keeps abandoned codes from accumulating.
func (m *MemoryStore) SweepExpiredCodes() int {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	now := m.now()
	removed := 0
	for code, session := range m.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(m.sessions, code)
			removed++
		}
	}
	return removed
}

// CreateReservation stores a new pending reservation and returns a copy
// of the record for building the operator notification.
func (m *MemoryStore) CreateReservation(req *models.ReservationRequest) (*models.Reservation, error) {
	m.reservationMu.Lock()
	defer m.reservationMu.Unlock()

	id := utils.NewReservationID()
	for {
		if _, taken := m.reservations[id]; !taken {
			break
		}
		id = utils.NewReservationID()
	}

	reservation := &models.Reservation{
		ID:           id,
		Restaurant:   req.Restaurant,
		Date:         req.Date,
		TimeStart:    req.TimeStart,
		TimeEnd:      req.TimeEnd,
		PartySize:    req.PartySize,
		Comment:      req.Comment,
		Phone:        req.Phone,
		CustomerName: req.CustomerName,
		SubjectID:    req.SubjectID,
		Status:       models.ReservationStatusPending,
		CreatedAt:    m.now(),
	}

	m.reservations[id] = reservation

	copied := *reservation
	return &copied, nil
}

// GetReservationStatus returns the current status of a reservation
func (m *MemoryStore) GetReservationStatus(id string) (string, error) {
	m.reservationMu.RLock()
	defer m.reservationMu.RUnlock()

	reservation, exists := m.reservations[id]
	if !exists {
		return "", ErrNotFound
	}
	return reservation.Status, nil
}

// DecideReservation applies a confirm/reject decision. The transition
// is accepted only while the record is still pending; otherwise the
// store is untouched and the unchanged record is returned alongside
// ErrAlreadyDecided so the caller can render "already processed".
func (m *MemoryStore) DecideReservation(id, status string) (*models.Reservation, error) {
	m.reservationMu.Lock()
	defer m.reservationMu.Unlock()

	reservation, exists := m.reservations[id]
	if !exists {
		return nil, ErrNotFound
	}

	if reservation.Status != models.ReservationStatusPending {
		copied := *reservation
		return &copied, ErrAlreadyDecided
	}

	now := m.now()
	reservation.Status = status
	reservation.DecidedAt = &now

	copied := *reservation
	return &copied, nil
}

package storage

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/restobook/restobook-backend/internal/models"
)

func newReservationRequest() *models.ReservationRequest {
	return &models.ReservationRequest{
		Restaurant:   "La Terraza",
		Date:         "2026-09-12",
		TimeStart:    "19:00",
		TimeEnd:      "21:00",
		PartySize:    4,
		Comment:      "window table please",
		Phone:        "+34600111222",
		CustomerName: "Ana",
		SubjectID:    "u1",
	}
}

func TestIssueCodeFormat(t *testing.T) {
	m := NewMemoryStore()

	code, err := m.IssueCode("u1", "Ana")
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
}

func TestIssueCodeEvictsPriorSession(t *testing.T) {
	m := NewMemoryStore()

	first, err := m.IssueCode("u1", "Ana")
	require.NoError(t, err)

	second, err := m.IssueCode("u1", "Ana")
	require.NoError(t, err)

	// The first code must be gone
	_, err = m.ConsumeCode(first)
	require.ErrorIs(t, err, ErrCodeInvalid)

	// The second one still redeems
	session, err := m.ConsumeCode(second)
	require.NoError(t, err)
	require.Equal(t, "u1", session.SubjectID)
	require.Equal(t, "Ana", session.DisplayName)
}

func TestIssueCodeKeepsOtherSubjects(t *testing.T) {
	m := NewMemoryStore()

	anaCode, err := m.IssueCode("u1", "Ana")
	require.NoError(t, err)

	_, err = m.IssueCode("u2", "Boris")
	require.NoError(t, err)

	session, err := m.ConsumeCode(anaCode)
	require.NoError(t, err)
	require.Equal(t, "u1", session.SubjectID)
}

func TestConsumeCodeIsDestructive(t *testing.T) {
	m := NewMemoryStore()

	code, err := m.IssueCode("u1", "Ana")
	require.NoError(t, err)

	session, err := m.ConsumeCode(code)
	require.NoError(t, err)
	require.Equal(t, "Ana", session.DisplayName)

	// A redeemed code can never be redeemed again
	_, err = m.ConsumeCode(code)
	require.ErrorIs(t, err, ErrCodeInvalid)
}

func TestConsumeCodeExpired(t *testing.T) {
	m := NewMemoryStore()

	code, err := m.IssueCode("u1", "Ana")
	require.NoError(t, err)

	m.now = func() time.Time {
		return time.Now().Add(models.LoginCodeTTL + time.Minute)
	}

	// Expired exactly once, then invalid: the expired lookup consumes it
	_, err = m.ConsumeCode(code)
	require.ErrorIs(t, err, ErrCodeExpired)

	_, err = m.ConsumeCode(code)
	require.ErrorIs(t, err, ErrCodeInvalid)
}

func TestConsumeCodeAtExactExpiry(t *testing.T) {
	m := NewMemoryStore()

	issued := time.Now()
	m.now = func() time.Time { return issued }

	code, err := m.IssueCode("u1", "Ana")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(models.LoginCodeTTL) }

	_, err = m.ConsumeCode(code)
	require.ErrorIs(t, err, ErrCodeExpired)
}

func TestConsumeCodeUnknown(t *testing.T) {
	m := NewMemoryStore()

	_, err := m.ConsumeCode("000000")
	require.ErrorIs(t, err, ErrCodeInvalid)
}

func TestSweepExpiredCodes(t *testing.T) {
	m := NewMemoryStore()

	_, err := m.IssueCode("u1", "Ana")
	require.NoError(t, err)
	fresh, err := m.IssueCode("u2", "Boris")
	require.NoError(t, err)

	// Age only Ana's code
	m.sessionMu.Lock()
	for _, s := range m.sessions {
		if s.SubjectID == "u1" {
			s.ExpiresAt = time.Now().Add(-time.Minute)
		}
	}
	m.sessionMu.Unlock()

	require.Equal(t, 1, m.SweepExpiredCodes())
	require.Equal(t, 0, m.SweepExpiredCodes())

	_, err = m.ConsumeCode(fresh)
	require.NoError(t, err)
}

func TestCreateReservation(t *testing.T) {
	m := NewMemoryStore()

	reservation, err := m.CreateReservation(newReservationRequest())
	require.NoError(t, err)
	require.Len(t, reservation.ID, 8)
	require.Equal(t, models.ReservationStatusPending, reservation.Status)
	require.Equal(t, "La Terraza", reservation.Restaurant)
	require.Equal(t, 4, reservation.PartySize)
	require.Nil(t, reservation.DecidedAt)

	status, err := m.GetReservationStatus(reservation.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReservationStatusPending, status)
}

func TestGetReservationStatusUnknown(t *testing.T) {
	m := NewMemoryStore()

	_, err := m.GetReservationStatus("deadbeef")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDecideReservationOnce(t *testing.T) {
	m := NewMemoryStore()

	created, err := m.CreateReservation(newReservationRequest())
	require.NoError(t, err)

	decided, err := m.DecideReservation(created.ID, models.ReservationStatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, models.ReservationStatusConfirmed, decided.Status)
	require.NotNil(t, decided.DecidedAt)

	status, err := m.GetReservationStatus(created.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReservationStatusConfirmed, status)

	// Second decision of any kind is a no-op
	unchanged, err := m.DecideReservation(created.ID, models.ReservationStatusRejected)
	require.ErrorIs(t, err, ErrAlreadyDecided)
	require.Equal(t, models.ReservationStatusConfirmed, unchanged.Status)

	status, err = m.GetReservationStatus(created.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReservationStatusConfirmed, status)
}

func TestDecideReservationUnknown(t *testing.T) {
	m := NewMemoryStore()

	_, err := m.DecideReservation("deadbeef", models.ReservationStatusConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDecideReservationReturnsCopies(t *testing.T) {
	m := NewMemoryStore()

	created, err := m.CreateReservation(newReservationRequest())
	require.NoError(t, err)

	// Mutating the returned snapshot must not leak into the store
	created.Status = models.ReservationStatusRejected

	status, err := m.GetReservationStatus(created.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReservationStatusPending, status)
}

func TestConcurrentDecides(t *testing.T) {
	m := NewMemoryStore()

	created, err := m.CreateReservation(newReservationRequest())
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	results := make([]error, n)
	statuses := make([]string, n)

	for i := 0; i < n; i++ {
		status := models.ReservationStatusConfirmed
		if i%2 == 1 {
			status = models.ReservationStatusRejected
		}

		wg.Add(1)
		go func(i int, status string) {
			defer wg.Done()
			_, err := m.DecideReservation(created.ID, status)
			results[i] = err
			statuses[i] = status
		}(i, status)
	}
	wg.Wait()

	winners := 0
	var winningStatus string
	for i, err := range results {
		if err == nil {
			winners++
			winningStatus = statuses[i]
		} else {
			require.ErrorIs(t, err, ErrAlreadyDecided)
		}
	}
	require.Equal(t, 1, winners)

	final, err := m.GetReservationStatus(created.ID)
	require.NoError(t, err)
	require.Equal(t, winningStatus, final)
}

func TestConcurrentIssueAndConsume(t *testing.T) {
	m := NewMemoryStore()

	const n = 20
	var wg sync.WaitGroup
	codes := make([]string, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i], errs[i] = m.IssueCode(string(rune('a'+i))+"-subject", "Guest")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}

	// Concurrent redemption of every issued code must not race; each
	// code redeems at most once.
	redeemed := make([]bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := m.ConsumeCode(codes[i]); err == nil {
				redeemed[i] = true
			}
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if redeemed[i] {
			_, err := m.ConsumeCode(code)
			require.ErrorIs(t, err, ErrCodeInvalid)
		}
	}
}

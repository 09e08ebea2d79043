package storage

import (
	"errors"

	"github.com/restobook/restobook-backend/internal/models"
)

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Expected, recoverable outcomes. Callers check these with errors.Is;
// none of them indicate a corrupted store.
var (
	// ErrCodeInvalid means the login code does not exist (or was already consumed).
	ErrCodeInvalid = errors.New("code invalid")

	// ErrCodeExpired means the code existed but was past its TTL. The code
	// is consumed by the lookup; a retry yields ErrCodeInvalid.
	ErrCodeExpired = errors.New("code expired")

	// ErrNotFound means the reservation id is unknown.
	ErrNotFound = errors.New("reservation not found")

	// ErrAlreadyDecided means a decision was applied to a non-pending
	// reservation. The store is left unchanged.
	ErrAlreadyDecided = errors.New("reservation already decided")
)

// Store defines the interface for storage operations
type Store interface {
	// Login code operations
	IssueCode(subjectID, displayName string) (string, error)
	ConsumeCode(code string) (*models.LoginSession, error)
	SweepExpiredCodes() int

	// Reservation operations
	CreateReservation(req *models.ReservationRequest) (*models.Reservation, error)
	GetReservationStatus(id string) (string, error)
	DecideReservation(id, status string) (*models.Reservation, error)
}

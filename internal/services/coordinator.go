package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/restobook/restobook-backend/internal/models"
	"github.com/restobook/restobook-backend/internal/storage"
)

var coordinatorInstance *Coordinator

// SetCoordinator sets the global coordinator instance (call from main.go)
func SetCoordinator(c *Coordinator) {
	coordinatorInstance = c
}

// GetCoordinator returns the global coordinator instance
func GetCoordinator() *Coordinator {
	return coordinatorInstance
}

// ErrMalformedRequest means an inbound creation request is missing
// required fields.
var ErrMalformedRequest = errors.New("missing required reservation fields")

// Coordinator is the single entry point for both the HTTP surface and
// the messaging webhook. It owns the store and serializes every
// read-modify-write through it; no caller ever touches live store
// state directly. None of its operations perform I/O, so delivery of
// the payloads it produces can never hold up another caller.
type Coordinator struct {
	store storage.Store
}

// NewCoordinator creates a new coordinator
func NewCoordinator(store storage.Store) *Coordinator {
	return &Coordinator{store: store}
}

// RequestLogin issues a fresh login code for the subject, invalidating
// any code issued to the same subject earlier.
func (c *Coordinator) RequestLogin(subjectID, displayName string) (string, error) {
	code, err := c.store.IssueCode(subjectID, displayName)
	if err != nil {
		return "", fmt.Errorf("failed to issue login code: %w", err)
	}
	log.Printf("🔑 Login code issued for %s (%s)", displayName, subjectID)
	return code, nil
}

// VerifyLogin redeems a login code. The attempt consumes the code no
// matter the outcome, so a code can be redeemed at most once.
func (c *Coordinator) VerifyLogin(code string) *models.VerifyResult {
	session, err := c.store.ConsumeCode(strings.TrimSpace(code))
	switch {
	case errors.Is(err, storage.ErrCodeExpired):
		return &models.VerifyResult{Valid: false, Reason: "expired"}
	case err != nil:
		return &models.VerifyResult{Valid: false, Reason: "invalid"}
	}

	log.Printf("✅ Login verified for %s", session.DisplayName)
	return &models.VerifyResult{
		Valid:       true,
		DisplayName: session.DisplayName,
		SubjectID:   session.SubjectID,
	}
}

// SubmitReservation stores a new pending reservation and builds the
// operator notification payload. Delivery is the messaging
// collaborator's job: the reservation exists and is pollable even if
// the prompt is never sent.
func (c *Coordinator) SubmitReservation(req *models.ReservationRequest) (*models.Reservation, *NotificationPayload, error) {
	if !req.Normalize() {
		return nil, nil, ErrMalformedRequest
	}

	reservation, err := c.store.CreateReservation(req)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("🔔 New reservation %s from %s (%d guests)", reservation.ID, reservation.CustomerName, reservation.PartySize)
	return reservation, buildReservationPrompt(reservation), nil
}

// ApplyDecision parses an operator action token ("confirm_<id>" or
// "reject_<id>") and applies the decision. The returned RenderResult
// tells the messaging collaborator what to show the operator.
func (c *Coordinator) ApplyDecision(token string) *RenderResult {
	action, id, ok := strings.Cut(strings.TrimSpace(token), "_")
	if !ok {
		return notFoundResult()
	}

	var status string
	switch action {
	case "confirm":
		status = models.ReservationStatusConfirmed
	case "reject":
		status = models.ReservationStatusRejected
	default:
		return notFoundResult()
	}

	reservation, err := c.store.DecideReservation(id, status)
	switch {
	case errors.Is(err, storage.ErrAlreadyDecided):
		return alreadyProcessedResult(reservation)
	case err != nil:
		return notFoundResult()
	}

	log.Printf("📋 Reservation %s %s", reservation.ID, reservation.Status)
	return decisionResult(reservation)
}

// PollStatus returns the current status of a reservation.
func (c *Coordinator) PollStatus(id string) (string, error) {
	return c.store.GetReservationStatus(id)
}

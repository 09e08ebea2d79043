package models

import "time"

// Reservation represents a table booking request awaiting a decision
// from the restaurant operator. Records are never deleted so their
// status stays pollable for the lifetime of the process.
type Reservation struct {
	ID           string `json:"id"`
	Restaurant   string `json:"restaurant"`
	Date         string `json:"date"`
	TimeStart    string `json:"time_start"`
	TimeEnd      string `json:"time_end"`
	PartySize    int    `json:"party_size"`
	Comment      string `json:"comment,omitempty"`
	Phone        string `json:"phone"`
	CustomerName string `json:"customer_name"`
	SubjectID    string `json:"subject_id"`

	// Status tracking
	Status string `json:"status"` // "pending", "confirmed", "rejected"

	CreatedAt time.Time  `json:"created_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// ReservationStatus constants
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusRejected  = "rejected"
)

// ReservationRequest is the inbound payload for creating a reservation.
// Fields are opaque to the store; validation is presence-only with safe
// defaults for the optional ones.
type ReservationRequest struct {
	Restaurant   string `json:"restaurant"`
	Date         string `json:"date"`
	TimeStart    string `json:"time_start"`
	TimeEnd      string `json:"time_end"`
	PartySize    int    `json:"party_size"`
	Comment      string `json:"comment"`
	Phone        string `json:"phone"`
	CustomerName string `json:"customer_name"`
	SubjectID    string `json:"subject_id"`
}

// Normalize applies safe defaults and reports whether the required
// fields are present.
func (r *ReservationRequest) Normalize() bool {
	if r.PartySize <= 0 {
		r.PartySize = 1
	}
	return r.Restaurant != "" && r.Date != "" && r.CustomerName != "" && r.SubjectID != ""
}

package services

import (
	"fmt"
	"strings"

	"github.com/restobook/restobook-backend/internal/models"
)

// NotificationAction is one interactive control on an operator prompt.
// The token round-trips through the messaging channel unchanged and is
// the only thing binding the operator's tap to a reservation.
type NotificationAction struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// NotificationPayload is the operator-facing reservation prompt. The
// coordinator builds it; the messaging collaborator delivers it.
type NotificationPayload struct {
	ReservationID string               `json:"reservation_id"`
	Text          string               `json:"text"`
	Actions       []NotificationAction `json:"actions"`
}

// RenderResult tells the messaging collaborator what to show the
// operator after an action token was applied.
type RenderResult struct {
	Outcome string `json:"outcome"` // "confirmed", "rejected", "already_processed", "not_found"
	Text    string `json:"text"`
}

// RenderResult outcomes
const (
	OutcomeConfirmed        = "confirmed"
	OutcomeRejected         = "rejected"
	OutcomeAlreadyProcessed = "already_processed"
	OutcomeNotFound         = "not_found"
)

// buildReservationPrompt renders the new-reservation summary with its
// two action tokens.
func buildReservationPrompt(r *models.Reservation) *NotificationPayload {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 New reservation #%s\n\n", r.ID)
	fmt.Fprintf(&b, "👤 %s\n", r.CustomerName)
	fmt.Fprintf(&b, "📞 %s\n", r.Phone)
	fmt.Fprintf(&b, "🍽 %s\n", r.Restaurant)
	fmt.Fprintf(&b, "📅 %s  |  🕐 %s – %s\n", r.Date, r.TimeStart, r.TimeEnd)
	fmt.Fprintf(&b, "👥 %d guests\n", r.PartySize)
	if r.Comment != "" {
		fmt.Fprintf(&b, "💬 %s\n", r.Comment)
	}

	return &NotificationPayload{
		ReservationID: r.ID,
		Text:          b.String(),
		Actions: []NotificationAction{
			{Label: "✅ Confirm", Token: "confirm_" + r.ID},
			{Label: "❌ Reject", Token: "reject_" + r.ID},
		},
	}
}

func decisionResult(r *models.Reservation) *RenderResult {
	if r.Status == models.ReservationStatusRejected {
		var b strings.Builder
		fmt.Fprintf(&b, "❌ Reservation #%s REJECTED\n\n", r.ID)
		fmt.Fprintf(&b, "👤 %s\n", r.CustomerName)
		fmt.Fprintf(&b, "🍽 %s\n", r.Restaurant)
		fmt.Fprintf(&b, "📅 %s  |  🕐 %s – %s\n", r.Date, r.TimeStart, r.TimeEnd)
		return &RenderResult{Outcome: OutcomeRejected, Text: b.String()}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Reservation #%s CONFIRMED\n\n", r.ID)
	fmt.Fprintf(&b, "👤 %s\n", r.CustomerName)
	fmt.Fprintf(&b, "🍽 %s\n", r.Restaurant)
	fmt.Fprintf(&b, "📅 %s  |  🕐 %s – %s\n", r.Date, r.TimeStart, r.TimeEnd)
	fmt.Fprintf(&b, "👥 %d guests\n", r.PartySize)
	if r.Comment != "" {
		fmt.Fprintf(&b, "💬 %s\n", r.Comment)
	}
	b.WriteString("\nThe customer will be notified in the app.")
	return &RenderResult{Outcome: OutcomeConfirmed, Text: b.String()}
}

func alreadyProcessedResult(r *models.Reservation) *RenderResult {
	return &RenderResult{
		Outcome: OutcomeAlreadyProcessed,
		Text:    fmt.Sprintf("⚠️ Reservation #%s was already processed (%s).", r.ID, r.Status),
	}
}

func notFoundResult() *RenderResult {
	return &RenderResult{
		Outcome: OutcomeNotFound,
		Text:    "⚠️ Reservation not found or already processed.",
	}
}

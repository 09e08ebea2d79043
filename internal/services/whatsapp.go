package services

import (
	"fmt"
	"log"
	"strings"
)

// WhatsAppService handles WhatsApp message processing
type WhatsAppService struct {
	coordinator *Coordinator
}

// NewWhatsAppService creates a new WhatsApp service
func NewWhatsAppService(coordinator *Coordinator) *WhatsAppService {
	return &WhatsAppService{coordinator: coordinator}
}

// ProcessMessage routes an inbound message to the right coordinator
// operation and returns the reply text. `from` doubles as the subject
// id, the same way the original channel identity did.
func (w *WhatsAppService) ProcessMessage(from, displayName, message string) (string, error) {
	msg := strings.ToLower(strings.TrimSpace(message))

	log.Printf("Processing command '%s' from %s", msg, from)

	// Interactive button replies carry the action token as the payload
	if strings.HasPrefix(msg, "confirm_") || strings.HasPrefix(msg, "reject_") {
		result := w.coordinator.ApplyDecision(msg)
		return result.Text, nil
	}

	switch msg {
	case "start", "login", "hi", "hello":
		return w.handleLogin(from, displayName)

	case "help":
		return w.getHelpMessage(), nil

	default:
		return w.getHelpMessage(), nil
	}
}

// handleLogin issues a fresh login code and renders the welcome reply
func (w *WhatsAppService) handleLogin(from, displayName string) (string, error) {
	if displayName == "" {
		displayName = "Guest"
	}

	code, err := w.coordinator.RequestLogin(from, displayName)
	if err != nil {
		return "❌ Sorry, something went wrong. Please try again.", err
	}

	return fmt.Sprintf(
		"👋 Welcome to RestoBook, %s!\n\n"+
			"🔑 Your login code:\n\n"+
			"%s\n\n"+
			"⏱ The code is valid for 10 minutes.\n"+
			"Enter it in the RestoBook app.",
		displayName, code,
	), nil
}

func (w *WhatsAppService) getHelpMessage() string {
	return "🍽 RestoBook\n\n" +
		"Send LOGIN to get a login code for the app.\n" +
		"Reservation prompts arrive here with Confirm/Reject buttons."
}

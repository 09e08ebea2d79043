package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var twilioServiceInstance *TwilioService

// SetTwilioService sets the global twilio service instance
func SetTwilioService(ts *TwilioService) {
	twilioServiceInstance = ts
}

// GetTwilioService returns the global twilio service instance
func GetTwilioService() *TwilioService {
	return twilioServiceInstance
}

// TwilioService delivers outbound WhatsApp messages. Delivery runs
// after the coordinator call that produced the payload has returned, so
// a slow or failed send never blocks store operations.
type TwilioService struct {
	client            *twilio.RestClient
	from              string // Twilio WhatsApp number, "whatsapp:+14155238886"
	promptTemplateSID string // content template with confirm/reject quick replies
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService() (*TwilioService, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_WHATSAPP_FROM")

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioService{
		client:            client,
		from:              from,
		promptTemplateSID: os.Getenv("TWILIO_PROMPT_TEMPLATE_SID"),
	}, nil
}

// SendWhatsAppMessage sends a WhatsApp message via Twilio
func (t *TwilioService) SendWhatsAppMessage(to string, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp message: %v", err)
		return err
	}

	log.Printf("✅ WhatsApp message sent! SID: %s", *resp.Sid)
	return nil
}

// SendReservationPrompt delivers a reservation prompt to the operator.
// With a content template configured the actions become quick-reply
// buttons whose payloads are the action tokens; without one the tokens
// are rendered inline so the operator can send them back as text.
func (t *TwilioService) SendReservationPrompt(to string, payload *NotificationPayload) error {
	if t.promptTemplateSID == "" {
		body := payload.Text + "\nReply with one of:\n"
		for _, action := range payload.Actions {
			body += fmt.Sprintf("%s — %s\n", action.Token, action.Label)
		}
		return t.SendWhatsAppMessage(to, body)
	}

	variables := map[string]string{"1": payload.Text}
	for i, action := range payload.Actions {
		variables[fmt.Sprintf("%d", i+2)] = action.Token
	}
	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		return fmt.Errorf("failed to marshal content variables: %w", err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetContentSid(t.promptTemplateSID)
	params.SetContentVariables(string(variablesJSON))

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send reservation prompt: %v", err)
		return err
	}

	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		return fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, *resp.ErrorMessage)
	}

	log.Printf("✅ Reservation prompt sent to operator, SID: %s", *resp.Sid)
	return nil
}

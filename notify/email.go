// Package notify sends best-effort transactional email. Failures never
// affect the transaction that triggered them; callers log and move on.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const sendgridMailEndpoint = "https://api.sendgrid.com/v3/mail/send"

// ReceiptSender emails purchase receipts via the SendGrid v3 API.
type ReceiptSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewReceiptSender(apiKey, fromEmail, fromName string) *ReceiptSender {
	return &ReceiptSender{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendReceipt emails a purchase confirmation for one book.
func (s *ReceiptSender) SendReceipt(ctx context.Context, recipientEmail, bookTitle string, priceCents int64) error {
	if s.apiKey == "" {
		return fmt.Errorf("sendgrid API key is not configured")
	}

	text := fmt.Sprintf(
		"Thank you for your purchase.\n\nBook: %s\nPrice: %d.%02d\n\nThe book is now available in your library.",
		bookTitle, priceCents/100, priceCents%100,
	)

	payload := sgMailPayload{
		Personalizations: []sgPersonalization{{
			To: []sgAddress{{Email: recipientEmail}},
		}},
		From:    sgAddress{Email: s.fromEmail, Name: s.fromName},
		Subject: "Your purchase: " + bookTitle,
		Content: []sgContent{{Type: "text/plain", Value: text}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal SendGrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridMailEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create SendGrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("SendGrid request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SendGrid returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// SendGrid v3 Mail Send API payload types.
type sgMailPayload struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

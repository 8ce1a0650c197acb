package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// MailService sends templated emails through a transactional mail HTTP
// API. It is always called outside database transactions; delivery
// failures are logged by callers and never roll anything back.
type MailService struct {
	apiURL string
	apiKey string
	from   string
}

// NewMailService creates a new MailService.
func NewMailService(apiURL, apiKey, from string) *MailService {
	return &MailService{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
	}
}

type mailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send posts one message to the mail API.
func (s *MailService) Send(to, subject, html string) error {
	if s.apiURL == "" {
		log.Println("[Mail] API URL not configured")
		return nil
	}

	msg := mailMessage{
		From:    s.from,
		To:      to,
		Subject: subject,
		HTML:    html,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[Mail] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[Mail] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}

	return nil
}

// FormatPrice formats an amount with thousand separators and a currency
// suffix.
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	intAmount := int64(amount)
	cents := int64(amount*100+0.5) % 100
	str := fmt.Sprintf("%d", intAmount)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return fmt.Sprintf("%s.%02d %s", result.String(), cents, currency)
}

// NotifyRefundApproved emails a customer that their return was approved.
func (s *MailService) NotifyRefundApproved(to, firstName, orderNumber, productName string, quantity int, amount float64) error {
	subject := fmt.Sprintf("Refund approved for order %s", orderNumber)
	html := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your return of <b>%d × %s</b> from order <b>%s</b> has been approved.</p>
<p>Refund amount: <b>%s</b></p>
<p>The amount will be credited to your original payment method.</p>`,
		firstName, quantity, productName, orderNumber, FormatPrice(amount, ""))

	return s.Send(to, subject, html)
}

// NotifyDiscount emails a customer that a wishlisted product went on sale.
func (s *MailService) NotifyDiscount(to, firstName, productName string, discountPercentage, unitPrice, discountedPrice float64) error {
	subject := fmt.Sprintf("%s is now %.0f%% off", productName, discountPercentage)
	html := fmt.Sprintf(`<p>Hi %s,</p>
<p><b>%s</b> from your wishlist is now on sale:</p>
<p><s>%s</s> → <b>%s</b> (%.0f%% off)</p>`,
		firstName, productName, FormatPrice(unitPrice, ""), FormatPrice(discountedPrice, ""), discountPercentage)

	return s.Send(to, subject, html)
}

// SendPasswordResetCode emails a password reset code.
func (s *MailService) SendPasswordResetCode(to, code string) error {
	html := fmt.Sprintf(`<p>Your password reset code is <b>%s</b>.</p>
<p>The code expires in 10 minutes. If you did not request a reset, ignore this message.</p>`, code)

	return s.Send(to, "Password reset code", html)
}

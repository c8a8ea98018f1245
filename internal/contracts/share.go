package contracts

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/aldoetobex/mojaz-backend/pkg/sanitize"
)

// ErrMailDisabled is returned when no SendGrid key is configured.
var ErrMailDisabled = errors.New("e-mail delivery is not configured")

/* ============================== WhatsApp ================================ */

const saudiPrefix = "966"

// WhatsAppLink builds a wa.me link for number with a prefilled message. A
// number without the Saudi country code gets it prepended; a leading 0 of a
// local number is dropped first.
func WhatsAppLink(number, message string) string {
	n := sanitize.Digits(number)
	if !strings.HasPrefix(n, saudiPrefix) {
		n = saudiPrefix + strings.TrimPrefix(n, "0")
	}
	return "https://wa.me/" + n + "?text=" + url.QueryEscape(message)
}

// ShareMessage is the notification text sent alongside a generated contract.
func ShareMessage(ct ContractType, party1, party2, date string) string {
	return fmt.Sprintf("تم إنشاء عقد %s بين %s و %s بتاريخ %s. تجده مرفقاً.", ct, party1, party2, date)
}

/* ================================ E-mail ================================ */

// Attachment is a file sent with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Sender delivers a message with one attachment.
type Sender interface {
	Send(toEmail, subject, body string, att Attachment) error
}

// Mailer sends through SendGrid.
type Mailer struct {
	apiKey   string
	fromName string
	from     string
}

func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	return &Mailer{apiKey: apiKey, fromName: fromName, from: fromEmail}
}

// Enabled reports whether an API key was configured.
func (m *Mailer) Enabled() bool { return m != nil && m.apiKey != "" }

func (m *Mailer) Send(toEmail, subject, body string, att Attachment) error {
	if !m.Enabled() {
		return ErrMailDisabled
	}

	from := mail.NewEmail(m.fromName, m.from)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "<p dir=\"rtl\">"+html.EscapeString(body)+"</p>")

	a := mail.NewAttachment()
	a.SetContent(base64.StdEncoding.EncodeToString(att.Content))
	a.SetType(att.ContentType)
	a.SetFilename(att.Filename)
	a.SetDisposition("attachment")
	message.AddAttachment(a)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("sendgrid send failed", "error", err, "to", sanitize.RedactPII(toEmail))
		return fmt.Errorf("send mail: %w", err)
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", sanitize.RedactPII(toEmail))
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("contract e-mailed", "to", sanitize.RedactPII(toEmail), "file", att.Filename)
	return nil
}

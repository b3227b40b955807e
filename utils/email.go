package utils

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ReceiptMailer mails donation receipts with the PDF attached
type ReceiptMailer struct {
	Config EmailConfig
	To     string
	dialer interface {
		DialAndSend(m ...*gomail.Message) error
	}
}

// NewReceiptMailer returns a mailer sending to the given recipient
func NewReceiptMailer(cfg EmailConfig, to string) *ReceiptMailer {
	return &ReceiptMailer{
		Config: cfg,
		To:     to,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendReceipt renders and mails the receipt
func (m *ReceiptMailer) SendReceipt(r DonationReceipt) error {
	pdf, err := GenerateReceiptPDF(r)
	if err != nil {
		return err
	}
	msg := BuildReceiptMessage(m.Config.From, m.To, r, pdf)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	LogInfo("Donation receipt %s mailed to %s", r.ReceiptNo, m.To)
	return nil
}

// BuildReceiptMessage composes the receipt email
func BuildReceiptMessage(from, to string, r DonationReceipt, pdf []byte) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Donation received: "+r.AmountDisplay())

	body := fmt.Sprintf(`
		<h2>New donation received</h2>
		<p>Amount: <strong>%s</strong></p>
		<p>Order: %s<br>Payment: %s</p>
		<p>The receipt is attached.</p>
	`, r.AmountDisplay(), r.OrderID, r.PaymentID)
	m.SetBody("text/html", body)

	m.Attach(fmt.Sprintf("receipt-%s.pdf", r.ReceiptNo), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))
	return m
}

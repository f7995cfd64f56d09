// Package notify sends transactional email for order and payment transitions.
// Every send is best effort: callers dispatch in a goroutine and failures are
// logged, never returned into the order flow.
package notify

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"shopapi/config"
	"shopapi/models"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Mailer sends via SMTP when SMTP_HOST is configured and logs the message to
// the console otherwise, so development runs without a mail account.
type Mailer struct {
	host       string
	port       string
	username   string
	password   string
	from       string
	adminEmail string
}

func NewMailer() *Mailer {
	return &Mailer{
		host:       config.GetEnv("SMTP_HOST", ""),
		port:       config.GetEnv("SMTP_PORT", "587"),
		username:   config.GetEnv("SMTP_USERNAME", ""),
		password:   config.GetEnv("SMTP_PASSWORD", ""),
		from:       config.GetEnv("SMTP_FROM", "no-reply@shopapi.local"),
		adminEmail: config.GetEnv("ADMIN_EMAIL", ""),
	}
}

var (
	defaultMailer *Mailer
	defaultOnce   sync.Once
)

// Default returns the process-wide mailer, built on first use so .env loading
// in main has already happened.
func Default() *Mailer {
	defaultOnce.Do(func() {
		defaultMailer = NewMailer()
	})
	return defaultMailer
}

func (m *Mailer) send(to, subject, body string) {
	if to == "" {
		return
	}

	if m.host == "" {
		logger.Info().
			Str("to", to).
			Str("subject", subject).
			Msg("Email (console transport)\n" + body)
		return
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg))
	if err != nil {
		logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("Failed to send email")
	}
}

func orderSummary(order *models.Order) string {
	var b strings.Builder
	for _, item := range order.Items {
		label := item.Name
		if item.Color != "" || item.Size != "" {
			label = fmt.Sprintf("%s (%s/%s)", item.Name, item.Color, item.Size)
		}
		fmt.Fprintf(&b, "  %dx %s - NGN %.2f\n", item.Quantity, label, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "Subtotal: NGN %.2f\n", order.ProductAmount)
	fmt.Fprintf(&b, "Shipping: NGN %.2f\n", order.ShippingCost)
	fmt.Fprintf(&b, "Total: NGN %.2f\n", order.TotalAmount)
	return b.String()
}

func (m *Mailer) OrderConfirmation(order *models.Order) {
	body := fmt.Sprintf(
		"Thank you for your order %s.\n\n%s\nWe will let you know when it ships.\n",
		order.OrderNumber, orderSummary(order))
	m.send(order.Email, "Order confirmed: "+order.OrderNumber, body)
}

func (m *Mailer) AdminNewOrder(order *models.Order) {
	body := fmt.Sprintf("New paid order %s from %s.\n\n%s",
		order.OrderNumber, order.Email, orderSummary(order))
	m.send(m.adminEmail, "New order: "+order.OrderNumber, body)
}

func (m *Mailer) AdminPaymentFailed(order *models.Order, reason string) {
	body := fmt.Sprintf("Payment failed for order %s (%s).\nReason: %s\n",
		order.OrderNumber, order.Email, reason)
	m.send(m.adminEmail, "Payment failed: "+order.OrderNumber, body)
}

func (m *Mailer) OrderStatusChanged(order *models.Order) {
	body := fmt.Sprintf("Your order %s is now %s.\n", order.OrderNumber, order.Status)
	m.send(order.Email, "Order update: "+order.OrderNumber, body)
}

func (m *Mailer) OrderShipped(order *models.Order) {
	body := fmt.Sprintf("Your order %s has shipped.\n", order.OrderNumber)
	if order.TrackingInfo != nil {
		body += fmt.Sprintf("Courier: %s\nTracking number: %s\n",
			order.TrackingInfo.Courier, order.TrackingInfo.TrackingNumber)
		if order.TrackingInfo.TrackingURL != "" {
			body += "Track it here: " + order.TrackingInfo.TrackingURL + "\n"
		}
	}
	m.send(order.Email, "Order shipped: "+order.OrderNumber, body)
}

func (m *Mailer) OrderDelivered(order *models.Order) {
	body := fmt.Sprintf("Your order %s has been delivered. Enjoy!\n", order.OrderNumber)
	m.send(order.Email, "Order delivered: "+order.OrderNumber, body)
}

func (m *Mailer) AdminLowStock(productName, variantKey string, remaining int) {
	label := productName
	if variantKey != "" {
		label = productName + " [" + variantKey + "]"
	}
	body := fmt.Sprintf("Stock for %s is down to %d.\n", label, remaining)
	m.send(m.adminEmail, "Low stock: "+label, body)
}

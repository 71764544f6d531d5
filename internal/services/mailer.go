package services

import (
	"fmt"
	"log"

	"wasteflow-backend/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers a single message. Delivery is best-effort: the caller
// never rolls back state because a mail failed.
type Mailer interface {
	Send(to, subject, body string) error
}

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, fromAddress string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("WasteFlow", fromAddress),
	}
}

func (m *SendGridMailer) Send(to, subject, body string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), body, "")
	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// NopMailer is used when no SendGrid key is configured.
type NopMailer struct{}

func (NopMailer) Send(to, subject, body string) error { return nil }

// Notifier renders and fires domain-event mail. Every notification runs in
// its own goroutine and only logs on failure.
type Notifier struct {
	mailer Mailer
}

func NewNotifier(mailer Mailer) *Notifier {
	return &Notifier{mailer: mailer}
}

func (n *Notifier) fire(to, subject, body string) {
	go func() {
		if err := n.mailer.Send(to, subject, body); err != nil {
			log.Printf("⚠️  Mail %q to %s failed: %v", subject, to, err)
		}
	}()
}

func (n *Notifier) PickupScheduled(user *models.User, pickup *models.Pickup) {
	n.fire(user.Email, "Pickup scheduled",
		fmt.Sprintf("Hello %s, your pickup has been scheduled for %s.", user.Othernames, pickup.Date))
}

func (n *Notifier) PickupCancelled(user *models.User, pickup *models.Pickup) {
	n.fire(user.Email, "Pickup cancelled",
		fmt.Sprintf("Hello %s, your pickup for %s has been cancelled.", user.Othernames, pickup.Date))
}

func (n *Notifier) PackageChosen(user *models.User, pkg *models.Package) {
	n.fire(user.Email, "Package confirmed",
		fmt.Sprintf("Hello %s, the %s package is now active: %d %s bin(s) have been assigned to you.",
			user.Othernames, pkg.Name, pkg.BinNum, pkg.Size))
}

func (n *Notifier) PaymentReceipt(user *models.User, payment *models.Payment) {
	n.fire(user.Email, "Payment received",
		fmt.Sprintf("Hello %s, we received your %s payment of %.2f (ref %s).",
			user.Othernames, payment.PaymentType, payment.TotalAmount, payment.RefNumber))
}

func (n *Notifier) AccountSuspended(user *models.User) {
	n.fire(user.Email, "Account suspended",
		fmt.Sprintf("Hello %s, your account has been suspended. Contact support for details.", user.Othernames))
}

func (n *Notifier) AccountUnsuspended(user *models.User) {
	n.fire(user.Email, "Account reinstated",
		fmt.Sprintf("Hello %s, your account has been reinstated.", user.Othernames))
}

func (n *Notifier) AccountApproved(user *models.User) {
	n.fire(user.Email, "Account approved",
		fmt.Sprintf("Hello %s, your account has been approved. You can now choose a package.", user.Othernames))
}

func (n *Notifier) DriverWelcome(user *models.User, password string) {
	n.fire(user.Email, "Your driver account",
		fmt.Sprintf("Hello %s, your driver account is ready. Temporary password: %s", user.Othernames, password))
}

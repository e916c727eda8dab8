package email

import (
	"sociogram/pkg/logger"
)

// Notifier delivers user-facing notifications in the background. Sends are
// best effort: a failed delivery is logged but never fails the request
// that triggered it.
type Notifier struct {
	mailer *Mailer
}

func NewNotifier(mailer *Mailer) *Notifier {
	return &Notifier{mailer: mailer}
}

func (n *Notifier) send(to, subject, body string) {
	go func() {
		if err := n.mailer.Send(to, subject, body); err != nil {
			logger.Error("failed to send %q email to %s: %v", subject, to, err)
		}
	}()
}

func (n *Notifier) ConfirmEmail(to, otp string) {
	n.send(to, "Confirm your email", otpTemplate("Confirm your email", otp))
}

func (n *Notifier) ResetPassword(to, otp string) {
	n.send(to, "Reset your password", otpTemplate("Reset your password", otp))
}

func (n *Notifier) Tagged(to, taggerName string) {
	n.send(to, "You were tagged in a post", tagTemplate(taggerName))
}

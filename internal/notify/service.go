package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/practice-voice-ai/internal/directory"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

// Config controls staff notifications.
type Config struct {
	// Enabled gates all sending. Disabled is a silent no-op, not an error.
	Enabled bool
	// Recipients are the staff inboxes that get booking and cancellation
	// notices.
	Recipients []string
}

// Service emails the practice staff when the phone assistant books or
// cancels an appointment. All methods are safe on a nil receiver so callers
// can wire it unconditionally.
type Service struct {
	email  EmailSender
	cfg    Config
	logger *logging.Logger
}

// NewService creates a staff notification service.
func NewService(email EmailSender, cfg Config, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, cfg: cfg, logger: logger}
}

func (s *Service) enabled() bool {
	return s != nil && s.cfg.Enabled && s.email != nil && len(s.cfg.Recipients) > 0
}

// AppointmentBooked notifies staff about a new phone booking.
func (s *Service) AppointmentBooked(ctx context.Context, appt directory.Appointment) error {
	if !s.enabled() {
		return nil
	}

	var b strings.Builder
	b.WriteString("The phone assistant booked a new appointment.\n\n")
	fmt.Fprintf(&b, "Client: %s\n", appt.ClientName)
	if appt.ClientEmail != "" {
		fmt.Fprintf(&b, "Client email: %s\n", appt.ClientEmail)
	}
	if appt.ServiceName != "" {
		fmt.Fprintf(&b, "Service: %s\n", appt.ServiceName)
	}
	if appt.PractitionerName != "" {
		fmt.Fprintf(&b, "Practitioner: %s\n", appt.PractitionerName)
	}
	if appt.StartDate > 0 {
		fmt.Fprintf(&b, "Time: %s\n", appt.StartTime().Format("Monday, January 2, 2006 at 3:04 PM MST"))
	}
	fmt.Fprintf(&b, "Status: %s\n", appt.Status)
	fmt.Fprintf(&b, "Appointment ID: %s\n", appt.ID)

	subject := fmt.Sprintf("New appointment: %s", appt.ClientName)
	return s.sendToStaff(ctx, subject, b.String())
}

// AppointmentCancelled notifies staff about a phone cancellation.
func (s *Service) AppointmentCancelled(ctx context.Context, appointmentID, reason string) error {
	if !s.enabled() {
		return nil
	}

	var b strings.Builder
	b.WriteString("The phone assistant cancelled an appointment.\n\n")
	fmt.Fprintf(&b, "Appointment ID: %s\n", appointmentID)
	if reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", reason)
	}
	fmt.Fprintf(&b, "Cancelled at: %s\n", time.Now().UTC().Format(time.RFC1123))

	subject := fmt.Sprintf("Appointment cancelled: %s", appointmentID)
	return s.sendToStaff(ctx, subject, b.String())
}

// sendToStaff delivers to every recipient, logging individual failures and
// reporting a summary error so one bad inbox doesn't hide the others.
func (s *Service) sendToStaff(ctx context.Context, subject, body string) error {
	failed := 0
	for _, to := range s.cfg.Recipients {
		err := s.email.Send(ctx, EmailMessage{
			To:      to,
			Subject: subject,
			Body:    body,
		})
		if err != nil {
			failed++
			s.logger.Error("staff notification failed", "to", to, "subject", subject, "error", err)
			continue
		}
		s.logger.Info("staff notification sent", "to", to, "subject", subject)
	}
	if failed > 0 {
		return fmt.Errorf("notify: %d of %d staff emails failed", failed, len(s.cfg.Recipients))
	}
	return nil
}

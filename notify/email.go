package notify

import (
	"context"
	"fmt"

	"github.com/clinicdesk/appointment-server/services"
	"github.com/clinicdesk/appointment-server/utils"
	"go.uber.org/zap"
)

// EmailNotifier delivers patient notifications over SMTP.
type EmailNotifier struct {
	log *zap.Logger
}

func NewEmailNotifier(log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{log: log}
}

func (n *EmailNotifier) Notify(ctx context.Context, contact string, kind services.NotificationKind, payload map[string]string) error {
	subject, body := composeEmail(kind, payload)
	if err := utils.SendEmail(contact, subject, body); err != nil {
		return err
	}
	n.log.Info("notification sent",
		zap.String("to", contact),
		zap.String("kind", string(kind)))
	return nil
}

func composeEmail(kind services.NotificationKind, payload map[string]string) (subject, body string) {
	switch kind {
	case services.NotifyRescheduled:
		subject = "Your appointment has been rescheduled"
		body = fmt.Sprintf(`
			<p>Dear patient,</p>
			<p>Your appointment on <strong>%s at %s</strong> has been moved to
			<strong>%s at %s</strong>.</p>
			%s
			<p>If the new time does not work for you, please contact the clinic.</p>
		`, payload["old_date"], payload["old_time"], payload["new_date"], payload["new_time"],
			optionalMessage(payload))
	case services.NotifyCancelled:
		subject = "Your appointment has been cancelled"
		body = fmt.Sprintf(`
			<p>Dear patient,</p>
			<p>Your appointment on <strong>%s at %s</strong> has been cancelled.</p>
			<p>Reason: %s</p>
			%s
			<p>You can book a new appointment at any time.</p>
		`, payload["date"], payload["time"], payload["reason"], optionalMessage(payload))
	case services.NotifyReassigned:
		subject = "Your appointment has a new doctor"
		body = fmt.Sprintf(`
			<p>Dear patient,</p>
			<p>Your appointment on <strong>%s at %s</strong> will now be attended by
			<strong>%s</strong> instead of %s.</p>
			%s
		`, payload["date"], payload["time"], payload["new_doctor"], payload["old_doctor"],
			optionalMessage(payload))
	case services.NotifyReminder:
		subject = "Reminder: upcoming appointment"
		body = fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>This is a reminder for your appointment scheduled in one hour, at
			<strong>%s</strong> with <strong>%s</strong>.</p>
			<p>Please arrive on time. If you need to reschedule or cancel, contact us
			as soon as possible.</p>
		`, payload["patient"], payload["time"], payload["doctor"])
	default:
		subject = "Appointment update"
		body = "<p>There has been an update to one of your appointments.</p>"
	}
	return subject, body
}

func optionalMessage(payload map[string]string) string {
	if msg := payload["message"]; msg != "" {
		return fmt.Sprintf("<p>Message from the clinic: %s</p>", msg)
	}
	return ""
}

// Package notify sends booking notifications over SES email and SNS SMS.
// Notification failures are logged and counted, never surfaced to the
// request that triggered them.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"skillconnect/internal/common/config"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/metrics"
	"skillconnect/internal/models"
)

// EmailSender is satisfied by the SES client wrapper.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSSender is satisfied by the SNS client wrapper.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Notifier struct {
	email  EmailSender
	sms    SMSSender
	config config.NotificationConfig
	logger logger.Logger
}

// New builds a notifier. Either sender may be nil when the channel is
// disabled or the AWS client could not be constructed.
func New(email EmailSender, sms SMSSender, cfg config.NotificationConfig, log logger.Logger) *Notifier {
	return &Notifier{
		email:  email,
		sms:    sms,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

// BookingCreated notifies the worker that a new booking arrived.
func (n *Notifier) BookingCreated(ctx context.Context, booking *models.Booking, listing *models.Listing, customer *models.User) {
	subject := fmt.Sprintf("New booking for %s", listing.Title)
	body := fmt.Sprintf(
		"Hi %s,\n\n%s booked your listing %q for %s at %s.\nQuoted price: %.2f\n\nOpen your dashboard to accept or decline.",
		listing.Owner.Name, customer.Name, listing.Title,
		booking.ScheduledDate.Format("Mon, 02 Jan 2006 15:04"),
		booking.Address, booking.Price,
	)

	n.sendEmail(ctx, listing.Owner.Email, subject, body)
	n.sendSMS(ctx, listing.Owner.Phone, fmt.Sprintf("New booking for %s on %s", listing.Title, booking.ScheduledDate.Format("02 Jan")))
}

// BookingStatusChanged notifies the customer after a worker moves the booking.
func (n *Notifier) BookingStatusChanged(ctx context.Context, booking *models.Booking, listing *models.Listing, customer *models.User) {
	subject := fmt.Sprintf("Booking %s: %s", booking.Status, listing.Title)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking for %q is now %s.\nScheduled: %s\n",
		customer.Name, listing.Title, booking.Status,
		booking.ScheduledDate.Format("Mon, 02 Jan 2006 15:04"),
	)

	n.sendEmail(ctx, customer.Email, subject, body)
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) {
	if n.email == nil || !n.config.Email.Enabled {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.config.Email.FromEmail),
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("email", "error").Inc()
		n.logger.Warn("Email notification failed", map[string]interface{}{
			"to":    to,
			"error": err.Error(),
		})
		return
	}

	metrics.NotificationsSent.WithLabelValues("email", "sent").Inc()
	n.logger.Info("Email notification sent", map[string]interface{}{"to": to})
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) {
	if n.sms == nil || !n.config.SMS.Enabled || to == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := n.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("sms", "error").Inc()
		n.logger.Warn("SMS notification failed", map[string]interface{}{
			"to":    to,
			"error": err.Error(),
		})
		return
	}

	metrics.NotificationsSent.WithLabelValues("sms", "sent").Inc()
}

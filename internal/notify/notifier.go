package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"quickcart/internal/config"
	"quickcart/internal/metrics"
	"quickcart/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Notifier sends order confirmation emails on a best-effort basis.
// Delivery happens on a background goroutine; failures are logged and counted.
type Notifier struct {
	cfg      config.NotifyConfig
	sender   Sender
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

// NewNotifier creates a notifier that delivers through sender.
func NewNotifier(cfg config.NotifyConfig, sender Sender, m *metrics.Metrics, logger zerolog.Logger) *Notifier {
	return &Notifier{
		cfg:      cfg,
		sender:   sender,
		validate: validator.New(),
		metrics:  m,
		logger:   logger.With().Str("component", "notifier").Logger(),
	}
}

// OrderPlaced queues the confirmation email for order and reports what was done.
// It never blocks on delivery.
func (n *Notifier) OrderPlaced(ctx context.Context, recipient string, order model.Order) model.NotificationOutcome {
	outcome := n.orderPlaced(ctx, recipient, order)
	n.metrics.IncNotification(string(outcome))
	return outcome
}

func (n *Notifier) orderPlaced(ctx context.Context, recipient string, order model.Order) model.NotificationOutcome {
	if !n.cfg.Enabled {
		return model.NotificationDisabled
	}

	if err := n.validate.Var(recipient, "required,email"); err != nil {
		n.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("recipient", recipient).
			Msg("malformed recipient address, confirmation not sent")
		return model.NotificationInvalidRecipient
	}

	domain := recipient[strings.LastIndex(recipient, "@")+1:]
	if n.cfg.IsSkippedDomain(domain) {
		n.logger.Debug().
			Str("order_id", order.ID.String()).
			Str("recipient", recipient).
			Msg("skipping confirmation for test domain")
		return model.NotificationSkipped
	}

	subject, body := OrderPlacedMessage(recipient, order)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.cfg.SendTimeout)
		defer cancel()

		if err := n.sender.Send(sendCtx, recipient, subject, body); err != nil {
			n.metrics.IncNotification("failed")
			n.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("recipient", recipient).
				Msg("failed to send order confirmation")
			return
		}

		n.metrics.IncNotification("sent")
		n.logger.Info().
			Str("order_id", order.ID.String()).
			Msg("order confirmation sent")
	}()

	return model.NotificationQueued
}

// Wait blocks until all queued sends have finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// OrderPlacedMessage renders the confirmation subject and body.
func OrderPlacedMessage(recipient string, order model.Order) (string, string) {
	subject := fmt.Sprintf("Your QuickCart order #%s has been placed", order.ID)
	body := fmt.Sprintf(
		"Hello, %s!\n\n"+
			"Your order #%s for %s has been created.\n"+
			"You can follow its status in your account on our website.\n\n"+
			"Thank you for your purchase!",
		recipient, order.ID, order.TotalAmount.StringFixed(2),
	)
	return subject, body
}

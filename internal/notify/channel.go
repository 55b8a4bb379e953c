package notify

import (
	"context"

	"tableside/internal/config"
	"tableside/internal/models"
)

// Channel is one independent notification sink with its own failure domain.
// Send gets one attempt per order; failures are logged by the dispatcher
// and never retried or surfaced to the diner.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg *models.OrderNotification) error
}

// ChannelsFromConfig builds the enabled channels. An empty result is valid:
// persistence alone completes an order, channels are strictly optional.
func ChannelsFromConfig(cfg config.NotificationsConfig) []Channel {
	var channels []Channel

	if cfg.PushEnabled && cfg.PushToken != "" && cfg.PushRecipient != "" {
		channels = append(channels, NewPushChannel(cfg.PushToken, cfg.PushRecipient))
	}
	if cfg.SheetEnabled && cfg.SheetWebhookURL != "" {
		channels = append(channels, NewSheetChannel(cfg.SheetWebhookURL))
	}

	return channels
}

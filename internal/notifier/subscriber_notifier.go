package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/aleister1102/stocknotifier/internal/models"
	"github.com/aleister1102/stocknotifier/internal/notifier/discord"
	"github.com/rs/zerolog"
)

// PayloadSender delivers a prepared Discord message.
type PayloadSender interface {
	Send(ctx context.Context, payload discord.DiscordMessagePayload) error
}

// ProductRemover deletes a product once its subscribers have been told.
type ProductRemover interface {
	RemoveProductByID(ctx context.Context, id int64) error
}

// SubscriberNotifier tells every subscriber of an item that its indicator was found.
type SubscriberNotifier struct {
	sender        PayloadSender
	remover       ProductRemover
	removeOnMatch bool
	footer        string
	now           func() time.Time
	logger        zerolog.Logger
}

// NewSubscriberNotifier creates a notifier. When removeOnMatch is set the
// product is deleted after a successful notification, so it is announced once.
func NewSubscriberNotifier(sender PayloadSender, remover ProductRemover, removeOnMatch bool, footer string, logger zerolog.Logger) *SubscriberNotifier {
	return &SubscriberNotifier{
		sender:        sender,
		remover:       remover,
		removeOnMatch: removeOnMatch && remover != nil,
		footer:        footer,
		now:           time.Now,
		logger:        logger.With().Str("component", "SubscriberNotifier").Logger(),
	}
}

// Notify mentions every subscriber of item. Audiences larger than one message
// allows are split into several messages, and the notification only counts as
// delivered when all of them were sent.
func (sn *SubscriberNotifier) Notify(ctx context.Context, item models.MonitoredItem) error {
	embed, err := sn.buildEmbed(item)
	if err != nil {
		return err
	}

	batches := discord.MentionBatches(item.SubscriberIDs)
	for i, batch := range batches {
		if err := sn.sender.Send(ctx, sn.buildPayload(item, embed, batch)); err != nil {
			if i > 0 {
				sn.logger.Warn().
					Int64("item_id", item.ID).
					Int("sent_messages", i).
					Int("total_messages", len(batches)).
					Msg("Notification partially delivered")
			}
			return err
		}
	}

	sn.logger.Info().
		Int64("item_id", item.ID).
		Str("item", item.Name).
		Int("subscribers", len(item.SubscriberIDs)).
		Msg("Subscribers notified")

	if sn.removeOnMatch {
		// Delivery already succeeded; a failed removal only means a repeat notification next cycle.
		if err := sn.remover.RemoveProductByID(ctx, item.ID); err != nil {
			sn.logger.Error().Err(err).Int64("item_id", item.ID).Msg("Failed to remove notified product")
		} else {
			sn.logger.Info().Int64("item_id", item.ID).Msg("Removed product after notification")
		}
	}
	return nil
}

func (sn *SubscriberNotifier) buildEmbed(item models.MonitoredItem) (discord.DiscordEmbed, error) {
	builder := discord.NewDiscordEmbedBuilder().
		WithTitle(truncate(fmt.Sprintf("In stock: %s", item.Name), 256)).
		WithURL(item.URL).
		WithDescription(fmt.Sprintf("The stock indicator for **%s** was found.", truncate(item.Name, 200))).
		WithColor(InStockEmbedColor).
		AddField("Product", truncate(item.Name, 1024), true).
		AddField("Link", truncate(item.URL, 1024), false).
		WithTimestamp(sn.now())
	if sn.footer != "" {
		builder.WithFooter(sn.footer, "")
	}

	embed, err := builder.Build()
	if err != nil {
		return discord.DiscordEmbed{}, fmt.Errorf("failed to build notification embed: %w", err)
	}
	return embed, nil
}

func (sn *SubscriberNotifier) buildPayload(item models.MonitoredItem, embed discord.DiscordEmbed, subscriberIDs []string) discord.DiscordMessagePayload {
	return discord.NewDiscordMessagePayloadBuilder().
		WithContent(fmt.Sprintf("%s is in stock!", truncate(item.Name, 200))).
		MentionUsers(subscriberIDs).
		AddEmbed(embed).
		Build()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

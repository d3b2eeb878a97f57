package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kapu/guild-jobs-bot/internal/dashboard"
)

const transientNoticeTTL = 10 * time.Second

// Messenger implements dashboard.Messenger on a discordgo session.
type Messenger struct {
	session *discordgo.Session
	logger  *slog.Logger
}

// NewMessenger creates a Messenger.
func NewMessenger(session *discordgo.Session, logger *slog.Logger) *Messenger {
	return &Messenger{session: session, logger: logger}
}

// SendMessage posts a new dashboard message and returns its ID.
func (m *Messenger) SendMessage(ctx context.Context, channelID string, view dashboard.View) (string, error) {
	msg, err := m.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{view.Embed},
		Components: view.Components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send message failed channel=%s: %w", channelID, err)
	}
	return msg.ID, nil
}

// EditMessage replaces the message's embed and control set in one edit.
func (m *Messenger) EditMessage(ctx context.Context, channelID, messageID string, view dashboard.View) error {
	embeds := []*discordgo.MessageEmbed{view.Embed}
	components := view.Components

	_, err := m.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit message failed channel=%s message=%s: %w", channelID, messageID, err)
	}
	return nil
}

// StripComponents removes every control from the message, leaving it static.
func (m *Messenger) StripComponents(ctx context.Context, channelID, messageID string) error {
	components := []discordgo.MessageComponent{}

	_, err := m.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("strip components failed channel=%s message=%s: %w", channelID, messageID, err)
	}
	return nil
}

// SendTransientNotice posts a diagnostic that deletes itself shortly after.
// Best effort on both the post and the delete.
func (m *Messenger) SendTransientNotice(ctx context.Context, channelID, text string) {
	msg, err := m.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		m.logger.Warn("transient_notice_send_failed", "channel", channelID, "err", err)
		return
	}

	time.AfterFunc(transientNoticeTTL, func() {
		if err := m.session.ChannelMessageDelete(channelID, msg.ID); err != nil {
			m.logger.Debug("transient_notice_delete_failed", "channel", channelID, "message", msg.ID, "err", err)
		}
	})
}

// ComponentIDs fetches the message and returns the custom IDs of its
// controls.
func (m *Messenger) ComponentIDs(ctx context.Context, channelID, messageID string) ([]string, error) {
	msg, err := m.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch message failed channel=%s message=%s: %w", channelID, messageID, err)
	}

	var ids []string
	for _, component := range msg.Components {
		row, ok := component.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			switch c := inner.(type) {
			case *discordgo.Button:
				ids = append(ids, c.CustomID)
			case *discordgo.SelectMenu:
				ids = append(ids, c.CustomID)
			}
		}
	}
	return ids, nil
}

// Package discord glues the bot to the Discord transport: session lifecycle,
// slash-command registration, interaction dispatch and the messenger the
// dashboard edits through.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// NewSession builds a gateway session with the intents the bot needs.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session failed: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	return session, nil
}

// RunGateway opens the gateway connection and holds it until ctx is
// cancelled.
func RunGateway(ctx context.Context, session *discordgo.Session, logger *slog.Logger) error {
	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord gateway failed: %w", err)
	}
	logger.Info("discord_gateway_connected")

	<-ctx.Done()

	if err := session.Close(); err != nil {
		return fmt.Errorf("close discord gateway failed: %w", err)
	}
	logger.Info("discord_gateway_closed")
	return nil
}

// MemberFetcher implements member.Fetcher: nickname first, then global name,
// then username. State cache first, REST fallback.
type MemberFetcher struct {
	session *discordgo.Session
}

// NewMemberFetcher creates a MemberFetcher.
func NewMemberFetcher(session *discordgo.Session) *MemberFetcher {
	return &MemberFetcher{session: session}
}

// FetchDisplayName resolves a member's display name.
func (f *MemberFetcher) FetchDisplayName(ctx context.Context, guildID, userID string) (string, error) {
	m, err := f.session.State.Member(guildID, userID)
	if err != nil {
		m, err = f.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("fetch guild member failed guild=%s user=%s: %w", guildID, userID, err)
		}
	}
	return memberDisplayName(m), nil
}

func memberDisplayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		if m.User.GlobalName != "" {
			return m.User.GlobalName
		}
		return m.User.Username
	}
	return ""
}

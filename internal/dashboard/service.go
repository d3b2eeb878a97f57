package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kapu/guild-jobs-bot/internal/domain"
	"github.com/kapu/guild-jobs-bot/internal/messageprovider"
	apperrors "github.com/kapu/guild-jobs-bot/pkg/errors"
)

// ErrNotConfigured: no dashboard registration exists for the guild.
var ErrNotConfigured = errors.New("dashboard not configured")

// Store: the roster-store subset the dashboard needs.
type Store interface {
	Roster(ctx context.Context, guildID string) ([]domain.RosterEntry, error)
	GetDashboard(ctx context.Context, guildID string) (channelID, messageID string, err error)
	SetDashboard(ctx context.Context, guildID, channelID, messageID string) error
}

// Messenger: the transport subset the dashboard needs. Each call must be a
// single atomic post/edit from the caller's perspective.
type Messenger interface {
	SendMessage(ctx context.Context, channelID string, view View) (messageID string, err error)
	EditMessage(ctx context.Context, channelID, messageID string, view View) error
	// StripComponents removes the control set, leaving a static message.
	StripComponents(ctx context.Context, channelID, messageID string) error
	// SendTransientNotice posts a short-lived diagnostic, best effort.
	SendTransientNotice(ctx context.Context, channelID, text string)
	// ComponentIDs returns the custom IDs attached to a message.
	ComponentIDs(ctx context.Context, channelID, messageID string) ([]string, error)
}

// NameResolver resolves a guild member's display name.
type NameResolver interface {
	DisplayName(ctx context.Context, guildID, userID string) (string, error)
}

// Service drives the live dashboard message: publish, explicit refresh,
// post-mutation refresh and component activations. There is deliberately no
// lock around a message's view state; concurrent activations race and the
// last edit wins, each one re-derived from a fresh roster read.
type Service struct {
	store     Store
	messenger Messenger
	names     NameResolver
	renderer  *Renderer
	messages  *messageprovider.Provider
	pageSize  int
	logger    *slog.Logger
}

// NewService creates the dashboard service.
func NewService(
	store Store,
	messenger Messenger,
	names NameResolver,
	renderer *Renderer,
	messages *messageprovider.Provider,
	pageSize int,
	logger *slog.Logger,
) *Service {
	if pageSize <= 0 {
		pageSize = 6
	}
	return &Service{
		store:     store,
		messenger: messenger,
		names:     names,
		renderer:  renderer,
		messages:  messages,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// Publish renders page 0 unfiltered and installs it as the guild's dashboard:
// the previously registered message is edited in place when still resolvable,
// otherwise a new message is posted in channelID and the registration is
// overwritten. Returns the channel the dashboard now lives in.
func (s *Service) Publish(ctx context.Context, guildID, channelID string) (string, error) {
	view, _, err := s.buildView(ctx, guildID, State{})
	if err != nil {
		return "", err
	}

	prevChannelID, prevMessageID, err := s.store.GetDashboard(ctx, guildID)
	if err != nil {
		return "", err
	}

	if prevChannelID != "" && prevMessageID != "" {
		if editErr := s.messenger.EditMessage(ctx, prevChannelID, prevMessageID, view); editErr == nil {
			if err := s.store.SetDashboard(ctx, guildID, prevChannelID, prevMessageID); err != nil {
				return "", err
			}
			return prevChannelID, nil
		} else {
			s.logger.Info("dashboard_reuse_failed", "guild", guildID, "err", editErr)
		}
	}

	messageID, err := s.messenger.SendMessage(ctx, channelID, view)
	if err != nil {
		return "", fmt.Errorf("post dashboard failed: %w", err)
	}
	if err := s.store.SetDashboard(ctx, guildID, channelID, messageID); err != nil {
		return "", err
	}
	return channelID, nil
}

// Refresh re-renders the registered dashboard at its current {page, filter},
// recovered from the live message's control IDs. Errors are surfaced to the
// caller and the registration is left untouched.
func (s *Service) Refresh(ctx context.Context, guildID string) error {
	channelID, messageID, err := s.store.GetDashboard(ctx, guildID)
	if err != nil {
		return err
	}
	if channelID == "" || messageID == "" {
		return ErrNotConfigured
	}

	st, err := s.currentState(ctx, channelID, messageID)
	if err != nil {
		return err
	}

	view, _, err := s.buildView(ctx, guildID, st)
	if err != nil {
		return err
	}
	if err := s.messenger.EditMessage(ctx, channelID, messageID, view); err != nil {
		return fmt.Errorf("edit dashboard failed: %w", err)
	}
	return nil
}

// RefreshAfterMutation refreshes the dashboard after a roster mutation, best
// effort: every failure is logged and swallowed so the mutation itself never
// appears to fail.
func (s *Service) RefreshAfterMutation(ctx context.Context, guildID string) {
	if err := s.Refresh(ctx, guildID); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return
		}
		s.logger.Info("dashboard_refresh_after_mutation_failed", "guild", guildID, "err", err)
	}
}

// HandleComponent applies a control activation: decode the carried state,
// apply the transition against a fresh roster, re-render and edit the message.
// A failure mid-transition degrades the message to a static, control-less
// state plus a transient notice so it cannot keep looking live while broken.
func (s *Service) HandleComponent(ctx context.Context, guildID, channelID, messageID, customID string, values []string) error {
	action, st, err := ParseCustomID(customID)
	if err != nil {
		return err
	}

	selectedFilter := ""
	if action == ActionFilter && len(values) > 0 {
		selectedFilter = values[0]
	}

	roster, err := s.store.Roster(ctx, guildID)
	if err != nil {
		s.degrade(ctx, channelID, messageID, err)
		return err
	}

	// Navigation wraps against the current roster's page count, which may
	// have changed since this message was rendered.
	totalPages := TotalPages(roster, st.Filter, s.pageSize)
	next := Transition(action, st, selectedFilter, totalPages)

	cards, page, totalPages, filteredCount := Project(roster, next.Page, next.Filter, s.pageSize)
	next.Page = page

	view := s.renderer.Render(next, cards, totalPages, filteredCount, s.resolveNames(ctx, guildID, cards))
	if err := s.messenger.EditMessage(ctx, channelID, messageID, view); err != nil {
		s.degrade(ctx, channelID, messageID, err)
		return fmt.Errorf("edit dashboard failed: %w", err)
	}

	s.logger.Info("dashboard_transition",
		"guild", guildID,
		"action", string(action),
		"page", next.Page,
		"filter", next.Filter,
	)
	return nil
}

// buildView projects and renders the roster at st. The returned state carries
// the clamped page.
func (s *Service) buildView(ctx context.Context, guildID string, st State) (View, State, error) {
	roster, err := s.store.Roster(ctx, guildID)
	if err != nil {
		return View{}, st, err
	}

	cards, page, totalPages, filteredCount := Project(roster, st.Page, st.Filter, s.pageSize)
	st.Page = page

	view := s.renderer.Render(st, cards, totalPages, filteredCount, s.resolveNames(ctx, guildID, cards))
	return view, st, nil
}

// currentState recovers {page, filter} from the live message's control IDs.
func (s *Service) currentState(ctx context.Context, channelID, messageID string) (State, error) {
	ids, err := s.messenger.ComponentIDs(ctx, channelID, messageID)
	if err != nil {
		return State{}, apperrors.ResolutionError{Kind: "message", ID: messageID, Err: err}
	}
	for _, id := range ids {
		if _, st, parseErr := ParseCustomID(id); parseErr == nil {
			return st, nil
		}
	}
	// A registered message without dashboard controls renders from scratch.
	return State{}, nil
}

// resolveNames resolves display names for the page's cards, best effort;
// unresolved users keep their synthetic fallback label.
func (s *Service) resolveNames(ctx context.Context, guildID string, cards []Card) map[string]string {
	names := make(map[string]string, len(cards))
	for _, card := range cards {
		name, err := s.names.DisplayName(ctx, guildID, card.UserID)
		if err != nil {
			s.logger.Debug("member_name_resolution_failed", "guild", guildID, "user", card.UserID, "err", err)
			continue
		}
		names[card.UserID] = name
	}
	return names
}

func (s *Service) degrade(ctx context.Context, channelID, messageID string, cause error) {
	if err := s.messenger.StripComponents(ctx, channelID, messageID); err != nil {
		s.logger.Error("dashboard_strip_components_failed", "channel", channelID, "message", messageID, "err", err)
	}
	s.messenger.SendTransientNotice(ctx, channelID,
		s.messages.Get("dashboard.update_failed", messageprovider.P("error", cause.Error())))
	s.logger.Error("dashboard_update_failed", "channel", channelID, "message", messageID, "err", cause)
}

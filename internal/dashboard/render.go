package dashboard

import (
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kapu/guild-jobs-bot/internal/domain"
	"github.com/kapu/guild-jobs-bot/internal/messageprovider"
)

const dashboardColor = 0x9B59B6

// View: a fully rendered dashboard payload.
type View struct {
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// Renderer maps a projected page to the Discord payload and its control set.
type Renderer struct {
	catalog  *domain.Catalog
	messages *messageprovider.Provider
}

// NewRenderer creates a Renderer.
func NewRenderer(catalog *domain.Catalog, messages *messageprovider.Provider) *Renderer {
	return &Renderer{catalog: catalog, messages: messages}
}

// Render builds the embed and control set for one page. names maps user IDs
// to resolved display names; unresolved users fall back to a synthetic label.
func (r *Renderer) Render(st State, cards []Card, totalPages, filteredCount int, names map[string]string) View {
	title := r.messages.Get("dashboard.title")
	if st.Filter != "" {
		title = r.messages.Get("dashboard.title_filtered",
			messageprovider.P("filter", r.filterLabel(st.Filter)))
	}

	description := r.messages.Get("dashboard.subtitle",
		messageprovider.P("count", filteredCount),
		messageprovider.P("page", st.Page+1),
		messageprovider.P("total", totalPages),
	)
	if len(cards) == 0 {
		description += "\n\n" + r.messages.Get("dashboard.empty")
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       dashboardColor,
	}

	for _, card := range cards {
		lines := make([]string, 0, len(card.Jobs))
		for _, job := range card.Jobs {
			lines = append(lines, r.messages.Get("dashboard.job_line",
				messageprovider.P("job", r.catalog.Display(job.Profession)),
				messageprovider.P("level", job.Level),
			))
		}
		if len(lines) == 0 {
			continue
		}

		name, ok := names[card.UserID]
		if !ok || name == "" {
			name = r.messages.Get("dashboard.user_fallback", messageprovider.P("id", card.UserID))
		}

		headerKey := "dashboard.card_header"
		params := []messageprovider.Param{messageprovider.P("name", name)}
		if card.Alias != "" {
			headerKey = "dashboard.card_header_alias"
			params = append(params, messageprovider.P("alias", card.Alias))
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   r.messages.Get(headerKey, params...),
			Value:  strings.Join(lines, "\n"),
			Inline: false,
		})
	}

	return View{
		Embed:      embed,
		Components: r.controls(st),
	}
}

// filterLabel names the active filter in the title: the catalog display form
// when known, the bare capitalized key otherwise.
func (r *Renderer) filterLabel(filterKey string) string {
	if p, ok := r.catalog.Lookup(filterKey); ok {
		return p.Display()
	}
	return domain.CapitalizeFrench(filterKey)
}

func (r *Renderer) controls(st State) []discordgo.MessageComponent {
	minValues := 1

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Emoji:    &discordgo.ComponentEmoji{Name: "◀️"},
					Style:    discordgo.SecondaryButton,
					CustomID: CustomID(ActionPrev, st),
				},
				discordgo.Button{
					Emoji:    &discordgo.ComponentEmoji{Name: "▶️"},
					Style:    discordgo.SecondaryButton,
					CustomID: CustomID(ActionNext, st),
				},
				discordgo.Button{
					Emoji:    &discordgo.ComponentEmoji{Name: "🔄"},
					Style:    discordgo.SecondaryButton,
					CustomID: CustomID(ActionRefresh, st),
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    CustomID(ActionFilter, st),
					Placeholder: r.messages.Get("dashboard.filter_placeholder"),
					MinValues:   &minValues,
					MaxValues:   1,
					Options:     r.filterOptions(st.Filter),
				},
			},
		},
	}
}

// filterOptions lists the sentinel "all" entry plus every catalog profession,
// alphabetical, deduplicated by the full accent-folded key.
func (r *Renderer) filterOptions(activeFilter string) []discordgo.SelectMenuOption {
	professions := append([]domain.Profession(nil), r.catalog.All()...)
	sort.Slice(professions, func(i, j int) bool {
		return professions[i].Name < professions[j].Name
	})

	options := make([]discordgo.SelectMenuOption, 0, len(professions)+1)
	options = append(options, discordgo.SelectMenuOption{
		Label:   r.messages.Get("dashboard.filter_all"),
		Value:   FilterAllValue,
		Default: activeFilter == "",
	})

	seen := make(map[string]bool, len(professions))
	for _, p := range professions {
		if seen[p.Key] {
			continue
		}
		seen[p.Key] = true
		options = append(options, discordgo.SelectMenuOption{
			Label:   p.Label,
			Value:   p.Key,
			Emoji:   &discordgo.ComponentEmoji{Name: p.Emoji},
			Default: p.Key == activeFilter,
		})
	}
	return options
}

package dashboard

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/kapu/guild-jobs-bot/internal/assets"
	"github.com/kapu/guild-jobs-bot/internal/domain"
	"github.com/kapu/guild-jobs-bot/internal/messageprovider"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	catalog, err := domain.LoadCatalog(assets.ProfessionsYAML)
	if err != nil {
		t.Fatalf("load catalog failed: %v", err)
	}
	messages, err := messageprovider.NewFromYAML(assets.BotMessagesYAML)
	if err != nil {
		t.Fatalf("load messages failed: %v", err)
	}
	return NewRenderer(catalog, messages)
}

func TestRender_Basic(t *testing.T) {
	r := newTestRenderer(t)

	cards := []Card{
		{
			UserID:    "1001",
			Jobs:      []domain.Job{{Profession: "bucheron", Level: 200}, {Profession: "paysan", Level: 90}},
			MeanLevel: 145,
		},
	}
	names := map[string]string{"1001": "Kérillan"}

	view := r.Render(State{}, cards, 3, 13, names)

	if view.Embed.Title == "" || strings.Contains(view.Embed.Title, "{") {
		t.Errorf("unexpected title %q", view.Embed.Title)
	}
	if !strings.Contains(view.Embed.Description, "**13**") {
		t.Errorf("description should carry filtered count, got %q", view.Embed.Description)
	}
	if !strings.Contains(view.Embed.Description, "**1/3**") {
		t.Errorf("description should show page 1/3, got %q", view.Embed.Description)
	}

	if len(view.Embed.Fields) != 1 {
		t.Fatalf("expected 1 card field, got %d", len(view.Embed.Fields))
	}
	field := view.Embed.Fields[0]
	if !strings.Contains(field.Name, "Kérillan") {
		t.Errorf("card header missing resolved name: %q", field.Name)
	}
	if !strings.Contains(field.Value, "Bûcheron") || !strings.Contains(field.Value, "**200**") {
		t.Errorf("card body missing job line: %q", field.Value)
	}
}

func TestRender_AliasHeader(t *testing.T) {
	r := newTestRenderer(t)

	cards := []Card{{
		UserID: "1001",
		Alias:  "Toto-le-bûcheron",
		Jobs:   []domain.Job{{Profession: "bucheron", Level: 10}},
	}}

	view := r.Render(State{}, cards, 1, 1, map[string]string{"1001": "Kérillan"})
	header := view.Embed.Fields[0].Name
	if !strings.Contains(header, "Toto-le-bûcheron") {
		t.Errorf("header should include alias, got %q", header)
	}
}

func TestRender_NameFallback(t *testing.T) {
	r := newTestRenderer(t)

	cards := []Card{{
		UserID: "424242",
		Jobs:   []domain.Job{{Profession: "paysan", Level: 50}},
	}}

	view := r.Render(State{}, cards, 1, 1, nil)
	header := view.Embed.Fields[0].Name
	if !strings.Contains(header, "424242") {
		t.Errorf("unresolved user should fall back to an id label, got %q", header)
	}
}

func TestRender_Empty(t *testing.T) {
	r := newTestRenderer(t)

	view := r.Render(State{Filter: "joaillomage"}, nil, 1, 0, nil)
	if len(view.Embed.Fields) != 0 {
		t.Fatalf("empty page should have no fields, got %d", len(view.Embed.Fields))
	}
	if !strings.Contains(view.Embed.Description, "**0**") {
		t.Errorf("description should report 0 profiles, got %q", view.Embed.Description)
	}
	// The controls stay present so the user can clear the filter.
	if len(view.Components) != 2 {
		t.Errorf("expected 2 component rows, got %d", len(view.Components))
	}
}

func TestRender_FilteredTitle(t *testing.T) {
	r := newTestRenderer(t)

	unfiltered := r.Render(State{}, nil, 1, 0, nil)
	filtered := r.Render(State{Filter: "bucheron"}, nil, 1, 0, nil)
	if filtered.Embed.Title == unfiltered.Embed.Title {
		t.Error("filtered title should differ from unfiltered title")
	}
	if !strings.Contains(filtered.Embed.Title, "Bûcheron") {
		t.Errorf("filtered title should name the profession, got %q", filtered.Embed.Title)
	}
}

func TestRender_FilteredTitleUnknownKey(t *testing.T) {
	r := newTestRenderer(t)

	view := r.Render(State{Filter: "cartographe"}, nil, 1, 0, nil)
	if !strings.Contains(view.Embed.Title, "Cartographe") {
		t.Errorf("title should capitalize the raw key, got %q", view.Embed.Title)
	}
	if strings.Contains(view.Embed.Title, "🛠️") {
		t.Errorf("title must not carry the card-line emoji fallback, got %q", view.Embed.Title)
	}
}

func TestRender_ControlsCarryState(t *testing.T) {
	r := newTestRenderer(t)
	st := State{Page: 2, Filter: "paysan"}

	view := r.Render(st, nil, 4, 19, nil)

	row, ok := view.Components[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("first component is %T, want ActionsRow", view.Components[0])
	}
	for _, c := range row.Components {
		button, ok := c.(discordgo.Button)
		if !ok {
			t.Fatalf("button row holds %T", c)
		}
		_, parsed, err := ParseCustomID(button.CustomID)
		if err != nil {
			t.Fatalf("button custom id %q: %v", button.CustomID, err)
		}
		if parsed != st {
			t.Errorf("button %q carries %+v, want %+v", button.CustomID, parsed, st)
		}
	}
}

func TestRender_FilterOptions(t *testing.T) {
	r := newTestRenderer(t)

	view := r.Render(State{Filter: "bucheron"}, nil, 1, 0, nil)
	row, ok := view.Components[1].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("second component is %T, want ActionsRow", view.Components[1])
	}
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	if !ok {
		t.Fatalf("select row holds %T", row.Components[0])
	}

	if len(menu.Options) == 0 || menu.Options[0].Value != FilterAllValue {
		t.Fatal("first option must be the select-all sentinel")
	}
	if menu.Options[0].Default {
		t.Error("sentinel must not be default while a filter is active")
	}
	// Discord caps select menus at 25 options.
	if len(menu.Options) > 25 {
		t.Errorf("too many select options: %d", len(menu.Options))
	}

	seen := map[string]bool{}
	defaultCount := 0
	for _, opt := range menu.Options {
		if seen[opt.Value] {
			t.Errorf("duplicate option value %q", opt.Value)
		}
		seen[opt.Value] = true
		if opt.Default {
			defaultCount++
			if opt.Value != "bucheron" {
				t.Errorf("default option is %q, want bucheron", opt.Value)
			}
		}
	}
	if defaultCount != 1 {
		t.Errorf("expected exactly one default option, got %d", defaultCount)
	}
}

package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kapu/guild-jobs-bot/internal/domain"
)

// Action: one of the finite dashboard transitions, keyed by the control that
// fired it.
type Action string

const (
	ActionPrev    Action = "prev"
	ActionNext    Action = "next"
	ActionRefresh Action = "refresh"
	ActionFilter  Action = "filter"
)

// FilterAllValue: select-option sentinel that clears the active filter.
const FilterAllValue = "__all"

const customIDPrefix = "metiers"

// State: the {page, filter} pair a dashboard message currently renders.
// It is carried inside each control's custom ID, so an activation after a
// process restart reconstructs it from the event alone.
type State struct {
	Page   int
	Filter string // normalized profession key, empty when unfiltered
}

// CustomID encodes an action plus the current view state:
// "metiers:<action>:<page>:<filter>".
func CustomID(action Action, st State) string {
	return strings.Join([]string{customIDPrefix, string(action), strconv.Itoa(st.Page), st.Filter}, ":")
}

// IsComponentID reports whether a component custom ID belongs to the
// dashboard.
func IsComponentID(id string) bool {
	return strings.HasPrefix(id, customIDPrefix+":")
}

// ParseCustomID decodes a dashboard custom ID back into action and state.
func ParseCustomID(id string) (Action, State, error) {
	parts := strings.SplitN(id, ":", 4)
	if len(parts) != 4 || parts[0] != customIDPrefix {
		return "", State{}, fmt.Errorf("not a dashboard custom id: %q", id)
	}

	action := Action(parts[1])
	switch action {
	case ActionPrev, ActionNext, ActionRefresh, ActionFilter:
	default:
		return "", State{}, fmt.Errorf("unknown dashboard action: %q", parts[1])
	}

	page, err := strconv.Atoi(parts[2])
	if err != nil || page < 0 {
		return "", State{}, fmt.Errorf("invalid dashboard page in custom id %q", id)
	}

	return action, State{Page: page, Filter: parts[3]}, nil
}

// Transition applies an action to the current state. totalPages must be the
// page count of the current roster under the current filter, so navigation
// wraps against fresh data even when the rendered message is stale.
// selectedFilter is only read for ActionFilter.
func Transition(action Action, st State, selectedFilter string, totalPages int) State {
	if totalPages < 1 {
		totalPages = 1
	}

	switch action {
	case ActionPrev:
		return State{Page: ((st.Page-1)%totalPages + totalPages) % totalPages, Filter: st.Filter}
	case ActionNext:
		return State{Page: (st.Page + 1) % totalPages, Filter: st.Filter}
	case ActionFilter:
		if selectedFilter == FilterAllValue {
			return State{Page: 0, Filter: ""}
		}
		return State{Page: 0, Filter: domain.Normalize(selectedFilter)}
	default: // ActionRefresh
		return st
	}
}

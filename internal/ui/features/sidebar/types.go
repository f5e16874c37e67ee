package sidebar

import (
	"net/url"
	"sort"
	"strings"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// Reserved group names. Collections get their own groups alongside these.
const (
	GroupLocal = "Local"
	GroupStore = "Store"
)

// Item is a single flow entry in the sidebar.
type Item struct {
	Name      string
	ShortName string
	Source    string
	Selected  bool
}

// Group is a collapsible section of the sidebar.
type Group struct {
	Name      string
	PathName  string // Name escaped for use as a URL path segment
	Collapsed bool
	Flows     []Item
}

// Source selector values. Empty selects all sources.
const (
	SourceFilterLocal = "local"
	SourceFilterStore = "store"
	SourceFilterTaps  = "taps"
)

// View is the data rendered into the sidebar fragment.
type View struct {
	Filter   string
	Source   string
	Selected string
	Groups   []Group
}

// BuildGroups filters flows by a case-insensitive substring of name or ID
// and by the source selector, then partitions every match into exactly one
// group. Local flows come first, then Store, then collections in name
// order. Collapsed state only affects rendering; collapsed groups keep
// their flows.
func BuildGroups(flows []*core.PersistedFlow, filter, source, selected string, collapsed map[string]bool) []Group {
	byName := make(map[string]*Group)

	query := strings.ToLower(strings.TrimSpace(filter))
	for _, f := range flows {
		if !matchesSource(f.Source, source) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(f.Name), query) &&
			!strings.Contains(strings.ToLower(f.ID), query) {
			continue
		}

		name := groupFor(f)
		g, ok := byName[name]
		if !ok {
			g = &Group{Name: name, PathName: url.PathEscape(name), Collapsed: collapsed[name]}
			byName[name] = g
		}
		g.Flows = append(g.Flows, Item{
			Name:      f.Name,
			ShortName: f.ShortName(),
			Source:    string(f.Source),
			Selected:  f.Name == selected,
		})
	}

	result := make([]Group, 0, len(byName))
	for _, g := range byName {
		sort.Slice(g.Flows, func(i, j int) bool {
			return g.Flows[i].Name < g.Flows[j].Name
		})
		result = append(result, *g)
	}

	sort.Slice(result, func(i, j int) bool {
		return groupRank(result[i].Name) < groupRank(result[j].Name) ||
			(groupRank(result[i].Name) == groupRank(result[j].Name) && result[i].Name < result[j].Name)
	})

	return result
}

func matchesSource(s core.FlowSource, selector string) bool {
	switch selector {
	case SourceFilterLocal:
		return s == core.SourceLocal || s == ""
	case SourceFilterStore:
		return s == core.SourceStore
	case SourceFilterTaps:
		return s.IsTap()
	default:
		return true
	}
}

// groupFor picks the single group a flow belongs to.
func groupFor(f *core.PersistedFlow) string {
	if c := f.CollectionName(); c != "" {
		return c
	}
	if f.Source == core.SourceStore {
		return GroupStore
	}
	return GroupLocal
}

func groupRank(name string) int {
	switch name {
	case GroupLocal:
		return 0
	case GroupStore:
		return 1
	default:
		return 2
	}
}

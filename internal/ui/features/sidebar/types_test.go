package sidebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

func persisted(name string, source core.FlowSource) *core.PersistedFlow {
	return &core.PersistedFlow{
		Flow: &core.Flow{Name: name, Source: source},
		ID:   "id-" + name,
	}
}

func TestBuildGroups_Partitioning(t *testing.T) {
	flows := []*core.PersistedFlow{
		persisted("solo", core.SourceLocal),
		persisted("research/summarize", core.SourceLocal),
		persisted("research/extract", core.SourceLocal),
		persisted("installed", core.SourceStore),
		persisted("tapflow", core.TapSource("community")),
	}

	groups := BuildGroups(flows, "", "", "", nil)

	names := make([]string, 0, len(groups))
	total := 0
	for _, g := range groups {
		names = append(names, g.Name)
		total += len(g.Flows)
	}

	// Every flow lands in exactly one group.
	assert.Equal(t, len(flows), total)
	// Local first, Store second, collections alphabetical after.
	assert.Equal(t, []string{GroupLocal, GroupStore, "community", "research"}, names)
}

func TestBuildGroups_Filter(t *testing.T) {
	flows := []*core.PersistedFlow{
		persisted("research/summarize", core.SourceLocal),
		persisted("research/extract", core.SourceLocal),
		persisted("triage", core.SourceLocal),
	}

	tests := []struct {
		name      string
		filter    string
		wantFlows int
	}{
		{"empty filter matches all", "", 3},
		{"substring match", "summ", 1},
		{"case insensitive", "SUMM", 1},
		{"collection prefix matches whole name", "research", 2},
		{"matches by flow ID", "id-triage", 1},
		{"no match yields no groups", "nope", 0},
		{"surrounding whitespace is trimmed", "  triage  ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := BuildGroups(flows, tt.filter, "", "", nil)
			total := 0
			for _, g := range groups {
				total += len(g.Flows)
			}
			assert.Equal(t, tt.wantFlows, total)
		})
	}
}

func TestBuildGroups_SourceSelector(t *testing.T) {
	flows := []*core.PersistedFlow{
		persisted("solo", core.SourceLocal),
		persisted("triage", core.SourceLocal),
		persisted("installed", core.SourceStore),
		persisted("tapflow", core.TapSource("community")),
	}

	tests := []struct {
		name      string
		source    string
		wantFlows int
	}{
		{"empty selector matches all", "", 4},
		{"local only", SourceFilterLocal, 2},
		{"store only", SourceFilterStore, 1},
		{"taps only", SourceFilterTaps, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := BuildGroups(flows, "", tt.source, "", nil)
			total := 0
			for _, g := range groups {
				total += len(g.Flows)
			}
			assert.Equal(t, tt.wantFlows, total)
		})
	}
}

func TestBuildGroups_SourceAndTextFiltersCompose(t *testing.T) {
	flows := []*core.PersistedFlow{
		persisted("triage", core.SourceLocal),
		persisted("triage-helper", core.SourceStore),
	}

	groups := BuildGroups(flows, "triage", SourceFilterStore, "", nil)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Flows, 1)
	assert.Equal(t, "triage-helper", groups[0].Flows[0].Name)
}

func TestBuildGroups_CollapsedKeepsFlows(t *testing.T) {
	flows := []*core.PersistedFlow{
		persisted("research/summarize", core.SourceLocal),
		persisted("research/extract", core.SourceLocal),
	}

	groups := BuildGroups(flows, "", "", "", map[string]bool{"research": true})

	require.Len(t, groups, 1)
	assert.True(t, groups[0].Collapsed)
	// Collapse affects rendering only; the group keeps its flows.
	assert.Len(t, groups[0].Flows, 2)
}

func TestBuildGroups_Selection(t *testing.T) {
	flows := []*core.PersistedFlow{
		persisted("alpha", core.SourceLocal),
		persisted("beta", core.SourceLocal),
	}

	groups := BuildGroups(flows, "", "", "beta", nil)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Flows, 2)
	assert.False(t, groups[0].Flows[0].Selected)
	assert.True(t, groups[0].Flows[1].Selected)
}

func TestBuildGroups_FlowsSortedByName(t *testing.T) {
	flows := []*core.PersistedFlow{
		persisted("zeta", core.SourceLocal),
		persisted("alpha", core.SourceLocal),
		persisted("mid", core.SourceLocal),
	}

	groups := BuildGroups(flows, "", "", "", nil)

	require.Len(t, groups, 1)
	got := make([]string, 0, 3)
	for _, f := range groups[0].Flows {
		got = append(got, f.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, got)
}

func TestBuildGroups_PathNameEscaped(t *testing.T) {
	flows := []*core.PersistedFlow{
		persisted("my team/alpha", core.SourceLocal),
	}

	groups := BuildGroups(flows, "", "", "", nil)

	require.Len(t, groups, 1)
	assert.Equal(t, "my team", groups[0].Name)
	// The collapse endpoint takes the group as a path segment.
	assert.Equal(t, "my%20team", groups[0].PathName)
}

func TestBuildGroups_ShortNameStripsCollection(t *testing.T) {
	flows := []*core.PersistedFlow{
		persisted("research/summarize", core.SourceLocal),
	}

	groups := BuildGroups(flows, "", "", "", nil)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Flows, 1)
	assert.Equal(t, "research/summarize", groups[0].Flows[0].Name)
	assert.Equal(t, "summarize", groups[0].Flows[0].ShortName)
}

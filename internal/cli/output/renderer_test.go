package output_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdeck-labs/flowdeck/internal/cli/output"
	"github.com/flowdeck-labs/flowdeck/internal/cli/testutil"
)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want output.OutputMode
	}{
		{"text", output.ModeText},
		{"markdown", output.ModeMarkdown},
		{"json", output.ModeJSON},
		{"auto", output.ModeAuto},
		{"", output.ModeAuto},
		{"bogus", output.ModeAuto},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, output.Mode(tt.in), "Mode(%q)", tt.in)
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		mode output.OutputMode
		tty  bool
		want output.OutputMode
	}{
		{"auto on a terminal is text", output.ModeAuto, true, output.ModeText},
		{"auto piped is markdown", output.ModeAuto, false, output.ModeMarkdown},
		{"explicit text ignores tty", output.ModeText, false, output.ModeText},
		{"explicit json ignores tty", output.ModeJSON, true, output.ModeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := testutil.NewTestRenderer(tt.mode, tt.tty)
			assert.Equal(t, tt.want, tr.EffectiveMode())
		})
	}
}

func TestHeader(t *testing.T) {
	md := testutil.NewTestRendererMarkdown()
	md.Header("Flows (2 total)")
	assert.Equal(t, "# Flows (2 total)\n\n", md.Output())

	text := testutil.NewTestRendererText()
	text.Header("Flows (2 total)")
	assert.Equal(t, "Flows (2 total)\n", text.Output())
}

func TestTable_Markdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()

	tr.Table(
		[]string{"NAME", "SOURCE"},
		[][]string{
			{"triage", "local"},
			{"research/summarize", "tap:community"},
		},
	)

	out := tr.Output()
	assert.Contains(t, out, "| NAME")
	assert.Contains(t, out, "| triage")
	assert.Contains(t, out, "tap:community")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestTable_Text(t *testing.T) {
	tr := testutil.NewTestRendererText()

	tr.Table([]string{"NAME"}, [][]string{{"triage"}})

	out := tr.Output()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "triage")
}

func TestJSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()

	require.NoError(t, tr.JSON(map[string]string{"name": "triage"}))

	assert.Contains(t, tr.Output(), `"name": "triage"`)
	testutil.AssertNoANSI(t, tr.Output())
}

func TestErrorf(t *testing.T) {
	tr := testutil.NewTestRendererAuto()

	tr.Errorf("flow not found: %s", "nope")

	assert.Empty(t, tr.Output())
	assert.Equal(t, "Error: flow not found: nope\n", tr.ErrorOutput())
}

package cli

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/layout"
)

const forkCSV = `id,ancestor_list,origin_time,destruction_time,name
1,[NONE],0,,root
2,[1],10,,a
3,[1],20,50,b
`

const estimatesCSV = `from_id,to_id,configuration,lower_bound,upper_bound,confidence
2,3,cfgA,0,15,0.95
2,3,cfgB,5,15,0.9
`

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLayoutCommand(t *testing.T) {
	input := writeTemp(t, "fork.csv", forkCSV)
	if _, err := runCLI(t, "layout", input, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	l, err := layout.ReadFile(strings.TrimSuffix(input, ".csv") + ".layout.json")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"1": 0, "2": 0, "3": 1}
	for id, lane := range l.Lanes() {
		if want[id] != lane {
			t.Errorf("lane(%s) = %d, want %d", id, lane, want[id])
		}
	}
	if got := l.ExtantCount(); got != 2 {
		t.Errorf("extant = %d, want 2", got)
	}
}

func TestLayoutCommandFlagsOverrideConfig(t *testing.T) {
	input := writeTemp(t, "fork.csv", forkCSV)
	output := filepath.Join(t.TempDir(), "out.json")
	if _, err := runCLI(t, "layout", input, "--no-cache", "-e", "3", "-o", output); err != nil {
		t.Fatalf("layout: %v", err)
	}
	l, err := layout.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if l.Scale.Exponent != 3 {
		t.Errorf("exponent = %g, want 3", l.Scale.Exponent)
	}
}

func TestRescaleCommand(t *testing.T) {
	input := writeTemp(t, "fork.csv", forkCSV)
	if _, err := runCLI(t, "layout", input, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	path := strings.TrimSuffix(input, ".csv") + ".layout.json"
	before, _ := layout.ReadFile(path)

	if _, err := runCLI(t, "rescale", path, "-e", "2"); err != nil {
		t.Fatalf("rescale: %v", err)
	}
	after, err := layout.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if after.Scale.Exponent != 2 {
		t.Errorf("exponent = %g, want 2", after.Scale.Exponent)
	}
	for i, n := range after.Nodes {
		if n.Lane != before.Nodes[i].Lane {
			t.Errorf("%s moved from lane %d to %d", n.ID, before.Nodes[i].Lane, n.Lane)
		}
	}

	if _, err := runCLI(t, "rescale", path, "-e", "0.5"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("exponent 0.5: got %v, want INVALID_INPUT", err)
	}
}

func TestDotCommand(t *testing.T) {
	input := writeTemp(t, "fork.csv", forkCSV)
	if _, err := runCLI(t, "layout", input, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	got, err := runCLI(t, "dot", strings.TrimSuffix(input, ".csv")+".layout.json", "--labels")
	if err != nil {
		t.Fatalf("dot: %v", err)
	}
	for _, want := range []string{"digraph lineages {", `"1" -> "3";`, `xlabel="b"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestLookupCommand(t *testing.T) {
	est := writeTemp(t, "estimates.csv", estimatesCSV)

	got, err := runCLI(t, "lookup", est, "3", "2", "--config", "cfgA")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !strings.Contains(got, "[0, 15]") {
		t.Errorf("output missing bounds:\n%s", got)
	}

	if _, err := runCLI(t, "lookup", est, "2", "9", "--config", "cfgA"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing pair: got %v, want NOT_FOUND", err)
	}
	if _, err := runCLI(t, "lookup", est, "2", "3"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("no config: got %v, want INVALID_INPUT", err)
	}
}

func TestCheckCommand(t *testing.T) {
	records := writeTemp(t, "fork.csv", forkCSV)
	est := writeTemp(t, "estimates.csv", estimatesCSV)

	got, err := runCLI(t, "check", records, est, "--config", "cfgA", "--min", "1")
	if err != nil {
		t.Fatalf("check cfgA: %v", err)
	}
	if !strings.Contains(got, "100.0%") {
		t.Errorf("output missing full coverage:\n%s", got)
	}

	// cfgB's lower bound sits above the true MRCA origin at 0.
	if _, err := runCLI(t, "check", records, est, "--min", "0.5"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("all configurations: got %v, want INVALID_INPUT", err)
	}
}

func TestConfigAndCacheCommands(t *testing.T) {
	got, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "[scale]") {
		t.Errorf("config show missing [scale]:\n%s", got)
	}

	got, err = runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if dir := strings.TrimSpace(got); filepath.Base(dir) != appName {
		t.Errorf("cache path = %q, want a %s directory", dir, appName)
	}

	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Errorf("clearing an empty cache: %v", err)
	}
}

func TestLayoutPaths(t *testing.T) {
	tests := []struct {
		input, output string
		n             int
		want          []string
	}{
		{"data/run.csv", "", 1, []string{"data/run.layout.json"}},
		{"data/run.csv", "out.json", 1, []string{"out.json"}},
		{"data/run.csv", "", 2, []string{"data/run.1.layout.json", "data/run.2.layout.json"}},
		{"data/run.csv", "out.json", 2, []string{"out.1.json", "out.2.json"}},
	}
	for _, tt := range tests {
		got := layoutPaths(tt.input, tt.output, tt.n)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("layoutPaths(%q, %q, %d) = %v, want %v", tt.input, tt.output, tt.n, got, tt.want)
		}
	}
}

func TestExploreModel(t *testing.T) {
	l := layout.Layout{
		Root:  "1",
		Nodes: []layout.Node{
			{ID: "1", Lane: 0, Origin: 0, Destruction: 100},
			{ID: "3", Parent: "1", Lane: 1, Origin: 20, Destruction: 50},
			{ID: "2", Parent: "1", Lane: -1, Origin: 10, Destruction: 100},
		},
	}
	l.Scale.MaxObserved, l.Scale.RangeLow, l.Scale.RangeHigh, l.Scale.Exponent = 100, 1, 101, 2
	if err := l.Rescale(2); err != nil {
		t.Fatal(err)
	}

	m := newExploreModel(l)
	if got := []string{l.Nodes[m.order[0]].ID, l.Nodes[m.order[1]].ID, l.Nodes[m.order[2]].ID}; strings.Join(got, "") != "213" {
		t.Errorf("rows ordered %v, want by lane", got)
	}

	key := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }
	steps := []struct {
		msg  tea.Msg
		want float64
	}{
		{key("+"), 3},
		{key("]"), 3.1},
		{key("-"), 2.1},
		{key("["), 2},
		{key("-"), 1},
		{key("-"), 1}, // clamped
		{key("r"), 2},
	}
	for i, s := range steps {
		next, _ := m.Update(s.msg)
		m = next.(exploreModel)
		if got := m.layout.Scale.Exponent; got != s.want {
			t.Fatalf("step %d: exponent = %g, want %g", i, got, s.want)
		}
	}

	// Lanes never change while exploring.
	for i, n := range m.layout.Nodes {
		if n.Lane != l.Nodes[i].Lane {
			t.Errorf("%s moved to lane %d", n.ID, n.Lane)
		}
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 64, Height: 20})
	m = next.(exploreModel)
	if m.track != 40 {
		t.Errorf("track = %d, want 40", m.track)
	}
	// Ticks sit at fixed track positions; their times move with the curve.
	ticks := m.tickTimes()
	if len(ticks) != 5 || ticks[0] != 0 || math.Abs(ticks[4]-100) > 1e-9 {
		t.Fatalf("ticks = %v, want 0..100", ticks)
	}
	if want := 100 * math.Sqrt(0.5); math.Abs(ticks[2]-want) > 1e-9 {
		t.Errorf("middle tick = %g, want %g", ticks[2], want)
	}
	next, _ = m.Update(key("+"))
	m = next.(exploreModel)
	if want := 100 * math.Pow(0.5, 1.0/3); math.Abs(m.tickTimes()[2]-want) > 1e-9 {
		t.Errorf("middle tick at exponent 3 = %g, want %g", m.tickTimes()[2], want)
	}

	if v := m.View(); !strings.Contains(v, "Age Scale Explorer") || !strings.Contains(v, "79") {
		t.Errorf("view missing title:\n%s", v)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylolane/pkg/layout"
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "explore [layout.json]",
		Short: "Adjust the age-scale exponent interactively",
		Long: `Adjust the age-scale exponent interactively.

Each lineage is drawn as a bar in its lane order; moving the exponent
stretches or compresses recent history without moving any lineage to a
different lane. With --save the final exponent is written back to the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(newExploreModel(l), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			m := final.(exploreModel)
			if !save || m.layout.Scale.Exponent == m.initial {
				return nil
			}
			if err := layout.WriteFile(m.layout, args[0]); err != nil {
				return err
			}
			printSuccess("Saved exponent %s", formatFloat(m.layout.Scale.Exponent))
			printFile(args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write the final exponent back to the layout file")
	return cmd
}

// =============================================================================
// exploreModel - Interactive exponent explorer
// =============================================================================

const (
	exponentStep     = 1.0
	exponentFineStep = 0.1
	maxExponent      = 50.0
	rowPrefix        = 18 // "%-12s %4d " before each bar
)

// tickFractions are the track positions that carry an axis label.
var tickFractions = []float64{0, 0.25, 0.5, 0.75, 1}

var (
	styleBar       = lipgloss.NewStyle().Foreground(colorCyan)
	styleBarExtant = lipgloss.NewStyle().Foreground(colorGreen)
	styleTrack     = lipgloss.NewStyle().Foreground(colorDim)
)

type exploreModel struct {
	layout  layout.Layout
	order   []int // node indexes sorted by lane
	initial float64
	track   int // bar width in cells
	height  int // visible rows
	offset  int
	err     error
}

func newExploreModel(l layout.Layout) exploreModel {
	order := make([]int, len(l.Nodes))
	for i := range order {
		order[i] = i
	}
	// Stable by lane so lineages sharing a lane stay in pre-order.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && l.Nodes[order[j]].Lane < l.Nodes[order[j-1]].Lane; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return exploreModel{
		layout:  l,
		order:   order,
		initial: l.Scale.Exponent,
		track:   60,
		height:  20,
	}
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "+":
			m.setExponent(m.layout.Scale.Exponent + exponentStep)
		case "left", "h", "-":
			m.setExponent(m.layout.Scale.Exponent - exponentStep)
		case "]":
			m.setExponent(m.layout.Scale.Exponent + exponentFineStep)
		case "[":
			m.setExponent(m.layout.Scale.Exponent - exponentFineStep)
		case "r":
			m.setExponent(m.initial)
		case "down", "j":
			if m.offset+m.height < len(m.order) {
				m.offset++
			}
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		}
	case tea.WindowSizeMsg:
		m.track = max(10, msg.Width-24)
		m.height = max(3, msg.Height-7)
	}
	return m, nil
}

// setExponent clamps e to [1, maxExponent] and rescales. Rounding keeps
// repeated fine steps from accumulating float error.
func (m *exploreModel) setExponent(e float64) {
	e = math.Round(math.Min(math.Max(e, 1), maxExponent)*10) / 10
	m.err = m.layout.Rescale(e)
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Age Scale Explorer"))
	if m.layout.Treatment != "" {
		b.WriteString("  " + StyleDim.Render(m.layout.Treatment))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ exponent ±1  [/] ±0.1  r reset  ↑/↓ scroll  q quit"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "exponent %s   lineages %d   extant %d\n\n",
		StyleHighlight.Render(formatFloat(m.layout.Scale.Exponent)), len(m.layout.Nodes), m.layout.ExtantCount())

	b.WriteString(m.axis() + "\n")

	end := min(m.offset+m.height, len(m.order))
	for _, i := range m.order[m.offset:end] {
		n := m.layout.Nodes[i]
		fmt.Fprintf(&b, "%-12s %4d %s\n", truncate(n.ID, 12), n.Lane, m.bar(n))
	}
	if m.err != nil {
		b.WriteString("\n" + StyleError.Render(m.err.Error()) + "\n")
	}
	if len(m.order) > m.height {
		b.WriteString(StyleDim.Render(fmt.Sprintf("\n  [%d-%d/%d]", m.offset+1, end, len(m.order))))
	}
	return b.String()
}

// bar draws n's [X0, X1] span on a track covering the scale's range.
func (m exploreModel) bar(n layout.Node) string {
	lo, hi := m.layout.Scale.RangeLow, m.layout.Scale.RangeHigh
	cell := func(x float64) int {
		c := int(math.Round((x - lo) / (hi - lo) * float64(m.track-1)))
		return min(max(c, 0), m.track-1)
	}
	a, z := cell(n.X0), cell(n.X1)
	if a > z {
		a, z = z, a
	}
	style := styleBar
	if n.Extant {
		style = styleBarExtant
	}
	return styleTrack.Render(strings.Repeat("·", a)) +
		style.Render(strings.Repeat("━", z-a+1)) +
		styleTrack.Render(strings.Repeat("·", m.track-1-z))
}

// tickTimes returns the time under each tick, read back through the
// scale's inverse so labels follow the curve as the exponent changes.
func (m exploreModel) tickTimes() []float64 {
	age, err := m.layout.Scale.Age()
	if err != nil {
		return nil
	}
	lo, hi := age.Range()
	times := make([]float64, len(tickFractions))
	for i, f := range tickFractions {
		times[i] = age.Inverse(lo + f*(hi-lo))
	}
	return times
}

// axis renders the tick labels aligned with the bar track.
func (m exploreModel) axis() string {
	row := []rune(strings.Repeat(" ", m.track))
	next := 0
	for i, t := range m.tickTimes() {
		label := []rune(fmt.Sprintf("%.0f", t))
		col := int(math.Round(tickFractions[i] * float64(m.track-1)))
		col = min(col, m.track-len(label))
		if col < next || col < 0 {
			continue
		}
		copy(row[col:], label)
		next = col + len(label) + 1
	}
	return strings.Repeat(" ", rowPrefix) + styleTrack.Render(string(row))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

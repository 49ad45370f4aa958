package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/layout"
)

// DefaultLaneSpacing is the vertical distance between adjacent lanes.
const DefaultLaneSpacing = 10

// Options configure [ToDOT].
type Options struct {
	// Labels uses node labels instead of IDs when a label is set.
	Labels bool
	// LaneSpacing scales lane numbers to y coordinates. Zero means
	// DefaultLaneSpacing.
	LaneSpacing float64
}

// ToDOT converts a layout to Graphviz DOT. Nodes appear in layout order, so
// the output is deterministic for a given layout.
func ToDOT(l layout.Layout, opts Options) string {
	spacing := opts.LaneSpacing
	if spacing == 0 {
		spacing = DefaultLaneSpacing
	}

	var buf bytes.Buffer
	buf.WriteString("digraph lineages {\n")
	if l.Treatment != "" {
		fmt.Fprintf(&buf, "  label=%s;\n", quote(l.Treatment))
	}
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=point];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := []string{
			fmt.Sprintf("pos=\"%s,%s!\"", num(n.X0), num(float64(n.Lane)*spacing)),
			"lane=" + strconv.Itoa(n.Lane),
			fmt.Sprintf("span=\"%s,%s\"", num(n.X0), num(n.X1)),
		}
		if opts.Labels && n.Label != "" {
			attrs = append(attrs, "xlabel=" + quote(n.Label))
		}
		if n.Extant {
			attrs = append(attrs, "extant=true")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range l.Nodes {
		if n.Parent != "" {
			fmt.Fprintf(&buf, "  %s -> %s;\n", quote(n.Parent), quote(n.ID))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotEscaper escapes the two characters that are special inside a DOT
// double-quoted string. Everything else, including non-ASCII text and
// newlines, is legal as is.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Validate parses dot with Graphviz and reports syntax errors as
// INVALID_FORMAT.
func Validate(dot string) error {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()
	return nil
}

// XDOT runs Graphviz layout over dot and returns the annotated xdot text,
// which carries the drawing operations a renderer needs.
func XDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render xdot: %w", err)
	}
	return buf.Bytes(), nil
}

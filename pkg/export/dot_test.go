package export

import (
	"context"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/layout"
	"github.com/matzehuels/phylolane/pkg/scale"
)

func forkLayout() layout.Layout {
	return layout.Layout{
		Treatment: "t1",
		Scale:     scale.DefaultParams(),
		Root:      "1",
		Nodes: []layout.Node{
			{ID: "1", Origin: 0, Destruction: 100, Lane: 0, X0: 1, X1: 100.5},
			{ID: "2", Parent: "1", Label: "alpha", Depth: 1, Origin: 10, Destruction: 5000, Lane: 0, X0: 10, X1: 638, Extant: true},
			{ID: "3", Parent: "1", Label: "beta", Depth: 1, Origin: 20, Destruction: 5000, Lane: -1, X0: 20.25, X1: 638, Extant: true},
		},
	}
}

func TestToDOTGolden(t *testing.T) {
	dot := ToDOT(forkLayout(), Options{Labels: true})

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "fork", []byte(dot))
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(forkLayout(), Options{LaneSpacing: 2.5})
	if strings.Contains(dot, "xlabel") {
		t.Error("labels should be omitted unless requested")
	}
	if !strings.Contains(dot, `pos="20.25,-2.5!"`) {
		t.Errorf("lane spacing not applied:\n%s", dot)
	}

	l := forkLayout()
	l.Treatment = ""
	if dot := ToDOT(l, Options{}); strings.Contains(dot, "label=") {
		t.Error("graph label should be omitted without a treatment")
	}
}

func TestToDOTQuoting(t *testing.T) {
	l := forkLayout()
	l.Treatment = "élite\tset"
	l.Nodes[1].Label = `say "hi" \ Ωmega`
	l.Nodes[2].ID = `b"3`

	dot := ToDOT(l, Options{Labels: true})
	for _, want := range []string{
		"label=\"élite\tset\";",
		`xlabel="say \"hi\" \\ Ωmega"`,
		`"1" -> "b\"3";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %s in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `\u`) || strings.Contains(dot, `\x`) || strings.Contains(dot, `\t`) {
		t.Errorf("Go escape sequences leaked into DOT:\n%s", dot)
	}
	if err := Validate(dot); err != nil {
		t.Errorf("Validate error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(ToDOT(forkLayout(), Options{Labels: true})); err != nil {
		t.Errorf("Validate(ToDOT) error = %v", err)
	}
	if err := Validate("digraph { a -> "); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Validate(broken) error = %v, want INVALID_FORMAT", err)
	}
}

func TestXDOT(t *testing.T) {
	out, err := XDOT(context.Background(), ToDOT(forkLayout(), Options{}))
	if err != nil {
		t.Fatalf("XDOT() error = %v", err)
	}
	if !strings.Contains(string(out), "lineages") {
		t.Errorf("XDOT() output missing graph name:\n%s", out)
	}
}

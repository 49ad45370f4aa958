package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.2.3"
	info := Get()
	if info.Version != "v1.2.3" {
		t.Errorf("Version = %q, want ldflags value", info.Version)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if !strings.Contains(Template(), "v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
}

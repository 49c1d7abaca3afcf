package version

import (
	"strings"
	"testing"
)

func TestVersionPopulated(t *testing.T) {
	if Version == "" {
		t.Error("Version should never be empty after init")
	}
	if Commit == "" {
		t.Error("Commit should never be empty after init")
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.Contains(full, Version) || !strings.Contains(full, "commit: "+Commit) {
		t.Errorf("Full() = %q", full)
	}
}

func TestGet(t *testing.T) {
	d := Get()
	if d.Version != Version || d.Commit != Commit {
		t.Errorf("Get() = %+v", d)
	}
	if !strings.HasPrefix(d.GoVersion, "go") && !strings.HasPrefix(d.GoVersion, "devel") {
		t.Errorf("GoVersion = %q", d.GoVersion)
	}
}

package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "precon "+GetVersion()) {
		t.Errorf("String() = %q, want prefix %q", s, "precon "+GetVersion())
	}
	if !strings.Contains(s, Commit) {
		t.Errorf("String() = %q, missing commit", s)
	}
}

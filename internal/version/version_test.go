package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should not be empty")
	}
	if !strings.Contains(String(), Version) {
		t.Errorf("String() = %q should contain version %q", String(), Version)
	}
}

func TestUserAgent(t *testing.T) {
	if !strings.HasPrefix(UserAgent(), "doclinks/") {
		t.Errorf("unexpected user agent %q", UserAgent())
	}
}

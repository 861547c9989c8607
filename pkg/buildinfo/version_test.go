package buildinfo

import (
	"strings"
	"testing"
)

func TestUserAgentCarriesVersion(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })

	got := UserAgent()
	if !strings.HasPrefix(got, "cratescore/v1.2.3 ") {
		t.Errorf("UserAgent() = %q", got)
	}
	if !strings.Contains(got, "https://github.com/matzehuels/cratescore") {
		t.Errorf("UserAgent() = %q, want a contact URL", got)
	}
}

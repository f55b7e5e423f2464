package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	tmpl := Template()
	for _, want := range []string{"{{.Name}} version " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() missing %q:\n%s", want, tmpl)
		}
	}
}

func TestString(t *testing.T) {
	if got := String(); !strings.HasPrefix(got, "version: "+Version+"\n") {
		t.Errorf("String() = %q", got)
	}
}

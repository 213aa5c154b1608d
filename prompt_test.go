package avatargen

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("  Kant ", "")
	if !strings.Contains(got, "portrait avatar of Kant,") {
		t.Errorf("prompt should name the trimmed author: %q", got)
	}
	if !strings.Contains(got, "Style: "+DefaultStyle+".") {
		t.Errorf("empty style should fall back to DefaultStyle: %q", got)
	}

	custom := BuildPrompt("Kant", "pencil sketch.")
	if !strings.HasSuffix(custom, "Style: pencil sketch.") {
		t.Errorf("custom style should end the prompt once: %q", custom)
	}
}

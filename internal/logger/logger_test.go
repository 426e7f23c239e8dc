package logger

import (
	"bytes"
	"os"
	"testing"
)

// captureStdout redirects stdout for the duration of fn and returns what was printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestTaggedLevels(t *testing.T) {
	out := captureStdout(t, func() {
		Info("FETCH", "downloading")
		Success("FETCH", "done")
		Warn("CACHE", "stale")
		Error("DB", "open failed")
	})
	for _, want := range []string{"FETCH", "CACHE", "DB", "downloading", "open failed"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBannerDefaultsVersion(t *testing.T) {
	out := captureStdout(t, func() { Banner("") })
	if !bytes.Contains([]byte(out), []byte("dev")) {
		t.Errorf("empty version should print dev, got %q", out)
	}
}

func TestSectionAndStats(t *testing.T) {
	out := captureStdout(t, func() {
		Section("Results")
		Stats("tangent return", 0.0012)
	})
	if !bytes.Contains([]byte(out), []byte("Results")) {
		t.Errorf("missing section title: %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("0.0012")) {
		t.Errorf("missing stats value: %q", out)
	}
}

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintResponse(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := printResponse(&buf, 48000); err != nil {
		t.Fatalf("printResponse: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"panner: azimuth -180.0 deg, elevation 68.2 deg",
		"SHELF (dB)",
		"compressor makeup",
		"output gain: +12.0 dB",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

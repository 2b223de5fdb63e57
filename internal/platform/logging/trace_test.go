package logging

import "testing"

func TestParseTraceparent(t *testing.T) {
	tests := []struct {
		header  string
		ok      bool
		sampled bool
	}{
		{"00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-01", true, true},
		{"00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-00", true, false},
		{"00-short-d21f7bc17caa5aba-01", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		tc, ok := parseTraceparent(tt.header)
		if ok != tt.ok {
			t.Errorf("parseTraceparent(%q) ok = %v, want %v", tt.header, ok, tt.ok)
			continue
		}
		if ok && tc.Sampled != tt.sampled {
			t.Errorf("parseTraceparent(%q) sampled = %v, want %v", tt.header, tc.Sampled, tt.sampled)
		}
	}
}

func TestTraceFields(t *testing.T) {
	tc, _ := parseTraceparent("00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-01")

	if fields := tc.fields(""); fields != nil {
		t.Errorf("expected no fields without project ID, got %v", fields)
	}
	fields := tc.fields("demo")
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].String != "projects/demo/traces/ab42124a3c573678d4d8b21ba52df3bf" {
		t.Errorf("unexpected trace resource %q", fields[0].String)
	}
	if fields[1].String != "d21f7bc17caa5aba" {
		t.Errorf("unexpected span ID %q", fields[1].String)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "", "b", "c"); got != "b" {
		t.Errorf("expected b, got %q", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

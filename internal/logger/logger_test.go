package logger

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		wantNil bool
		want    string
	}{
		{"debug", false, "debug"},
		{"info", false, "info"},
		{"warn", false, "warn"},
		{"error", false, "error"},
		{"verbose", true, ""},
		{"", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseLevel(tt.in)
			if tt.wantNil {
				if got != nil {
					t.Errorf("parseLevel(%q) = %v, want nil", tt.in, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("parseLevel(%q) = nil", tt.in)
			}
			if got.String() != tt.want {
				t.Errorf("parseLevel(%q) = %q, want %q", tt.in, got.String(), tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, pretty := range []bool{true, false} {
		l, err := New("info", pretty)
		if err != nil {
			t.Fatalf("New(pretty=%v) returned error: %v", pretty, err)
		}
		child := l.With(String("component", "test"))
		child.Info("hello", Int("n", 1), Int64("id", 2), Bool("ok", true))
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("discarded", Error(nil))
	l.With(String("k", "v")).Debugf("discarded %d", 1)
}

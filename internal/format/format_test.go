package format

import (
	"testing"
	"time"
)

func TestTelHref(t *testing.T) {
	cases := map[string]string{
		"+1 (305) 555-0148": "tel:+13055550148",
		"(305) 555-0148":    "tel:3055550148",
		"305.555.0148 x2":   "tel:30555501482",
		"":                  "",
		"call us":           "",
	}
	for in, want := range cases {
		if got := TelHref(in); got != want {
			t.Errorf("TelHref(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := map[string]string{
		"+13055550148":       "(305) 555-0148",
		"3055550148":         "(305) 555-0148",
		"1-305-555-0148":     "(305) 555-0148",
		" +44 20 7946 0958 ": "+44 20 7946 0958",
	}
	for in, want := range cases {
		if got := Phone(in); got != want {
			t.Errorf("Phone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	if got := Date(d); got != "Mar 7, 2025" {
		t.Fatalf("unexpected date %q", got)
	}
	if got := ISODate(d); got != "2025-03-07" {
		t.Fatalf("unexpected iso date %q", got)
	}
	if Date(time.Time{}) != "" || ISODate(time.Time{}) != "" {
		t.Fatal("zero time should format empty")
	}
}

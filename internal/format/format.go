package format

import (
	"strings"
	"time"
)

// TelHref builds a tel: URI from any human-entered number, keeping a leading plus and digits.
// Example: TelHref("(305) 555-0148") => "tel:3055550148"
func TelHref(number string) string {
	digits := telDigits(number)
	if digits == "" {
		return ""
	}
	return "tel:" + digits
}

// Phone formats a NANP number for display. Numbers that are not 10 digits (or 11 with a
// leading 1) are returned trimmed but otherwise untouched.
// Example: Phone("+13055550148") => "(305) 555-0148"
func Phone(number string) string {
	d := strings.TrimPrefix(telDigits(number), "+")
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return strings.TrimSpace(number)
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

func telDigits(number string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(number) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Date formats time in a short US form, e.g. "Jan 2, 2006". Zero times yield "".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// ISODate formats time as YYYY-MM-DD, e.g. for sitemap lastmod values.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

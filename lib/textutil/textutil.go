package textutil

import (
	"fmt"
	"strings"
	"time"
)

// Rot13 applies the ROT13 substitution to ASCII letters, leaving
// everything else alone. Hints on the cache page are stored enciphered.
func Rot13(s string) string {
	out := strings.Builder{}
	out.Grow(len(s))
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
			c = 'a' + (c-'a'+13)%26
		case c >= 'A' && c <= 'Z':
			c = 'A' + (c-'A'+13)%26
		}
		out.WriteRune(c)
	}
	return out.String()
}

// the numeric date layouts the site is known to serve, tried in order
var dateLayouts = []string{
	"01/02/2006",
	"02/01/2006",
	"2006-01-02",
	"2006/02/01",
	"2006/01/02",
	"02.01.2006",
	"1/2/2006",
}

// ParseDate reads a date in any of the site's numeric layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, s)
		if err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date from %q", s)
}

// longer tokens first so e.g. "yyyy" is not eaten as two "yy"
var dateFormatTokens = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"M", "1",
	"dd", "02",
	"d", "2",
)

// FormatDate renders a date per a user-preference format hint such as
// "dd/MM/yyyy", as shown on the log submission page.
func FormatDate(d time.Time, userFormat string) string {
	return d.Format(dateFormatTokens.Replace(userFormat))
}

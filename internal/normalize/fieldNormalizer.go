// Package normalize parses dates, emails and phone numbers out of legacy
// values and free text. All matching is first-match-wins over fixed,
// ordered pattern lists; the order is migration policy, not an
// implementation detail, and changing it changes which records come out.
package normalize

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrUnparseableDate = errors.New("unparseable date")

// dateLayouts is tried strictly in order and the first successful parse
// wins. Ambiguous values like 01/02/2020 therefore resolve to DD/MM/YYYY
// because that layout comes before MM/DD/YYYY. Legacy exports depend on
// this ordering; do not reorder.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
	"02.01.2006",
}

// ParseDate converts a legacy date value to a time.Time by trying each
// supported layout in order.
func ParseDate(candidate string) (time.Time, error) {
	trimmed := strings.TrimSpace(candidate)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, ErrUnparseableDate
}

// Labeled extraction patterns, ordered most specific first. The labels are
// Portuguese because that is what the legacy records contain.
var birthDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)nascimento[:\s]+(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`),
	regexp.MustCompile(`(?i)nasceu[:\s]+(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`),
	regexp.MustCompile(`(?i)data.*nascimento[:\s]+(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`),
}

var emailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)email[:\s]+([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)e-mail[:\s]+([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`),
}

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)telefone[:\s]+(\+?[\d\s\-()]{9,15})`),
	regexp.MustCompile(`(?i)telemóvel[:\s]+(\+?[\d\s\-()]{9,15})`),
	regexp.MustCompile(`(?i)contacto[:\s]+(\+?[\d\s\-()]{9,15})`),
}

// BirthDateFromText scans free text for a labeled birth date phrase and
// returns the first match, disambiguated by segment width.
func BirthDateFromText(text string) (time.Time, bool) {
	for _, pattern := range birthDatePatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			if parsed, err := disambiguateToken(match[1]); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func ExtractEmail(text string) (string, bool) {
	return firstCapture(emailPatterns, text)
}

func ExtractPhone(text string) (string, bool) {
	return firstCapture(phonePatterns, text)
}

func firstCapture(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, pattern := range patterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1]), true
		}
	}
	return "", false
}

// Unlabeled date tokens, used for appointment dates. This search is
// independent of the labeled birth-date pass above: it picks up any
// numeric token shaped like a date, anywhere in the text, and may
// therefore false-positive on unrelated numbers. Inherited behaviour.
var anyDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[/\-]\d{1,2}[/\-]\d{4}`),
	regexp.MustCompile(`\d{4}[/\-]\d{1,2}[/\-]\d{1,2}`),
}

// AnyDateFromText returns the first date-shaped token found in the text.
// Only the first token per pattern is attempted; an unparseable one falls
// through to the next pattern, not to later tokens of the same shape.
func AnyDateFromText(text string) (time.Time, bool) {
	for _, pattern := range anyDatePatterns {
		token := pattern.FindString(text)
		if token == "" {
			continue
		}
		if parsed, err := disambiguateToken(token); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// disambiguateToken resolves the year position of a D/M/Y-ish token: a
// 4-digit first segment means YYYY/MM/DD, anything else means DD/MM/YYYY.
func disambiguateToken(token string) (time.Time, error) {
	separator := "/"
	if !strings.Contains(token, "/") {
		separator = "-"
	}
	parts := strings.Split(token, separator)
	if len(parts) != 3 {
		return time.Time{}, ErrUnparseableDate
	}

	var year, month, day int
	var err error
	if len(parts[0]) == 4 {
		year, month, day, err = atoi3(parts[0], parts[1], parts[2])
	} else {
		day, month, year, err = atoi3(parts[0], parts[1], parts[2])
	}
	if err != nil {
		return time.Time{}, ErrUnparseableDate
	}
	// time.Date would normalize an impossible day into the next month, so
	// the day is checked against the real month length first.
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, ErrUnparseableDate
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atoi3(a, b, c string) (int, int, int, error) {
	first, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, 0, err
	}
	second, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, 0, err
	}
	third, err := strconv.Atoi(c)
	if err != nil {
		return 0, 0, 0, err
	}
	return first, second, third, nil
}

package parse

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/geophoto-tracker/constants"
)

// DateTimeMatcher recognizes one date/time notation. Match returns false
// when the notation is absent or yields an invalid calendar value.
type DateTimeMatcher interface {
	Name() string
	Match(text string) (time.Time, bool)
}

// DateTimeRecognizer tries its matchers in order and keeps the first success.
// Results are never merged across matchers.
type DateTimeRecognizer struct {
	matchers []DateTimeMatcher
	logger   *slog.Logger
}

// NewDateTimeRecognizer builds a recognizer with the given matchers, or the
// default order (month-name form, then numeric slash form) when none are given.
func NewDateTimeRecognizer(logger *slog.Logger, matchers ...DateTimeMatcher) *DateTimeRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(matchers) == 0 {
		matchers = []DateTimeMatcher{MonthNameMatcher{}, NumericMatcher{}}
	}
	return &DateTimeRecognizer{matchers: matchers, logger: logger}
}

// Find returns the first recognized point in time.
func (r *DateTimeRecognizer) Find(text string) (time.Time, bool) {
	for _, m := range r.matchers {
		if t, ok := m.Match(text); ok {
			r.logger.Info("datetime pattern matched", "pattern", m.Name(), "value", t.Format(constants.TimestampLayout))
			return t, true
		}
		r.logger.Debug("datetime pattern did not match", "pattern", m.Name())
	}
	r.logger.Info("no known datetime pattern found in text")
	return time.Time{}, false
}

var monthPrefixes = map[string]time.Month{
	"jan": time.January, "fev": time.February, "mar": time.March, "abr": time.April,
	"mai": time.May, "jun": time.June, "jul": time.July, "ago": time.August,
	"set": time.September, "out": time.October, "nov": time.November, "dez": time.December,
}

var (
	reMonthName = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:de\s*)?([a-z]{3,})\.?\s*(?:de\s*)?(\d{4})\s*.*?(\d{2}:\d{2}(?::\d{2})?)`)
	reNumeric   = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s*(\d{2}:\d{2}(?::\d{2})?)`)
)

// MonthNameMatcher handles "15 de nov. de 2024 ... 14:30[:00]".
// Only the first occurrence in the text is considered.
type MonthNameMatcher struct{}

func (MonthNameMatcher) Name() string { return "day-monthname-year" }

func (MonthNameMatcher) Match(text string) (time.Time, bool) {
	m := reMonthName.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthPrefixes[strings.ToLower(m[2])[:3]]
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	h, mi, s, ok := splitClock(m[4])
	if !ok {
		return time.Time{}, false
	}
	return buildDate(year, month, day, h, mi, s)
}

// NumericMatcher handles "DD/MM/YYYY HH:MM[:SS]".
type NumericMatcher struct{}

func (NumericMatcher) Name() string { return "dd/mm/yyyy" }

func (NumericMatcher) Match(text string) (time.Time, bool) {
	m := reNumeric.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	clock := m[2]
	if len(clock) == 5 {
		clock += ":00"
	}
	t, err := time.Parse(constants.TimestampLayout, m[1]+" "+clock)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// splitClock parses HH:MM or HH:MM:SS; seconds default to zero.
func splitClock(s string) (h, m, sec int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, false
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], true
}

// buildDate rejects values time.Date would silently normalize.
func buildDate(year int, month time.Month, day, h, m, s int) (time.Time, bool) {
	if year < 1 || day < 1 || h > 23 || m > 59 || s > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, h, m, s, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// FormatTimestamp renders t in the canonical record layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(constants.TimestampLayout)
}

// FindDateTime runs the default matchers over text, logging to slog.Default().
func FindDateTime(text string) (time.Time, bool) {
	return NewDateTimeRecognizer(nil).Find(text)
}

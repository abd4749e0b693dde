package parse

import (
	"testing"
	"time"
)

func TestDateTimeRecognizerFind(t *testing.T) {
	r := NewDateTimeRecognizer(nil)
	tests := []struct {
		name string
		text string
		want time.Time
		ok   bool
	}{
		{
			name: "month name with seconds",
			text: "15 de nov de 2024 14:30:00\n-6,7542S -51,0718W",
			want: time.Date(2024, time.November, 15, 14, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "month name abbreviated with dot and no seconds",
			text: "3 set. 2023 08:05",
			want: time.Date(2023, time.September, 3, 8, 5, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "full month name with de",
			text: "7 de dezembro de 2022 às 23:59:59",
			want: time.Date(2022, time.December, 7, 23, 59, 59, 0, time.UTC),
			ok:   true,
		},
		{
			name: "uppercase month starting with de loses its prefix",
			text: "7 DEZEMBRO 2022 às 23:59:59",
			ok:   false,
		},
		{
			name: "numeric form",
			text: "foto tirada 05/03/2024 09:15",
			want: time.Date(2024, time.March, 5, 9, 15, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "month name preferred over numeric",
			text: "01/02/2023 10:00:00\n15 de nov de 2024 14:30:00",
			want: time.Date(2024, time.November, 15, 14, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "unknown month falls through to numeric",
			text: "15 de xyz de 2024 14:30:00 and 20/10/2024 11:11:11",
			want: time.Date(2024, time.October, 20, 11, 11, 11, 0, time.UTC),
			ok:   true,
		},
		{
			name: "invalid day falls through",
			text: "31 de fev de 2024 10:00:00",
			ok:   false,
		},
		{
			name: "invalid numeric date",
			text: "30/02/2024 10:00:00",
			ok:   false,
		},
		{
			name: "no date",
			text: "-6,7542S -51,0718W\n#Oia Giro",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Find(tt.text)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (got %v)", ok, tt.ok, got)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

type stubMatcher struct {
	name  string
	t     time.Time
	ok    bool
	calls *int
}

func (s stubMatcher) Name() string { return s.name }

func (s stubMatcher) Match(string) (time.Time, bool) {
	*s.calls++
	return s.t, s.ok
}

func TestDateTimeRecognizerStopsAtFirstMatch(t *testing.T) {
	var first, second int
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewDateTimeRecognizer(nil,
		stubMatcher{name: "a", t: want, ok: true, calls: &first},
		stubMatcher{name: "b", t: time.Now(), ok: true, calls: &second},
	)
	got, ok := r.Find("anything")
	if !ok || !got.Equal(want) {
		t.Fatalf("got %v %v, want %v", got, ok, want)
	}
	if first != 1 || second != 0 {
		t.Errorf("calls = (%d, %d), want (1, 0)", first, second)
	}
}

func TestFormatTimestamp(t *testing.T) {
	got := FormatTimestamp(time.Date(2024, time.November, 15, 14, 30, 0, 0, time.UTC))
	if got != "15/11/2024 14:30:00" {
		t.Errorf("got %q", got)
	}
}

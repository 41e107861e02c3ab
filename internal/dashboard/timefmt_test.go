package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Relative(t *testing.T) {
	f := NewFormatter(wib, EnglishLocale())
	now := time.Date(2024, 1, 15, 17, 0, 0, 0, wib)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"zero", 0, "just now"},
		{"seconds", 59 * time.Second, "just now"},
		{"one minute", time.Minute, "1 minutes ago"},
		{"five minutes", 5 * time.Minute, "5 minutes ago"},
		{"floors minutes", 59*time.Minute + 59*time.Second, "59 minutes ago"},
		{"one hour", time.Hour, "1 hours ago"},
		{"ninety minutes", 90 * time.Minute, "1 hours ago"},
		{"just under a day", 23*time.Hour + 59*time.Minute, "23 hours ago"},
		{"one day", 24 * time.Hour, "14 Jan 2024 17:00"},
		{"twenty-five hours", 25 * time.Hour, "14 Jan 2024 16:00"},
		{"future", -10 * time.Minute, "just now"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.Relative(now.Add(-tc.elapsed), now))
		})
	}
}

func TestFormatter_UsesConfiguredLocation(t *testing.T) {
	f := NewFormatter(wib, EnglishLocale())
	ts := time.Date(2024, 1, 15, 0, 30, 0, 0, time.UTC)

	assert.Equal(t, "15 Jan 2024 07:30", f.Absolute(ts))
	assert.Equal(t, "07:30", f.Clock(ts))
}

func TestFormatter_Layouts(t *testing.T) {
	f := NewFormatter(wib, EnglishLocale())
	ts := time.Date(2024, 8, 5, 9, 7, 0, 0, wib)

	assert.Equal(t, "05 Aug 2024 09:07", f.Absolute(ts))
	assert.Equal(t, "05 Aug 2024, 09:07", f.Medium(ts))
	assert.Equal(t, "05 August 2024, 09:07", f.Long(ts))
}

func TestFormatter_Indonesian(t *testing.T) {
	locale, err := LookupLocale("id")
	require.NoError(t, err)
	f := NewFormatter(wib, locale)
	now := time.Date(2024, 8, 17, 10, 0, 0, 0, wib)

	assert.Equal(t, "Baru saja", f.Relative(now, now))
	assert.Equal(t, "5 menit lalu", f.Relative(now.Add(-5*time.Minute), now))
	assert.Equal(t, "2 jam lalu", f.Relative(now.Add(-150*time.Minute), now))
	assert.Equal(t, "15 Agt 2024 10:00", f.Relative(now.Add(-48*time.Hour), now))
	assert.Equal(t, "17 Agustus 2024, 10:00", f.Long(now))
}

func TestNewFormatter_NilLocationDefaultsToUTC(t *testing.T) {
	f := NewFormatter(nil, EnglishLocale())
	assert.Equal(t, time.UTC, f.Location())
}

func TestLookupLocale_Unknown(t *testing.T) {
	_, err := LookupLocale("fr")
	assert.Error(t, err)
}

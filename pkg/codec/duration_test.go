package codec_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growmygarden/verdant/pkg/codec"
)

func TestFormatISODuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "PT0S"},
		{72 * time.Hour, "PT72H"},
		{90 * time.Minute, "PT1H30M"},
		{30 * 24 * time.Hour, "PT720H"},
		{time.Second + 500*time.Millisecond, "PT1.5S"},
		{2*time.Hour + 45*time.Second, "PT2H45S"},
	}

	for _, tc := range cases {
		got, err := codec.FormatISODuration(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "duration %s", tc.in)
	}
}

func TestFormatISODurationRejectsNegative(t *testing.T) {
	_, err := codec.FormatISODuration(-time.Hour)
	assert.ErrorIs(t, err, codec.ErrNegativeDuration)
}

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"PT0S", 0},
		{"PT72H", 72 * time.Hour},
		{"PT1H30M", 90 * time.Minute},
		{"P3D", 72 * time.Hour},
		{"P1DT12H", 36 * time.Hour},
		{"PT1.5S", time.Second + 500*time.Millisecond},
	}

	for _, tc := range cases {
		got, err := codec.ParseISODuration(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseISODurationRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "P", "PT", "72h", "PT-5H", "-PT5H", "banana"} {
		_, err := codec.ParseISODuration(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestDurationRoundTripsExactly(t *testing.T) {
	for _, d := range []time.Duration{
		0,
		time.Minute,
		72 * time.Hour,
		30*24*time.Hour + 5*time.Minute,
		time.Second + 250*time.Millisecond,
	} {
		encoded, err := json.Marshal(codec.Duration(d))
		require.NoError(t, err)

		var back codec.Duration
		require.NoError(t, json.Unmarshal(encoded, &back))
		assert.Equal(t, d, back.Std(), "duration %s must survive a round trip", d)
	}
}

func TestDurationUnmarshalRejectsNumbers(t *testing.T) {
	var d codec.Duration
	assert.Error(t, d.UnmarshalJSON([]byte("3600")), "raw tick counts are not a valid wire form")
}

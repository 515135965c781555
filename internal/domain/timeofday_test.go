package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	parsed, err := ParseTimeOfDay("10:30")
	require.NoError(t, err)
	assert.Equal(t, 630, parsed.Minutes())
	assert.Equal(t, "10:30", parsed.String())

	midnight, err := ParseTimeOfDay("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, midnight.Minutes())

	lastMinute, err := ParseTimeOfDay("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, lastMinute.Minutes())

	for _, invalid := range []string{"24:00", "10:60", "-1:00", "noon", ""} {
		_, err := ParseTimeOfDay(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestTimeOfDayArithmetic(t *testing.T) {
	open := MinutesOfDay(10, 0)
	close := MinutesOfDay(22, 0)

	assert.True(t, open.Before(close))
	assert.False(t, close.Before(open))
	assert.False(t, open.Before(open))
	assert.Equal(t, 720, close.Sub(open))
}

func TestTimeOfDayJSON(t *testing.T) {
	encoded, err := json.Marshal(MinutesOfDay(9, 5))
	require.NoError(t, err)
	assert.Equal(t, `"09:05"`, string(encoded))

	var decoded TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"17:45"`), &decoded))
	assert.Equal(t, MinutesOfDay(17, 45), decoded)

	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`1065`), &decoded))
}

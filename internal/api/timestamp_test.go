package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-04-25T10:00:00Z", time.Date(2025, 4, 25, 10, 0, 0, 0, time.UTC)},
		{"2025-04-25T10:00:00.123456", time.Date(2025, 4, 25, 10, 0, 0, 123456000, time.UTC)},
		{"2025-04-25 10:00:00", time.Date(2025, 4, 25, 10, 0, 0, 0, time.UTC)},
		{"2025-04-25 10:30", time.Date(2025, 4, 25, 10, 30, 0, 0, time.UTC)},
		{"2025-04-25T10:30", time.Date(2025, 4, 25, 10, 30, 0, 0, time.UTC)},
		{"2025-04-25", time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	_, err := ParseTimestamp("25.04.2025")
	assert.Error(t, err)
}

func TestTimestampJSON(t *testing.T) {
	var v struct {
		At   Timestamp `json:"at"`
		None Timestamp `json:"none"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2025-04-25T10:00:00+03:00","none":null}`), &v))
	assert.Equal(t, 7, v.At.UTC().Hour())
	assert.True(t, v.None.IsZero())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2025-04-25T10:00:00+03:00","none":null}`, string(out))
}

package wire_test

import (
	"encoding/json"
	"testing"

	"github.com/learnapp/learn-client/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLossyInt_Decode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		present bool
	}{
		{"native int", `7`, 7, true},
		{"numeric string", `"42"`, 42, true},
		{"padded numeric string", `"  42  "`, 42, true},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"non-numeric string", `"abc"`, 0, false},
		{"float", `3.5`, 0, false},
		{"object", `{}`, 0, false},
		{"array", `[1,2]`, 0, false},
		{"bool", `true`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l wire.LossyInt
			err := json.Unmarshal([]byte(tt.input), &l)
			require.NoError(t, err)

			got, ok := l.Get()
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLossyFloat_Decode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		present bool
	}{
		{"native float", `3.25`, 3.25, true},
		{"native int widened", `7`, 7.0, true},
		{"numeric string", `"2.5"`, 2.5, true},
		{"null", `null`, 0, false},
		{"non-numeric string", `"high"`, 0, false},
		{"object", `{}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l wire.LossyFloat
			err := json.Unmarshal([]byte(tt.input), &l)
			require.NoError(t, err)

			got, ok := l.Get()
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestLossyString_Decode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		present bool
	}{
		{"string", `"medium"`, "medium", true},
		{"escaped string", `"a\"b"`, `a"b`, true},
		{"int stringified", `3`, "3", true},
		{"float stringified", `3.5`, "3.5", true},
		{"bool true", `true`, "true", true},
		{"bool false", `false`, "false", true},
		{"null", `null`, "", false},
		{"object", `{"a":1}`, "", false},
		{"array", `["x"]`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l wire.LossyString
			err := json.Unmarshal([]byte(tt.input), &l)
			require.NoError(t, err)

			got, ok := l.Get()
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLossy_NeverFailsInsideRecord(t *testing.T) {
	// A malformed scalar degrades to absent without aborting the record
	raw := `{
		"id": 12,
		"name": "Sortiernetzwerk",
		"type": "unplugged",
		"age_min": {"bad": "shape"},
		"age_max": "9",
		"duration_min_minutes": "20",
		"mental_load": 2,
		"resources_needed": ["handouts"],
		"topics": ["algorithms"]
	}`

	var activity wire.Activity
	require.NoError(t, json.Unmarshal([]byte(raw), &activity))

	assert.Equal(t, 12, activity.ID)
	_, ok := activity.AgeMin.Get()
	assert.False(t, ok)
	assert.Equal(t, 9, activity.AgeMax.Or(0))
	assert.Equal(t, 20, activity.DurationMinMinutes.Or(0))
	assert.Equal(t, "2", activity.MentalLoad.Or(""))
}

func TestLossy_OrAndPtr(t *testing.T) {
	var absent wire.LossyInt
	require.NoError(t, json.Unmarshal([]byte(`null`), &absent))
	assert.Equal(t, 99, absent.Or(99))
	assert.Nil(t, absent.Ptr())

	var present wire.LossyInt
	require.NoError(t, json.Unmarshal([]byte(`5`), &present))
	assert.Equal(t, 5, present.Or(99))
	require.NotNil(t, present.Ptr())
	assert.Equal(t, 5, *present.Ptr())
}

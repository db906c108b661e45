package openf1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoints(t *testing.T) {
	eps := Endpoints()
	assert.Len(t, eps, 16)
	names := make([]string, 0, len(eps))
	for _, e := range eps {
		names = append(names, e.Name)
	}
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "session_result")
	assert.Contains(t, names, "team_radio")
}

func TestLookupEndpoint(t *testing.T) {
	e, err := LookupEndpoint(EndpointLaps)
	require.NoError(t, err)
	assert.True(t, e.HasField("st_speed"))
	assert.True(t, e.HasField("date_start"))
	assert.False(t, e.HasField("compound"))

	// callers get a copy
	e.Fields[0] = "changed"
	again, _ := LookupEndpoint(EndpointLaps)
	assert.NotEqual(t, "changed", again.Fields[0])

	_, err = LookupEndpoint("lapz")
	assert.ErrorIs(t, err, ErrUnknownEndpoint)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		params   Params
		wantErr  error
	}{
		{"valid", "laps", Params{Eq("session_key", 9158)}, nil},
		{"no params", "meetings", nil, nil},
		{"range", "sessions", Params{Gte("date_start", "2025-03-13"), Lte("date_end", "2025-09-28")}, nil},
		{"unknown endpoint", "laptimes", nil, ErrUnknownEndpoint},
		{"unknown param", "stints", Params{Eq("lap_duration", 90)}, ErrUnknownParameter},
		{"bad operator", "laps", Params{{Field: "lap_number", Op: "!=", Value: "1"}}, ErrInvalidOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.endpoint, tt.params)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadSchema_Duplicate(t *testing.T) {
	_, err := loadSchema([]byte("endpoints:\n  - name: laps\n  - name: laps\n"))
	assert.Error(t, err)
}

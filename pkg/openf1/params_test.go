package openf1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		arg     string
		want    Filter
		wantErr bool
	}{
		{arg: "session_key=9158", want: Filter{"session_key", OpEq, "9158"}},
		{arg: "date_start>=2025-03-13", want: Filter{"date_start", OpGte, "2025-03-13"}},
		{arg: "date_end<=2025-09-28", want: Filter{"date_end", OpLte, "2025-09-28"}},
		{arg: "lap_number>3", want: Filter{"lap_number", OpGt, "3"}},
		{arg: "lap_number<3", want: Filter{"lap_number", OpLt, "3"}},
		{arg: "date_start=>=2025-03-13", want: Filter{"date_start", OpGte, "2025-03-13"}},
		{arg: "date_end=<2025-09-28", want: Filter{"date_end", OpLt, "2025-09-28"}},
		{arg: "team_name=", want: Filter{"team_name", OpEq, ""}},
		{arg: "session_key", wantErr: true},
		{arg: "=9158", wantErr: true},
		{arg: "lap_number>>3", wantErr: true},
		{arg: "lap_number==3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseFilter(tt.arg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOperator)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromValue(t *testing.T) {
	f, err := FromValue("date_start", ">=2025-03-13")
	require.NoError(t, err)
	assert.Equal(t, "date_start>=2025-03-13", f.String())

	f, err = FromValue("session_key", "latest")
	require.NoError(t, err)
	assert.Equal(t, OpEq, f.Op)
}

func TestParams_Encode(t *testing.T) {
	p := Params{
		Lte("date_end", "2025-09-28"),
		Gte("date_start", "2025-03-13T10:00:00+00:00"),
		Eq("country_name", "United States"),
	}
	assert.Equal(t,
		"country_name=United+States&date_end<=2025-09-28&date_start>=2025-03-13T10%3A00%3A00%2B00%3A00",
		p.Encode())
	// the receiver is not reordered
	assert.Equal(t, "date_end", p[0].Field)

	assert.Empty(t, Params{}.Encode())
}

func TestParams_Name(t *testing.T) {
	assert.Equal(t, "all", Params{}.Name())
	assert.Equal(t, "session_key_9158", Params{Eq("session_key", 9158)}.Name())
	assert.Equal(t,
		"date_end_lte_2025-09-28__date_start_gte_2025-03-13",
		Params{Gte("date_start", "2025-03-13"), Lte("date_end", "2025-09-28")}.Name())
}

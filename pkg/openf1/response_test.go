package openf1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

func TestDecodeRows(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    model.RawRows
		wantErr bool
	}{
		{
			name: "list",
			body: `[{"driver_number":1,"lap_duration":91.5},{"driver_number":44,"lap_duration":null}]`,
			want: model.RawRows{
				{"driver_number": int64(1), "lap_duration": 91.5},
				{"driver_number": int64(44), "lap_duration": nil},
			},
		},
		{
			name: "results envelope",
			body: `{"count":1,"results":[{"session_key":9158}]}`,
			want: model.RawRows{{"session_key": int64(9158)}},
		},
		{
			name: "items envelope",
			body: `{"items":[]}`,
			want: model.RawRows{},
		},
		{
			name: "single object is flattened",
			body: `{"session_key":9158,"circuit":{"key":63,"name":"Sakhir"}}`,
			want: model.RawRows{{"session_key": int64(9158), "circuit.key": int64(63), "circuit.name": "Sakhir"}},
		},
		{name: "empty list", body: `[]`, want: model.RawRows{}},
		{name: "scalar", body: `42`, wantErr: true},
		{name: "list of scalars", body: `[1,2]`, wantErr: true},
		{name: "invalid json", body: `[{"a":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRows([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnexpectedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

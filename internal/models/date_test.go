package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "calendar date", input: "2024-03-09", want: "2024-03-09"},
		{name: "empty is zero", input: "", want: ""},
		{name: "with time", input: "2024-03-09T10:00", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDateOfDropsClock(t *testing.T) {
	d := DateOf(time.Date(2025, time.July, 4, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2025-07-04", d.String())
	assert.True(t, d.Equal(NewDate(2025, time.July, 4)))
}

func TestDateJSON(t *testing.T) {
	var out struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2023-12-31"}`), &out))
	assert.Equal(t, "2023-12-31", out.Date.String())

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2023-12-31"}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"31/12/2023"}`), &out))
}

package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "already normalized", raw: "+911234567890", want: "+911234567890"},
		{name: "national number gets default country code", raw: "1234567890", want: "+911234567890"},
		{name: "formatting characters are stripped", raw: " (123) 456-7890 ", want: "+911234567890"},
		{name: "trunk prefix is replaced", raw: "01234567890", want: "+911234567890"},
		{name: "international prefix 00", raw: "00441234567890", want: "+441234567890"},
		{name: "country code without plus", raw: "911234567890", want: "+911234567890"},
		{name: "spaces inside international number", raw: "+91 12345 67890", want: "+911234567890"},
		{name: "letters are rejected", raw: "12345abc90", wantErr: true},
		{name: "too short", raw: "12345", wantErr: true},
		{name: "too long", raw: "+1234567890123456", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw, "+91")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

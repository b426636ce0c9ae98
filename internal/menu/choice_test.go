package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"lower bound", "1", 1, false},
		{"upper bound", "5", 5, false},
		{"surrounding space", " 3 ", 3, false},
		{"letters", "abc", 0, true},
		{"empty", "", 0, true},
		{"above range", "9", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-2", 0, true},
		{"decimal", "2.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChoice(tt.input, 1, 5)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseState(t *testing.T) {
	st, err := ParseState(" Restaurants ")
	assert.NoError(t, err)
	assert.Equal(t, Restaurants, st)

	_, err = ParseState("desserts")
	assert.Error(t, err)
}

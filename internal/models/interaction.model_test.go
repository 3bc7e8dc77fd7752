package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInteractionType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected InteractionType
		wantErr  bool
	}{
		{name: "view uppercase", input: "VIEW", expected: InteractionView},
		{name: "review lowercase", input: "review", expected: InteractionReview},
		{name: "favorite mixed case", input: "Favorite", expected: InteractionFavorite},
		{name: "search with whitespace", input: "  search ", expected: InteractionSearch},
		{name: "unknown type", input: "ENROLL", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseInteractionType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, parsed)
		})
	}
}

func TestInteractionType_DefaultWeight(t *testing.T) {
	assert.Equal(t, 1.0, InteractionView.DefaultWeight())
	assert.Equal(t, 0.5, InteractionSearch.DefaultWeight())
	assert.Equal(t, 2.0, InteractionFavorite.DefaultWeight())
	assert.Equal(t, 3.0, InteractionReview.DefaultWeight())
}

func TestInteractionType_IsSignificant(t *testing.T) {
	assert.True(t, InteractionReview.IsSignificant())
	assert.True(t, InteractionFavorite.IsSignificant())
	assert.False(t, InteractionView.IsSignificant())
	assert.False(t, InteractionSearch.IsSignificant())
}

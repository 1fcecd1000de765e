package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ClickGame", "ClickGame"},
		{"Click", "ClickGame"},
		{"  Dodge  ", "DodgeGame"},
		{"multi_word_game", "multi_word_gameGame"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "NormalizeName(%q)", tt.in)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"ClickGame", true},
		{"_privateGame", true},
		{"multi_word_gameGame", true},
		{"Game2048Game", true},
		{"", false},
		{"2048Game", false},
		{"../escapedGame", false},
		{"Click Game", false},
		{"dash-Game", false},
		{"ClickGame.ts", false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if tt.ok {
			assert.NoError(t, err, tt.name)
		} else {
			assert.ErrorIs(t, err, ErrInvalidName, tt.name)
		}
	}
}

func TestNormalizePrompt(t *testing.T) {
	assert.Equal(t, "CLICK!", NormalizePrompt("click"))
	assert.Equal(t, "JUMP!", NormalizePrompt(" Jump! "))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ClickGame", "Click Game"},
		{NormalizeName("multi_word_game"), "Multi Word Game Game"},
		{"pet_dogGame", "Pet Dog Game"},
		{"TerminalVirusGame", "Terminalvirus Game"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.in), "DisplayName(%q)", tt.in)
	}
}

func TestRequestEntry(t *testing.T) {
	req := Request{
		Name:        "Click",
		Prompt:      "CLICK!",
		Description: "Click the target",
		Controls:    "Mouse: Click",
	}.Normalize()

	e := req.Entry()
	assert.Equal(t, "ClickGame", e.Key)
	assert.Equal(t, "Click Game", e.Name)
	assert.Equal(t, "CLICK!", e.Prompt)
	assert.Equal(t, "Click the target", e.Description)
	assert.Equal(t, "Mouse: Click", e.Controls)
}

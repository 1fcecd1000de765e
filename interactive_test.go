package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/areibman/vibeshift/generator"
)

func TestCollectRequestPromptsForEverything(t *testing.T) {
	in := strings.NewReader("Click\nclick\nClick the target\nMouse: Click\nA red circle appears\n2\n")
	var out bytes.Buffer

	req, err := collectRequest(newAsker(in, &out), generator.Request{}, "gpt-4")
	require.NoError(t, err)

	assert.Equal(t, generator.Request{
		Name:        "ClickGame",
		Prompt:      "CLICK!",
		Description: "Click the target",
		Controls:    "Mouse: Click",
		Concept:     "A red circle appears",
		Model:       "gpt-3.5-turbo",
	}, req)
	assert.Contains(t, out.String(), "Enter microgame details:")
	assert.Contains(t, out.String(), "Updated name to: ClickGame")
	assert.Contains(t, out.String(), "Select AI model:")
}

func TestCollectRequestFromFlagsDoesNotPrompt(t *testing.T) {
	given := generator.Request{
		Name:        "DodgeGame",
		Prompt:      "DODGE!",
		Description: "Avoid the rocks",
		Controls:    "Arrow keys",
		Concept:     "Rocks fall from the sky",
	}
	var out bytes.Buffer

	req, err := collectRequest(newAsker(strings.NewReader(""), &out), given, "gpt-4")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", req.Model)
	assert.Equal(t, "DodgeGame", req.Name)
	assert.Empty(t, out.String())
}

func TestCollectRequestCustomModel(t *testing.T) {
	in := strings.NewReader("DODGE!\n4\nllama3\n")
	given := generator.Request{Name: "DodgeGame", Description: "d", Controls: "c", Concept: "x"}

	req, err := collectRequest(newAsker(in, &bytes.Buffer{}), given, "gpt-4")
	require.NoError(t, err)
	assert.Equal(t, "llama3", req.Model)
	assert.Equal(t, "DODGE!", req.Prompt)
}

func TestCollectRequestDefaultChoice(t *testing.T) {
	in := strings.NewReader("jump\n\n")
	given := generator.Request{Name: "JumpGame", Description: "d", Controls: "c", Concept: "x"}

	req, err := collectRequest(newAsker(in, &bytes.Buffer{}), given, "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", req.Model)
	assert.Equal(t, "JUMP!", req.Prompt)
}

func TestCollectRequestRequiresName(t *testing.T) {
	_, err := collectRequest(newAsker(strings.NewReader("\n"), &bytes.Buffer{}), generator.Request{}, "gpt-4")
	assert.Error(t, err)
}

func TestCollectRequestRejectsBadName(t *testing.T) {
	_, err := collectRequest(newAsker(strings.NewReader("../escaped\n"), &bytes.Buffer{}), generator.Request{}, "gpt-4")
	assert.ErrorIs(t, err, generator.ErrInvalidName)
}

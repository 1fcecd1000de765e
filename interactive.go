package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/areibman/vibeshift/generator"
)

// modelChoices is the menu shown when no --model is given. Choice 4 asks for a name.
var modelChoices = []struct {
	key, model, label string
}{
	{"1", "gpt-4", "GPT-4 (requires OPENAI_API_KEY)"},
	{"2", "gpt-3.5-turbo", "GPT-3.5-turbo (requires OPENAI_API_KEY)"},
	{"3", "claude-2", "Claude (requires ANTHROPIC_API_KEY behind an OpenAI-compatible proxy)"},
	{"4", "", "Custom (enter your own)"},
}

type asker struct {
	in  *bufio.Reader
	out io.Writer
}

func newAsker(in io.Reader, out io.Writer) *asker {
	return &asker{in: bufio.NewReader(in), out: out}
}

func (a *asker) ask(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// collectRequest fills every field missing from given by asking the user.
func collectRequest(a *asker, given generator.Request, defaultModel string) (generator.Request, error) {
	req := given
	asked := false
	field := func(dst *string, label string) error {
		if strings.TrimSpace(*dst) != "" {
			return nil
		}
		if !asked {
			fmt.Fprintln(a.out, "\nEnter microgame details:")
			asked = true
		}
		v, err := a.ask(label)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}

	if err := field(&req.Name, "Game class name (e.g., ClickGame): "); err != nil {
		return req, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return req, errors.New("name is required")
	}
	if err := generator.ValidateName(generator.NormalizeName(req.Name)); err != nil {
		return req, err
	}
	if normalized := generator.NormalizeName(req.Name); normalized != req.Name {
		req.Name = normalized
		fmt.Fprintf(a.out, "Updated name to: %s\n", req.Name)
	}

	if err := field(&req.Prompt, "Player prompt (e.g., CLICK!): "); err != nil {
		return req, err
	}
	req.Prompt = generator.NormalizePrompt(req.Prompt)
	if err := field(&req.Description, "Game description: "); err != nil {
		return req, err
	}
	if err := field(&req.Controls, "Controls (e.g., Mouse: Click on targets): "); err != nil {
		return req, err
	}
	if err := field(&req.Concept, "Detailed game concept: "); err != nil {
		return req, err
	}

	if req.Model == "" {
		if !asked {
			req.Model = defaultModel
			return req, nil
		}
		model, err := a.chooseModel(defaultModel)
		if err != nil {
			return req, err
		}
		req.Model = model
	}
	return req, nil
}

func (a *asker) chooseModel(defaultModel string) (string, error) {
	fmt.Fprintln(a.out, "\nSelect AI model:")
	for _, c := range modelChoices {
		fmt.Fprintf(a.out, "%s. %s\n", c.key, c.label)
	}
	choice, err := a.ask(fmt.Sprintf("\nChoice [%s]: ", defaultModel))
	if err != nil {
		return "", err
	}
	if choice == "" {
		return defaultModel, nil
	}
	for _, c := range modelChoices {
		if c.key != choice {
			continue
		}
		if c.model != "" {
			return c.model, nil
		}
		custom, err := a.ask("Enter model name: ")
		if err != nil {
			return "", err
		}
		if custom == "" {
			return defaultModel, nil
		}
		return custom, nil
	}
	return defaultModel, nil
}

// Package report renders a generation run as markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/areibman/vibeshift/generator"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown summarises the request, every attempt and the final outcome.
func Markdown(run *generator.Run) string {
	var b strings.Builder
	req := run.Request
	fmt.Fprintf(&b, "# %s\n\n", req.Name)
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Run | `%s` |\n", run.ID)
	fmt.Fprintf(&b, "| Model | %s |\n", cell(req.Model))
	fmt.Fprintf(&b, "| Prompt | %s |\n", cell(req.Prompt))
	fmt.Fprintf(&b, "| Description | %s |\n", cell(req.Description))
	fmt.Fprintf(&b, "| Controls | %s |\n", cell(req.Controls))
	fmt.Fprintf(&b, "| Outcome | **%s** |\n", run.State)
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "| Duration | %s |\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	b.WriteString("\n")
	if req.Concept != "" {
		fmt.Fprintf(&b, "## Concept\n\n%s\n\n", req.Concept)
	}

	for _, a := range run.Attempts {
		fmt.Fprintf(&b, "## Attempt %d\n\n", a.Index)
		if a.ArtifactPath != "" {
			fmt.Fprintf(&b, "Saved to `%s`.\n\n", a.ArtifactPath)
		}
		if a.Err != "" {
			fmt.Fprintf(&b, "Error: %s\n\n", a.Err)
		}
		if a.Validation != nil {
			verdict := "failed"
			if a.Validation.Passed {
				verdict = "passed"
			}
			fmt.Fprintf(&b, "Validation %s.\n\n", verdict)
			if out := strings.TrimSpace(a.Validation.Output); out != "" {
				fmt.Fprintf(&b, "```text\n%s\n```\n\n", out)
			}
		}
	}
	if run.Err != "" {
		fmt.Fprintf(&b, "## Failure\n\n%s\n", run.Err)
	}
	return b.String()
}

// HTML renders Markdown(run) as a standalone page.
func HTML(run *generator.Run) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(run)), &body); err != nil {
		return nil, err
	}
	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head><body>\n", html.EscapeString(run.Request.Name))
	page.Write(body.Bytes())
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}

// Write stores the HTML report as dir/<Name>-<id>.html and returns its path.
func Write(dir string, run *generator.Run) (string, error) {
	page, err := HTML(run)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.html", run.Request.Name, run.ID))
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}

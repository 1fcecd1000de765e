// Package registry edits the microgame registry document (registry.ts).
//
// The document is plain text with two anchor comments: GameMarker closes the
// exported scene list and MetadataMarker closes the metadata array. Everything
// else in the file is left untouched.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

const (
	GameMarker     = "NEW_GAME_MARKER"
	MetadataMarker = "NEW_METADATA_MARKER"
)

var (
	ErrMarkerNotFound   = errors.New("marker not found")
	ErrMarkerDuplicated = errors.New("marker appears more than once")
	ErrMarkerInEntry    = errors.New("entry value contains a marker")
)

// Mode decides what happens when a key is registered a second time.
type Mode string

const (
	// ModeAccumulate inserts again, leaving earlier lines for the key in place.
	ModeAccumulate Mode = "accumulate"
	// ModeReplace drops earlier lines for the key before inserting.
	ModeReplace Mode = "replace"
)

// ParseMode accepts "", "accumulate" or "replace".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAccumulate:
		return ModeAccumulate, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("unknown registry mode %q", s)
	}
}

// Entry is one metadata record. Values are written between single quotes
// verbatim, so they must not contain a single quote themselves.
type Entry struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
	Controls    string `json:"controls"`
}

// ImportLine is the import statement written for key.
func ImportLine(key string) string {
	return fmt.Sprintf("import %s from './%s';", key, key)
}

// Patch returns doc with entry added: an import after the last import
// statement, the key before GameMarker and the record before MetadataMarker.
// On error doc is returned unchanged.
func Patch(doc string, entry Entry, mode Mode) (string, error) {
	if entry.Key == "" {
		return doc, errors.New("registry entry key is required")
	}
	for _, v := range []string{entry.Key, entry.Name, entry.Prompt, entry.Description, entry.Controls} {
		for _, marker := range []string{GameMarker, MetadataMarker} {
			if strings.Contains(v, marker) {
				return doc, fmt.Errorf("%s: %w", marker, ErrMarkerInEntry)
			}
		}
	}
	for _, marker := range []string{GameMarker, MetadataMarker} {
		switch n := strings.Count(doc, marker); {
		case n == 0:
			return doc, fmt.Errorf("%s: %w", marker, ErrMarkerNotFound)
		case n > 1:
			return doc, fmt.Errorf("%s: %w", marker, ErrMarkerDuplicated)
		}
	}

	nl := "\n"
	if strings.Contains(doc, "\r\n") {
		nl = "\r\n"
	}
	lines := strings.Split(doc, nl)
	if mode == ModeReplace {
		lines = removeEntry(lines, entry.Key)
	}

	lines = insertImport(lines, ImportLine(entry.Key))
	lines = insertBeforeMarker(lines, GameMarker, func(indent string) []string {
		return []string{indent + entry.Key + ","}
	})
	lines = insertBeforeMarker(lines, MetadataMarker, func(indent string) []string {
		return metadataRecord(indent, entry)
	})
	return strings.Join(lines, nl), nil
}

func metadataRecord(indent string, e Entry) []string {
	field := indent + "    "
	return []string{
		indent + "{",
		field + "key: '" + e.Key + "',",
		field + "name: '" + e.Name + "',",
		field + "prompt: '" + e.Prompt + "',",
		field + "description: '" + e.Description + "',",
		field + "controls: '" + e.Controls + "'",
		indent + "},",
	}
}

func isImport(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "import ")
}

// importEnds reports whether line closes an import statement. A side-effect
// import (import './styles.css') is complete on its own line.
func importEnds(line string) bool {
	t := strings.TrimSpace(line)
	if strings.HasPrefix(t, "import '") || strings.HasPrefix(t, `import "`) {
		return true
	}
	return strings.HasSuffix(t, ";") || strings.Contains(t, "from ")
}

// insertImport places imp after the last import statement, or at the top of
// the document when there is none.
func insertImport(lines []string, imp string) []string {
	last := -1
	for i, line := range lines {
		if isImport(line) {
			last = i
		}
	}
	if last == -1 {
		return insertAt(lines, 0, imp)
	}
	// multi-line import { a, b } from '...'
	end := last
	for end < len(lines)-1 && !importEnds(lines[end]) {
		end++
	}
	return insertAt(lines, end+1, imp)
}

func insertBeforeMarker(lines []string, marker string, build func(indent string) []string) []string {
	for i, line := range lines {
		if !strings.Contains(line, marker) {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		return insertAt(lines, i, build(indent)...)
	}
	return lines
}

func insertAt(lines []string, i int, add ...string) []string {
	out := make([]string, 0, len(lines)+len(add))
	out = append(out, lines[:i]...)
	out = append(out, add...)
	return append(out, lines[i:]...)
}

// removeEntry drops every import, list line and metadata record for key.
func removeEntry(lines []string, key string) []string {
	imp := ImportLine(key)
	listLine := key + ","
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == imp || t == listLine {
			continue
		}
		out = append(out, line)
	}

	keyLine := "key: '" + key + "',"
	for {
		at := -1
		for i, line := range out {
			if strings.TrimSpace(line) == keyLine {
				at = i
				break
			}
		}
		if at == -1 {
			return out
		}
		start, end := at, at
		for start > 0 && strings.TrimSpace(out[start]) != "{" {
			start--
		}
		if strings.TrimSpace(out[start]) != "{" {
			start = at
		}
		for end < len(out)-1 && !strings.HasPrefix(strings.TrimSpace(out[end]), "}") {
			end++
		}
		if !strings.HasPrefix(strings.TrimSpace(out[end]), "}") {
			end = at
		}
		out = append(out[:start], out[end+1:]...)
	}
}

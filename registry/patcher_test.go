package registry

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRegistry = `/**
 * Microgame Registry
 */

import CatchGame from './CatchGame';
import TypeGame from './TypeGame';

// Export all games as an array
export const MICROGAME_SCENES = [
    CatchGame,
    TypeGame,
    // NEW_GAME_MARKER - Do not remove this comment
];

// Export metadata for each game
export const MICROGAME_METADATA = [
    {
        key: 'CatchGame',
        name: 'Catch the Egg',
        prompt: 'CATCH!',
        description: 'Move basket to catch falling egg',
        controls: 'Mouse: Move left/right'
    },
    // NEW_METADATA_MARKER - Do not remove this comment
];
`

var clickEntry = Entry{
	Key:         "ClickGame",
	Name:        "Click Game",
	Prompt:      "CLICK!",
	Description: "Click the target before it disappears",
	Controls:    "Mouse: Click on target",
}

func TestPatchInsertsAllThreeParts(t *testing.T) {
	got, err := Patch(sampleRegistry, clickEntry, ModeAccumulate)
	require.NoError(t, err)

	want := `/**
 * Microgame Registry
 */

import CatchGame from './CatchGame';
import TypeGame from './TypeGame';
import ClickGame from './ClickGame';

// Export all games as an array
export const MICROGAME_SCENES = [
    CatchGame,
    TypeGame,
    ClickGame,
    // NEW_GAME_MARKER - Do not remove this comment
];

// Export metadata for each game
export const MICROGAME_METADATA = [
    {
        key: 'CatchGame',
        name: 'Catch the Egg',
        prompt: 'CATCH!',
        description: 'Move basket to catch falling egg',
        controls: 'Mouse: Move left/right'
    },
    {
        key: 'ClickGame',
        name: 'Click Game',
        prompt: 'CLICK!',
        description: 'Click the target before it disappears',
        controls: 'Mouse: Click on target'
    },
    // NEW_METADATA_MARKER - Do not remove this comment
];
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Patch mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchKeepsMarkersAndFields(t *testing.T) {
	got, err := Patch(sampleRegistry, clickEntry, ModeAccumulate)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(got, GameMarker))
	assert.Equal(t, 1, strings.Count(got, MetadataMarker))
	assert.Equal(t, 1, strings.Count(got, ImportLine("ClickGame")))
	for _, v := range []string{clickEntry.Key, clickEntry.Name, clickEntry.Prompt, clickEntry.Description, clickEntry.Controls} {
		assert.Contains(t, got, v)
	}
}

func TestPatchMissingMarker(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		marker string
	}{
		{"no game marker", strings.Replace(sampleRegistry, GameMarker, "GONE", 1), GameMarker},
		{"no metadata marker", strings.Replace(sampleRegistry, MetadataMarker, "GONE", 1), MetadataMarker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Patch(tt.doc, clickEntry, ModeAccumulate)
			require.ErrorIs(t, err, ErrMarkerNotFound)
			assert.Contains(t, err.Error(), tt.marker)
			assert.Equal(t, tt.doc, got, "input must come back untouched")
		})
	}
}

func TestPatchDuplicatedMarker(t *testing.T) {
	doc := sampleRegistry + "\n// " + MetadataMarker + "\n"
	got, err := Patch(doc, clickEntry, ModeAccumulate)
	require.ErrorIs(t, err, ErrMarkerDuplicated)
	assert.Equal(t, doc, got)
}

func TestPatchRejectsMarkerInEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{"description", Entry{Key: "ClickGame", Description: "press " + GameMarker}},
		{"controls", Entry{Key: "ClickGame", Controls: "// " + MetadataMarker}},
		{"prompt", Entry{Key: "ClickGame", Prompt: GameMarker + "!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Patch(sampleRegistry, tt.entry, ModeAccumulate)
			require.ErrorIs(t, err, ErrMarkerInEntry)
			assert.Equal(t, sampleRegistry, got)

			// the registry stays patchable afterwards
			_, err = Patch(got, clickEntry, ModeAccumulate)
			assert.NoError(t, err)
		})
	}
}

func TestPatchAccumulateDuplicates(t *testing.T) {
	once, err := Patch(sampleRegistry, clickEntry, ModeAccumulate)
	require.NoError(t, err)
	twice, err := Patch(once, clickEntry, ModeAccumulate)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(twice, ImportLine("ClickGame")))
	assert.Equal(t, 2, strings.Count(twice, "key: 'ClickGame'"))
	assert.Equal(t, 1, strings.Count(twice, GameMarker))
}

func TestPatchReplaceIsIdempotent(t *testing.T) {
	once, err := Patch(sampleRegistry, clickEntry, ModeReplace)
	require.NoError(t, err)

	updated := clickEntry
	updated.Description = "Click faster"
	twice, err := Patch(once, updated, ModeReplace)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(twice, ImportLine("ClickGame")))
	assert.Equal(t, 1, strings.Count(twice, "    ClickGame,\n"))
	assert.Equal(t, 1, strings.Count(twice, "key: 'ClickGame'"))
	assert.Contains(t, twice, "description: 'Click faster'")
	assert.NotContains(t, twice, clickEntry.Description)
	assert.Contains(t, twice, "key: 'CatchGame'", "other records survive")

	again, err := Patch(twice, updated, ModeReplace)
	require.NoError(t, err)
	if diff := cmp.Diff(twice, again); diff != "" {
		t.Fatalf("replace should be stable (-want +got):\n%s", diff)
	}
}

func TestPatchWithoutImports(t *testing.T) {
	doc := "export const MICROGAME_SCENES = [\n  // NEW_GAME_MARKER\n];\nexport const MICROGAME_METADATA = [\n  // NEW_METADATA_MARKER\n];\n"
	got, err := Patch(doc, clickEntry, ModeAccumulate)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, ImportLine("ClickGame")+"\n"))
	assert.Contains(t, got, "  ClickGame,\n  // NEW_GAME_MARKER")
	assert.Contains(t, got, "  {\n      key: 'ClickGame',")
}

func TestPatchAfterMultiLineImport(t *testing.T) {
	doc := "import {\n  GAME_WIDTH,\n  GAME_HEIGHT,\n} from '../GameConfig';\nconst a = [\n// NEW_GAME_MARKER\n];\nconst b = [\n// NEW_METADATA_MARKER\n];\n"
	got, err := Patch(doc, clickEntry, ModeAccumulate)
	require.NoError(t, err)
	assert.Contains(t, got, "} from '../GameConfig';\n"+ImportLine("ClickGame")+"\n")
}

func TestPatchAfterSideEffectImport(t *testing.T) {
	doc := "import CatchGame from './CatchGame';\nimport './styles.css'\n\nconst a = [\n// NEW_GAME_MARKER\n];\nconst b = [\n// NEW_METADATA_MARKER\n];\n"
	got, err := Patch(doc, clickEntry, ModeAccumulate)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "import CatchGame from './CatchGame';\nimport './styles.css'\n"+ImportLine("ClickGame")+"\n\nconst a = ["), got)
}

func TestPatchPreservesCRLF(t *testing.T) {
	doc := strings.ReplaceAll(sampleRegistry, "\n", "\r\n")
	got, err := Patch(doc, clickEntry, ModeAccumulate)
	require.NoError(t, err)
	assert.NotContains(t, strings.ReplaceAll(got, "\r\n", ""), "\n")
}

func TestPatchRequiresKey(t *testing.T) {
	_, err := Patch(sampleRegistry, Entry{}, ModeAccumulate)
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAccumulate, m)

	m, err = ParseMode("Replace")
	require.NoError(t, err)
	assert.Equal(t, ModeReplace, m)

	_, err = ParseMode("merge")
	assert.Error(t, err)
}

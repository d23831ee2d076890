package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONResponseStripsFences(t *testing.T) {
	in := "```json\n{\"name\": \"Jane\"}\n```"
	got := CleanJSONResponse(in)
	assert.JSONEq(t, `{"name": "Jane"}`, got)
}

func TestCleanJSONResponseExtractsFromProse(t *testing.T) {
	in := `Here is the parsed resume: {"name": "Jane", "skills": ["Go"]} Hope that helps!`
	got := CleanJSONResponse(in)
	assert.JSONEq(t, `{"name": "Jane", "skills": ["Go"]}`, got)
}

func TestCleanJSONResponseHandlesNestedObjects(t *testing.T) {
	in := `{"a": {"b": {"c": 1}}, "d": "}"}`
	got := CleanJSONResponse(in)
	var probe map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &probe))
	assert.Contains(t, probe, "a")
	assert.Equal(t, "}", probe["d"])
}

func TestCleanJSONResponseRepairsTrailingCommas(t *testing.T) {
	in := `{"skills": ["Go", "Python",], "summary": "x",}`
	got := CleanJSONResponse(in)
	var probe map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &probe))
}

func TestCleanJSONResponseQuotesBareKeys(t *testing.T) {
	in := `{name: "Jane", skills: []}`
	got := CleanJSONResponse(in)
	var probe map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &probe))
	assert.Equal(t, "Jane", probe["name"])
}

func TestCleanJSONResponsePassesValidJSON(t *testing.T) {
	in := `{"ok": true}`
	assert.Equal(t, in, CleanJSONResponse(in))
}

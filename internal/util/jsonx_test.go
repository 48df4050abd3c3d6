package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_ValidPassthrough(t *testing.T) {
	raw := `{"title":"Aventura","scenes":[]}`
	assert.Equal(t, raw, ExtractJSON(raw, ShapeObject))
}

func TestExtractJSON_CodeFences(t *testing.T) {
	raw := "```json\n{\"question\": \"¿Cuántas patas tiene una llama?\"}\n```"
	got := ExtractJSON(raw, ShapeObject)
	assert.Equal(t, `{"question": "¿Cuántas patas tiene una llama?"}`, got)
}

func TestExtractJSON_FencesWithoutLanguageTag(t *testing.T) {
	raw := "```\n[1, 2, 3]\n```"
	assert.Equal(t, "[1, 2, 3]", ExtractJSON(raw, ShapeArray))
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	raw := `Claro, aquí tienes las preguntas:
[{"question": "a"}, {"question": "b"}]
¡Espero que te sirvan!`
	got := ExtractJSON(raw, ShapeArray)
	require.True(t, json.Valid([]byte(got)), "extracted text should be valid JSON: %s", got)

	var out []map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &out))
	assert.Len(t, out, 2)
}

func TestExtractJSON_ObjectShapePrefersObject(t *testing.T) {
	raw := `nota [irrelevante] {"title": "x", "scenes": [{"scene_number": 1}]} fin`
	got := ExtractJSON(raw, ShapeObject)

	var story map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(got), &story))
	assert.Equal(t, "x", story["title"])
}

func TestExtractJSON_AutoPrefersStoryObject(t *testing.T) {
	// auto形态下，包含scenes的对象优先于对象内部的数组
	raw := `texto {"title": "t", "scenes": [{"scene_number": 1}]} texto`
	got := ExtractJSON(raw, ShapeAuto)

	var story map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(got), &story))
	assert.Contains(t, story, "scenes")
}

func TestExtractJSON_AutoPrefersArrayOtherwise(t *testing.T) {
	raw := `aquí: [{"question": "a", "options": ["x","y","z"]}] listo`
	got := ExtractJSON(raw, ShapeAuto)

	var questions []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(got), &questions))
	assert.Len(t, questions, 1)
}

func TestExtractJSON_StripsLineComments(t *testing.T) {
	raw := `texto {
	"points": 10, // puntaje base
	"url": "https://example.com/x"
} fin`
	got := ExtractJSON(raw, ShapeObject)

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(got), &obj))
	assert.Equal(t, float64(10), obj["points"])
	// 字符串内的双斜杠不能被误删
	assert.Equal(t, "https://example.com/x", obj["url"])
}

func TestExtractJSON_NoJSONFallsBackToTrimmed(t *testing.T) {
	raw := "  no hay nada estructurado aquí  "
	assert.Equal(t, "no hay nada estructurado aquí", ExtractJSON(raw, ShapeAuto))
}

func TestExtractJSON_Idempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"a\": 1}\n```",
		`texto [1,2,3] texto`,
		`{"title": "x"}`,
		"sin json",
	}
	for _, raw := range inputs {
		once := ExtractJSON(raw, ShapeAuto)
		twice := ExtractJSON(once, ShapeAuto)
		assert.Equal(t, once, twice, "input: %q", raw)
	}
}

func TestStripCodeFences_KeepsPlainText(t *testing.T) {
	assert.Equal(t, "hola", stripCodeFences("  hola  "))
}

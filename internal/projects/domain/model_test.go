package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Project!": "myproject",
		"About Us":    "aboutus",
		"snake_case":  "snake_case",
		"Año 2024":    "ao2024",
		"---":         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestFromRecord(t *testing.T) {
	p := FromRecord("doc-id", map[string]any{
		"name":     "Legacy",
		"sections": []any{"home", 7, "team"},
	})
	assert.Equal(t, "doc-id", p.Key, "falls back to document id")
	assert.Equal(t, []string{"home", "team"}, p.Sections)

	p = FromRecord("doc-id", Project{Key: "real", Name: "Real", Sections: []string{"a"}}.Record())
	assert.Equal(t, Project{Key: "real", Name: "Real", Sections: []string{"a"}}, p)
	assert.True(t, p.HasSection("a"))
	assert.False(t, p.HasSection("b"))
}

func TestPatchRecordsUnknownFields(t *testing.T) {
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"key":"other","name":"N","theme":"dark","owner":1}`), &p))
	require.NotNil(t, p.Name)
	assert.Equal(t, "N", *p.Name)
	assert.Nil(t, p.Sections)
	assert.Equal(t, []string{"owner", "theme"}, p.Unknown)

	p = Patch{}
	require.NoError(t, json.Unmarshal([]byte(`{"sections":[]}`), &p))
	assert.Equal(t, []string{}, p.Sections)
	assert.Empty(t, p.Unknown)

	assert.Error(t, json.Unmarshal([]byte(`{"name":5}`), &p))
}

func TestIsReserved(t *testing.T) {
	for _, k := range []string{"projects", "schemas", "auth"} {
		assert.True(t, IsReserved(k), k)
	}
	assert.False(t, IsReserved("kemet"))
	assert.False(t, IsReserved("Schemas"))
}

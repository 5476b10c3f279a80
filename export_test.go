package stdl

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExportYAML(t *testing.T) {
	model := CompileForTest(t, mediaPlayerDoc)

	data, err := model.ExportYAML()
	require.NoError(t, err)

	var doc struct {
		InitialState string `yaml:"initialState"`
		States       []struct {
			Name        string   `yaml:"name"`
			OnEntry     []string `yaml:"onEntry"`
			Initial     string   `yaml:"initial"`
			Transitions []struct {
				Event  string `yaml:"event"`
				Target string `yaml:"target"`
			} `yaml:"transitions"`
		} `yaml:"states"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))

	assert.Equal(t, "Off", doc.InitialState)
	require.Len(t, doc.States, 4)
	assert.Equal(t, "Off", doc.States[0].Name, "document order survives encoding")

	on := doc.States[1]
	assert.Equal(t, "On", on.Name)
	assert.Equal(t, []string{"enableDisplay"}, on.OnEntry)
	assert.Equal(t, "On.Idle", on.Initial)
}

func TestExportYAML_HidesSentinelEvent(t *testing.T) {
	model := CompileForTest(t, mediaPlayerDoc)

	data, err := model.ExportYAML()
	require.NoError(t, err)

	// The automatic hop is surfaced as the initial field, never as a
	// transition row.
	assert.False(t, strings.Contains(string(data), InitialTransitionEvent))
	assert.Contains(t, string(data), "initial: On.Idle")
}

func TestExportJSON(t *testing.T) {
	model := CompileForTest(t, twoStateDoc)

	data, err := model.ExportJSON()
	require.NoError(t, err)

	var doc struct {
		InitialState string `json:"initialState"`
		States       []struct {
			Name        string `json:"name"`
			Transitions []struct {
				Event   string `json:"event"`
				Target  string `json:"target"`
				Guard   string `json:"guard"`
				Actions string `json:"actions"`
			} `json:"transitions"`
		} `json:"states"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "Idle", doc.InitialState)
	require.Len(t, doc.States, 2)
	require.Len(t, doc.States[0].Transitions, 1)
	assert.Equal(t, "go", doc.States[0].Transitions[0].Event)
	assert.Equal(t, "Busy", doc.States[0].Transitions[0].Target)
}

func TestExport_GuardsAndActionsSurvive(t *testing.T) {
	doc := "S\n  - e [ready]\n    / warmUp\n    -> T\nT\n"
	model := CompileForTest(t, doc)

	data, err := model.ExportJSON()
	require.NoError(t, err)

	assert.Contains(t, string(data), `"guard": "ready"`)
	assert.Contains(t, string(data), `"actions": "warmUp"`)
}

package visualization

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stdl "github.com/jbaker8935/stdl"
)

const playerDoc = `Off
  - power
    -> On
On
  OnEntry
    / enableDisplay
  Initial
    -> Idle
  Idle
    - play [discLoaded]
      / spinUp
      -> Playing
  Playing
    - stop
      -> Idle
  - power
    -> Off
`

func compileModel(t *testing.T) *stdl.StateMachineModel {
	t.Helper()
	model, diagnostics, err := stdl.Compile(playerDoc)
	require.NoError(t, err)
	for _, d := range diagnostics {
		if d.Severity == stdl.SeverityError {
			t.Fatalf("unexpected diagnostic: %v", d)
		}
	}
	return model
}

func TestGenerate_BasicStructure(t *testing.T) {
	dot := NewDOTGenerator(compileModel(t)).Generate()

	assert.True(t, strings.HasPrefix(dot, "digraph StateMachine {"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, `"__start" [shape=point];`)
	assert.Contains(t, dot, `"__start" -> "Off";`)

	for _, name := range []string{"Off", "On", "On.Idle", "On.Playing"} {
		assert.Contains(t, dot, `"`+name+`"`)
	}
}

func TestGenerate_InitialEdgeIsDashed(t *testing.T) {
	dot := NewDOTGenerator(compileModel(t)).Generate()

	assert.Contains(t, dot, `"On" -> "On.Idle" [style=dashed label="initial"];`)
	assert.NotContains(t, dot, stdl.InitialTransitionEvent)
}

func TestGenerate_EdgeLabels(t *testing.T) {
	dot := NewDOTGenerator(compileModel(t)).Generate()

	assert.Contains(t, dot, `label="play [discLoaded] / spinUp"`)
	assert.Contains(t, dot, `label="power"`)
}

func TestGenerate_OptionsSuppressDetail(t *testing.T) {
	options := DOTOptions{ShowGuards: false, ShowActions: false, RankDirection: "LR", NodeShape: "ellipse"}
	dot := NewDOTGenerator(compileModel(t), options).Generate()

	assert.Contains(t, dot, "rankdir=LR;")
	assert.Contains(t, dot, "node [shape=ellipse];")
	assert.Contains(t, dot, `label="play"`)
	assert.NotContains(t, dot, "discLoaded")
	assert.NotContains(t, dot, "spinUp")
}

func TestGenerate_IsDeterministic(t *testing.T) {
	model := compileModel(t)

	first := NewDOTGenerator(model).Generate()
	second := NewDOTGenerator(model).Generate()

	assert.Equal(t, first, second)
}

package npc

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shooterTreeYAML = `
root: shooter
nodes:
  shooter:
    type: selector
    children: [idle, back_off, close_in, hold]
  idle:
    type: sequence
    children: [no_target, hold]
  no_target:
    type: inverter
    child: has_target
  has_target:
    type: condition
    condition: HasTarget
  back_off:
    type: sequence
    children: [too_close, retreat]
  too_close:
    type: condition
    condition: TooClose
  retreat:
    type: action
    action: Retreat
  close_in:
    type: sequence
    children: [too_far, advance]
  too_far:
    type: condition
    condition: TooFar
  advance:
    type: action
    action: Advance
  hold:
    type: action
    action: Hold
`

func TestLoadAndRunSimpleTree(t *testing.T) {
	jsonCfg := []byte(`{
  "root":"Root",
  "nodes":{
    "Root":{"type":"Sequence", "children":["IsReady","DoWork"]},
    "IsReady":{"type":"Condition","condition":"IsTrue","params":{"key":"ready"}},
    "DoWork":{"type":"Action","action":"SetBool","params":{"key":"done","value":true}}
  }
}`)
	cfg, err := LoadJSON(bytes.NewReader(jsonCfg))
	require.NoError(t, err)

	r := NewRegistry()
	RegisterBuiltins(r)
	tree, err := cfg.Build(r)
	require.NoError(t, err)

	bb := NewBlackboard()
	assert.Equal(t, StatusFailure, tree.Tick(TickContext{BB: bb}))
	assert.False(t, bb.Bool("done"))

	bb.Set("ready", true)
	assert.Equal(t, StatusSuccess, tree.Tick(TickContext{BB: bb}))
	assert.True(t, bb.Bool("done"))
}

func TestLoadYAMLSharesNodes(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader(shooterTreeYAML))
	require.NoError(t, err)

	r := NewRegistry()
	RegisterShooterNodes(r)
	tree, err := cfg.Build(r)
	require.NoError(t, err)

	root, ok := tree.Root().(*Selector)
	require.True(t, ok)
	require.Len(t, root.children, 4)
	idle := root.children[0].(*Sequence)
	assert.Equal(t, "Hold", idle.children[1].Name())
	assert.Equal(t, idle.children[1].Name(), root.children[3].Name(), "hold is referenced twice")
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{
			name: "missing node",
			yaml: "root: a\nnodes:\n  a: {type: sequence, children: [b]}\n",
			err:  ErrUnknownNode,
		},
		{
			name: "unregistered action",
			yaml: "root: a\nnodes:\n  a: {type: action, action: Fly}\n",
			err:  ErrUnknownNode,
		},
		{
			name: "unsupported type",
			yaml: "root: a\nnodes:\n  a: {type: parallel}\n",
			err:  ErrInvalidTree,
		},
		{
			name: "cycle",
			yaml: "root: a\nnodes:\n  a: {type: sequence, children: [b]}\n  b: {type: selector, children: [a]}\n",
			err:  ErrInvalidTree,
		},
		{
			name: "inverter without child",
			yaml: "root: a\nnodes:\n  a: {type: inverter}\n",
			err:  ErrInvalidTree,
		},
		{
			name: "builtin missing params",
			yaml: "root: a\nnodes:\n  a: {type: condition, condition: IsTrue}\n",
			err:  ErrInvalidTree,
		},
	}

	r := NewRegistry()
	RegisterBuiltins(r)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadYAML(strings.NewReader(tt.yaml))
			require.NoError(t, err)
			_, err = cfg.Build(r)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadYAMLRejectsUnknownFields(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("root: a\nbranches: {}\n"))
	assert.Error(t, err)
}

func TestLoadShooterTreeFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shooter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(shooterTreeYAML), 0o600))

	tree, err := LoadShooterTree(path)
	require.NoError(t, err)
	assert.Equal(t, "shooter", tree.Root().Name())

	_, err = LoadShooterTree(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

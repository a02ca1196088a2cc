package npc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes a tree in JSON or YAML. Nodes reference each other by name.
type Config struct {
	Root  string                `json:"root" yaml:"root"`
	Nodes map[string]ConfigNode `json:"nodes" yaml:"nodes"`
}

type ConfigNode struct {
	Type      string         `json:"type" yaml:"type"`
	Children  []string       `json:"children,omitempty" yaml:"children,omitempty"`
	Child     string         `json:"child,omitempty" yaml:"child,omitempty"`
	Action    string         `json:"action,omitempty" yaml:"action,omitempty"`
	Condition string         `json:"condition,omitempty" yaml:"condition,omitempty"`
	Params    map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// LoadJSON loads config from JSON reader.
func LoadJSON(r io.Reader) (*Config, error) {
	var c Config
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return &c, nil
}

// LoadYAML loads config from YAML reader.
func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return &c, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(f)
	}
	return LoadYAML(f)
}

// Build constructs the tree using reg for actions and conditions. Node names
// may be shared between parents; cycles are rejected.
func (c *Config) Build(reg *Registry) (*Tree, error) {
	if c.Root == "" {
		return NewTree(nil), nil
	}

	created := make(map[string]BehaviorNode)
	building := make(map[string]bool)

	var buildNode func(name string) (BehaviorNode, error)
	buildChildren := func(names []string) ([]BehaviorNode, error) {
		children := make([]BehaviorNode, 0, len(names))
		for _, name := range names {
			ch, err := buildNode(name)
			if err != nil {
				return nil, err
			}
			children = append(children, ch)
		}
		return children, nil
	}

	buildNode = func(name string) (BehaviorNode, error) {
		if n, ok := created[name]; ok {
			return n, nil
		}
		if building[name] {
			return nil, fmt.Errorf("%w: cycle through %q", ErrInvalidTree, name)
		}
		nc, ok := c.Nodes[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, name)
		}
		building[name] = true
		defer delete(building, name)

		var (
			node BehaviorNode
			err  error
		)
		switch strings.ToLower(nc.Type) {
		case "sequence":
			var children []BehaviorNode
			if children, err = buildChildren(nc.Children); err == nil {
				node = NewSequence(name, children...)
			}
		case "selector":
			var children []BehaviorNode
			if children, err = buildChildren(nc.Children); err == nil {
				node = NewSelector(name, children...)
			}
		case "inverter":
			if nc.Child == "" {
				return nil, fmt.Errorf("%w: inverter %q requires child", ErrInvalidTree, name)
			}
			var child BehaviorNode
			if child, err = buildNode(nc.Child); err == nil {
				node = NewInverter(name, child)
			}
		case "action":
			node, err = reg.NewAction(nc.Action, nc.Params)
		case "condition":
			node, err = reg.NewCondition(nc.Condition, nc.Params)
		default:
			return nil, fmt.Errorf("%w: unsupported node type %q", ErrInvalidTree, nc.Type)
		}
		if err != nil {
			return nil, err
		}
		created[name] = node
		return node, nil
	}

	root, err := buildNode(c.Root)
	if err != nil {
		return nil, err
	}
	return NewTree(root), nil
}

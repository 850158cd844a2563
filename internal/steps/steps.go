// Package steps loads runbook step definitions from YAML and flattens them
// into the ordered command list the sequencer walks.
package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrStepsUnavailable is returned for every load failure. The message is part
// of the wire contract and never carries more detail than this.
var ErrStepsUnavailable = errors.New("steps.yaml not found or invalid")

// Stage is a named group of steps. Names are informational only.
type Stage struct {
	Name  string
	Steps []string
}

// Definition is a parsed step file.
type Definition struct {
	Stages []Stage
}

// Flatten returns every step in stage order, then intra-stage order.
func (d *Definition) Flatten() []string {
	flat := make([]string, 0)
	for _, stage := range d.Stages {
		flat = append(flat, stage.Steps...)
	}
	return flat
}

// Load reads and validates the step file at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStepsUnavailable, err)
	}
	return Parse(data)
}

// LoadSteps reads the step file at path and returns the flattened steps.
func LoadSteps(path string) ([]string, error) {
	def, err := Load(path)
	if err != nil {
		return nil, err
	}
	return def.Flatten(), nil
}

// Parse decodes a single step document. The document must be a mapping with a
// "stages" sequence; each stage is a mapping whose optional "steps" key holds
// a sequence of scalars. Null steps are skipped.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); errors.Is(err, io.EOF) {
		return nil, invalid("empty document")
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStepsUnavailable, err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStepsUnavailable, err)
		}
		return nil, invalid("more than one document")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, invalid("empty document")
	}

	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, invalid("top-level value is not a mapping")
	}

	stagesNode := lookup(root, "stages")
	if stagesNode == nil {
		return nil, invalid("missing stages")
	}
	if stagesNode.Kind != yaml.SequenceNode {
		return nil, invalid("stages is not a sequence")
	}

	def := &Definition{Stages: make([]Stage, 0, len(stagesNode.Content))}
	for i, raw := range stagesNode.Content {
		stage, err := parseStage(resolve(raw))
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		def.Stages = append(def.Stages, stage)
	}
	return def, nil
}

func parseStage(node *yaml.Node) (Stage, error) {
	if node.Kind != yaml.MappingNode {
		return Stage{}, invalid("stage is not a mapping")
	}

	var stage Stage
	if name := lookup(node, "name"); name != nil && name.Kind == yaml.ScalarNode && !isNull(name) {
		stage.Name = name.Value
	}

	stepsNode := lookup(node, "steps")
	if stepsNode == nil {
		return stage, nil
	}
	if stepsNode.Kind != yaml.SequenceNode {
		return Stage{}, invalid("steps is not a sequence")
	}

	stage.Steps = make([]string, 0, len(stepsNode.Content))
	for _, raw := range stepsNode.Content {
		item := resolve(raw)
		if item.Kind != yaml.ScalarNode {
			return Stage{}, invalid("step is not a scalar")
		}
		if isNull(item) {
			continue
		}
		stage.Steps = append(stage.Steps, item.Value)
	}
	return stage, nil
}

// lookup returns the value node for key in a mapping node, or nil.
// Duplicate keys resolve to the last occurrence.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	var value *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if k := resolve(mapping.Content[i]); k.Kind == yaml.ScalarNode && k.Value == key {
			value = resolve(mapping.Content[i+1])
		}
	}
	return value
}

// resolve follows alias nodes to their anchors.
func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.ShortTag() == "!!null"
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrStepsUnavailable, reason)
}

// FileSource reads steps from a YAML file on every call.
type FileSource struct {
	Path string
}

// NewFileSource creates a source for the step file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Steps loads and flattens the file. The file is re-read on every call so
// edits between requests take effect immediately.
func (s *FileSource) Steps(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadSteps(s.Path)
}

package plan

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/ast"
)

// document is the top level of a YAML or JSON plan.
type document struct {
	Model      *ast.Model `yaml:"model"`
	Operations yaml.Node  `yaml:"operations"`
}

// Decode parses a YAML or JSON plan. JSON is read as YAML.
func Decode(path string, data []byte) (*Plan, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, alerr.Wrap(alerr.ErrPlanInvalid, err, "cannot parse plan").
			WithFile(path, 0)
	}

	p := &Plan{Path: path, Model: doc.Model, Operations: []ast.Operation{}}
	list := &doc.Operations
	if list.Kind == 0 {
		return p, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, alerr.New(alerr.ErrPlanInvalid, "operations must be a list").
			WithFile(path, list.Line)
	}

	lines := make([]int, 0, len(list.Content))
	for i, item := range list.Content {
		op, err := decodeItem(item)
		if err != nil {
			var ae *alerr.Error
			if !errors.As(err, &ae) {
				ae = alerr.Wrap(alerr.ErrPlanInvalid, err, "cannot decode operation")
			}
			return nil, ae.With("index", i).WithFile(path, item.Line)
		}
		p.Operations = append(p.Operations, op)
		lines = append(lines, item.Line)
	}

	if err := validate(path, p.Operations, lines); err != nil {
		return nil, err
	}
	return p, nil
}

// decodeItem decodes one single-key mapping: {kind: {fields...}}.
func decodeItem(item *yaml.Node) (ast.Operation, error) {
	if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
		return nil, alerr.New(alerr.ErrPlanInvalid, "operation must be a mapping with exactly one key").
			WithHelp("write each operation as `- create_table: {...}`")
	}
	key, body := item.Content[0], item.Content[1]

	kind, ok := ast.ParseOpType(key.Value)
	if !ok {
		return nil, alerr.New(alerr.ErrPlanInvalid, fmt.Sprintf("unknown operation kind %q", key.Value)).
			WithHelp("run `oraddl kinds` to list the supported kinds")
	}
	op, _ := ast.NewOperation(kind)
	if err := body.Decode(op); err != nil {
		return nil, alerr.Wrap(alerr.ErrPlanInvalid, err, "cannot decode "+kind.Key())
	}
	return op, nil
}

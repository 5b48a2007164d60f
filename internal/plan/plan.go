// Package plan loads schema operations from plan files.
//
// A plan is either a YAML/JSON document:
//
//	model:
//	  tables: [...]
//	operations:
//	  - create_table: {name: users, columns: [...]}
//	  - add_column: {table: users, column: {...}}
//
// or a JavaScript file calling one global function per operation kind:
//
//	createTable({name: "users", columns: [...]})
//	addColumn({table: "users", column: {...}})
//
// Every loaded operation is validated before it is returned.
package plan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/ast"
)

// DefaultJSTimeout bounds the evaluation of a single JS plan file.
const DefaultJSTimeout = 5 * time.Second

// Plan is the content of one plan file.
type Plan struct {
	Path       string
	Operations []ast.Operation
	Model      *ast.Model
}

// Options control plan loading.
type Options struct {
	// JSTimeout bounds JS evaluation. Zero means DefaultJSTimeout.
	JSTimeout time.Duration
}

func (o Options) jsTimeout() time.Duration {
	if o.JSTimeout <= 0 {
		return DefaultJSTimeout
	}
	return o.JSTimeout
}

// Supported plan file extensions.
var extensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
	".js":   true,
}

// IsPlanFile reports whether path has a plan file extension.
func IsPlanFile(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Load reads and decodes one plan file.
func Load(path string, opts Options) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrPlanInvalid, err, "cannot read plan file").
			WithFile(path, 0)
	}

	var p *Plan
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js":
		p, err = EvalJS(path, string(data), opts.jsTimeout())
	case ".yaml", ".yml", ".json":
		p, err = Decode(path, data)
	default:
		return nil, alerr.New(alerr.ErrPlanInvalid, "unsupported plan file extension").
			WithFile(path, 0).
			WithHelp("use .yaml, .yml, .json or .js")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// LoadAll loads several plan files concurrently. The result keeps the order
// of paths; the first error cancels the rest.
func LoadAll(ctx context.Context, paths []string, opts Options) ([]*Plan, error) {
	plans := make([]*Plan, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := Load(path, opts)
			if err != nil {
				return err
			}
			plans[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

// Merge concatenates the operations of plans in order. Models are merged
// table by table; a later plan's table replaces an earlier one of the same
// name.
func Merge(plans []*Plan) ([]ast.Operation, *ast.Model) {
	var ops []ast.Operation
	var model *ast.Model
	for _, p := range plans {
		ops = append(ops, p.Operations...)
		if p.Model == nil {
			continue
		}
		if model == nil {
			model = &ast.Model{}
		}
		for _, t := range p.Model.Tables {
			replaced := false
			for i, existing := range model.Tables {
				if strings.EqualFold(existing.Name, t.Name) {
					model.Tables[i] = t
					replaced = true
					break
				}
			}
			if !replaced {
				model.Tables = append(model.Tables, t)
			}
		}
	}
	if ops == nil {
		ops = []ast.Operation{}
	}
	return ops, model
}

// Discover expands args into plan file paths. Directories contribute their
// plan files sorted by name; files are kept as given.
func Discover(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrPlanInvalid, err, "cannot open plan path").
				WithFile(arg, 0)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrPlanInvalid, err, "cannot read plan directory").
				WithFile(arg, 0)
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && IsPlanFile(e.Name()) {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

// validate checks every operation and tags failures with their position.
func validate(path string, ops []ast.Operation, lines []int) error {
	for i, op := range ops {
		if err := op.Validate(); err != nil {
			line := 0
			if i < len(lines) {
				line = lines[i]
			}
			return alerr.Wrap(alerr.ErrPlanInvalid, err, "invalid operation").
				WithOperation(op.Type().String(), i).
				WithFile(path, line)
		}
	}
	return nil
}

// Package idempotent turns schema operations into an Oracle script that can
// be executed any number of times. Each operation becomes one or more
// PL/SQL blocks that consult the catalog before running the DDL produced by
// a dialect.Emitter.
package idempotent

import (
	"errors"
	"log/slog"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/ast"
	"github.com/hlop3z/oraddl/internal/dialect"
	"github.com/hlop3z/oraddl/internal/sqlgen"
)

// Options control generation policy.
type Options struct {
	// Strict fails generation when a nested trigger or comment string is
	// never closed by the producer.
	Strict bool

	// SkipUnsupported drops operations the dialect cannot express instead
	// of failing. Skipped operations are listed in Result.Skipped.
	SkipUnsupported bool
}

// Skipped records an operation left out of the script.
type Skipped struct {
	Index  int
	Kind   ast.OpType
	Reason string
}

// Result is the output of Generate.
type Result struct {
	// Commands are the script statements in execution order.
	Commands []sqlgen.Command

	// Skipped lists operations dropped under Options.SkipUnsupported.
	Skipped []Skipped
}

// Texts returns the command texts in order.
func (r *Result) Texts() []string {
	out := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		out[i] = c.Text
	}
	return out
}

// Generator builds idempotent scripts. It holds no per-script state and may
// be shared; each Generate call uses its own builder.
type Generator struct {
	emitter dialect.Emitter
	opts    Options
}

// New creates a Generator around the given producer.
// Returns nil if the emitter is nil.
func New(e dialect.Emitter, opts Options) *Generator {
	if e == nil {
		return nil
	}
	return &Generator{emitter: e, opts: opts}
}

// NewOracle creates a Generator around the Oracle producer.
func NewOracle(opts Options) *Generator {
	return New(dialect.Oracle(), opts)
}

// run is the state of one Generate call.
type run struct {
	b *sqlgen.Builder
	e dialect.Emitter
	m *ast.Model
}

// Generate compiles ops into commands. model is optional and only forwarded
// to the producer. Generation is atomic: on error no commands are returned.
func (g *Generator) Generate(ops []ast.Operation, model *ast.Model) (*Result, error) {
	if ops == nil {
		return nil, alerr.New(alerr.ErrInvalidInput, "operation list is nil")
	}
	for i, op := range ops {
		if op == nil {
			return nil, alerr.New(alerr.ErrInvalidInput, "operation is nil").
				With("index", i)
		}
	}

	var bopts []sqlgen.Option
	if g.opts.Strict {
		bopts = append(bopts, sqlgen.WithStrict())
	}
	r := &run{b: sqlgen.New(bopts...), e: g.emitter, m: model}
	res := &Result{}

	for i, op := range ops {
		kind := op.Type()
		h, ok := handlers[kind]
		if !ok {
			return nil, alerr.New(alerr.ErrUnsupportedOperation, "no handler for operation kind").
				WithOperation(kind.String(), i)
		}

		r.b.SetOrigin(i, kind.String())
		cp := r.b.Checkpoint()
		if err := h(r, op); err != nil {
			if g.opts.SkipUnsupported && alerr.Is(err, alerr.ErrUnsupportedOperation) {
				r.b.Rollback(cp)
				slog.Warn("skipping unsupported operation",
					"index", i,
					"kind", kind.String(),
					"dialect", g.emitter.Name())
				res.Skipped = append(res.Skipped, Skipped{Index: i, Kind: kind, Reason: reason(err)})
				continue
			}
			return nil, annotate(err, kind, i, op.Table())
		}
	}

	res.Commands = r.b.Build()
	if err := r.b.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// annotate adds the operation position to err.
func annotate(err error, kind ast.OpType, index int, table string) error {
	var ae *alerr.Error
	if !errors.As(err, &ae) {
		ae = alerr.Wrap(alerr.EInternalError, err, "operation failed")
	}
	ae = ae.WithOperation(kind.String(), index)
	if table != "" {
		ae = ae.WithTable(table)
	}
	return ae
}

func reason(err error) string {
	var ae *alerr.Error
	if errors.As(err, &ae) {
		return ae.GetMessage()
	}
	return err.Error()
}

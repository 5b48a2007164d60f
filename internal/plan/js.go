package plan

import (
	"time"

	"github.com/dop251/goja"
	"gopkg.in/yaml.v3"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/ast"
	"github.com/hlop3z/oraddl/internal/jsutil"
)

// maxCallStack limits recursion in plan scripts.
const maxCallStack = 500

// sandbox evaluates one JS plan file.
type sandbox struct {
	vm    *goja.Runtime
	path  string
	ops   []ast.Operation
	lines []int
	model *ast.Model
}

// JSName returns the global function name for a kind (e.g. "addColumn").
func JSName(kind ast.OpType) string {
	return kind.JSName()
}

func newSandbox(path string) *sandbox {
	vm := goja.New()
	vm.SetMaxCallStackSize(maxCallStack)
	disableDangerousGlobals(vm)

	s := &sandbox{vm: vm, path: path, ops: []ast.Operation{}}
	for _, kind := range ast.AllOpTypes() {
		vm.Set(JSName(kind), s.operationFunc(kind))
	}
	vm.Set("model", s.modelFunc())
	return s
}

// disableDangerousGlobals removes eval and freezes the builtin prototypes.
func disableDangerousGlobals(vm *goja.Runtime) {
	vm.Set("eval", goja.Undefined())

	_, _ = vm.RunString(`
		(function() {
			try {
				Object.freeze(Object.prototype);
				Object.freeze(Array.prototype);
				Object.freeze(String.prototype);
				Object.freeze(Number.prototype);
				Object.freeze(Boolean.prototype);
			} catch(e) {}
		})();
	`)
}

// EvalJS runs a JS plan and collects the operations it declares.
func EvalJS(path, code string, timeout time.Duration) (*Plan, error) {
	s := newSandbox(path)

	timer := time.AfterFunc(timeout, func() {
		s.vm.Interrupt("execution timeout")
	})
	defer timer.Stop()

	if _, err := s.vm.RunScript(path, code); err != nil {
		e := jsutil.WrapJSError(err, alerr.ErrJSExecution, "plan script").
			WithFile(path, jsutil.ExceptionLine(err, path))
		if e.GetCode() == alerr.ErrJSTimeout {
			e = e.With("timeout", timeout.String())
		}
		return nil, e
	}

	if err := validate(path, s.ops, s.lines); err != nil {
		return nil, err
	}
	return &Plan{Path: path, Operations: s.ops, Model: s.model}, nil
}

// operationFunc returns the global that records one operation of kind.
func (s *sandbox) operationFunc(kind ast.OpType) func(goja.FunctionCall) goja.Value {
	name := JSName(kind)
	return func(call goja.FunctionCall) goja.Value {
		op, _ := ast.NewOperation(kind)
		s.decode(name, call.Argument(0), op)
		s.ops = append(s.ops, op)
		s.lines = append(s.lines, s.callerLine())
		return goja.Undefined()
	}
}

// modelFunc returns the model() global, which sets the plan's target model.
func (s *sandbox) modelFunc() func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		m := &ast.Model{}
		s.decode("model", call.Argument(0), m)
		s.model = m
		return goja.Undefined()
	}
}

// decode converts a JS object into out using the YAML field names. Failures
// are thrown into the script as TypeErrors.
func (s *sandbox) decode(fn string, arg goja.Value, out any) {
	if jsutil.IsNullish(arg) {
		panic(s.vm.NewTypeError(fn + "() requires an object argument"))
	}
	exported, ok := jsutil.ToGoMap(arg)
	if !ok {
		panic(s.vm.NewTypeError(fn + "() argument must be an object"))
	}

	var node yaml.Node
	if err := node.Encode(exported); err != nil {
		panic(s.vm.NewTypeError(fn + "(): " + err.Error()))
	}
	if err := node.Decode(out); err != nil {
		panic(s.vm.NewTypeError(fn + "(): " + err.Error()))
	}
}

// callerLine returns the plan line of the current call, or 0.
func (s *sandbox) callerLine() int {
	for _, frame := range s.vm.CaptureCallStack(0, nil) {
		if frame.SrcName() == s.path {
			return frame.Position().Line
		}
	}
	return 0
}

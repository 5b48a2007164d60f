// Package jsutil converts values and errors crossing the goja boundary.
package jsutil

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/hlop3z/oraddl/internal/alerr"
)

// IsNullish reports whether v is missing, undefined or null.
func IsNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

// ToGoMap converts a JS object into a map. Returns false for nullish values
// and anything that is not a plain object.
func ToGoMap(v goja.Value) (map[string]any, bool) {
	if IsNullish(v) {
		return nil, false
	}
	o, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	if m, ok := o.Export().(map[string]any); ok {
		return m, true
	}
	return nil, false
}

// ExceptionLine returns the line a thrown JS exception points at, or 0.
func ExceptionLine(err error, file string) int {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return 0
	}
	for _, frame := range ex.Stack() {
		if frame.SrcName() == file {
			return frame.Position().Line
		}
	}
	return 0
}

// WrapJSError wraps an error returned by the runtime. Interrupts become
// ErrJSTimeout; everything else gets code. Returns nil for a nil error.
func WrapJSError(err error, code alerr.Code, msg string) *alerr.Error {
	if err == nil {
		return nil
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return alerr.Wrap(alerr.ErrJSTimeout, err, msg+" timed out")
	}
	return alerr.Wrap(code, err, msg)
}

package instrument

import (
	"fmt"

	"strictivars/internal/ast"
)

// evalMethods are the dynamic code execution entry points whose arguments
// are routed through the runtime.
var evalMethods = map[string]bool{
	"eval":          true,
	"instance_eval": true,
	"class_eval":    true,
	"module_eval":   true,
}

const (
	evalClose           = "))"
	evalForwardingClose = ")), &(::StrictIvars.__eval_block_from_forwarding__(...))"
)

// EvalSite records one rewritten eval call.
type EvalSite struct {
	Method   string
	Position ast.Position
	Receiver string // temporary name, empty for implicit self
}

// isEvalCall reports whether call is rewritten. A block pass alone is not
// an argument list.
func isEvalCall(call *ast.Call) bool {
	return evalMethods[call.Name] && call.Arguments != nil
}

// openEval pushes the opening annotations of an eval rewrite and returns a
// function pushing the closing ones. The caller visits the call's children
// in between.
func (w *walker) openEval(call *ast.Call) func() {
	args := call.Arguments
	closing := evalClose
	if args.Forwarding {
		closing = evalForwardingClose
	}

	site := EvalSite{Method: call.Name, Position: call.NamePos}
	receiver := "self"
	if !ast.IsNil(call.Receiver) {
		w.evalCounter++
		receiver = fmt.Sprintf("__eval_receiver_%d__", w.evalCounter)
		site.Receiver = receiver
		w.annotations.Push(call.Receiver.NodePos().Offset, "("+receiver+" = ")
	}
	w.annotations.Push(args.NodePos().Offset,
		"*(::StrictIvars.__process_eval_args__("+receiver+", :"+call.Name+", ")
	w.evals = append(w.evals, site)

	return func() {
		if !ast.IsNil(call.Receiver) {
			w.annotations.Push(call.Receiver.NodeEndPos().Offset, ")")
		}
		w.annotations.Push(args.NodeEndPos().Offset, closing)
	}
}

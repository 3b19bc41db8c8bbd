package eventsvc

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/proger/faeton/internal/eventlog"
)

// celFilter wraps a compiled CEL program evaluated per delivered event. When
// disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("ts_ms", cel.IntType),
		// "kind" rather than "type": type is a CEL builtin.
		cel.Variable("kind", cel.StringType),
		cel.Variable("text", cel.StringType),
		cel.Variable("source", cel.StringType),
		cel.Variable("node", cel.StringType),
		cel.Variable("filename", cel.StringType),
		// Current time in ms for windowed filters
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against an event. When disabled,
// returns true. Evaluation errors drop the event rather than the stream.
func (f celFilter) Eval(ev eventlog.Event) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"ts_ms":    int64(ev.TS) / 1000,
		"kind":     ev.Type,
		"text":     ev.Text,
		"source":   ev.Source,
		"node":     ev.Node,
		"filename": ev.Filename,
		"now_ms":   time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

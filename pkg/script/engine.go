// Package script evaluates solid-description scripts into procedural
// meshes. It wraps zygomys in a sandboxed environment: a script builds
// an sdfx solid from primitive and boolean builtins, and the script's
// final value is tessellated into triangle soup.
//
// Example script:
//
//	(difference
//	  (box 60 40 20)
//	  (translate (cylinder 30 8) 0 0 5))
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/deadsy/sdfx/sdf"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/meshvet/meshvet/pkg/mesh"
	"github.com/meshvet/meshvet/pkg/procgen"
)

// EvalError represents a non-fatal error encountered during
// evaluation, such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates scripts into meshes. Each call to Evaluate creates
// a fresh sandboxed environment for determinism; the Engine itself only
// tracks evaluation generations so stale results can be discarded.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	// cells is the marching-cubes resolution used to tessellate the
	// script's result. Zero means procgen.DefaultCells. Guarded by mu:
	// Evaluate snapshots it before the evaluation goroutine starts.
	cells int
}

// SetCells changes the tessellation resolution for later evaluations.
func (e *Engine) SetCells(cells int) {
	e.mu.Lock()
	e.cells = cells
	e.mu.Unlock()
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs source in a fresh zygomys sandbox and tessellates the
// resulting solid.
//
// Return semantics:
//   - On success: mesh + nil errors + nil error
//   - On parse/eval failure: nil mesh + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Evaluate(source string) (*mesh.Mesh, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	cells := e.cells
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		m, evalErrs, err := e.evaluate(source, cells)
		ch <- evalResult{mesh: m, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
// cells is the resolution snapshot taken when the evaluation started.
func (e *Engine) evaluate(source string, cells int) (*mesh.Mesh, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: "script is empty"}}, nil
	}

	// Sandbox mode prevents user code from touching the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env)

	if err := env.LoadString(source); err != nil {
		return nil, parseZygomysError(err), nil
	}

	result, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	solid, ok := result.(*sexpSolid)
	if !ok {
		return nil, []EvalError{{Message: fmt.Sprintf("script must evaluate to a solid, got %T", result)}}, nil
	}

	m, err := procgen.Tessellate("script", solid.s, cells)
	if err != nil {
		return nil, nil, fmt.Errorf("tessellate script result: %w", err)
	}
	return m, nil, nil
}

// linePattern matches zygomys error messages that include
// "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting line numbers from the message where possible.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}

// sexpSolid wraps an sdf.SDF3 so solids can be passed between builtins.
type sexpSolid struct {
	s    sdf.SDF3
	desc string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(solid %s)", s.desc)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

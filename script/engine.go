// Package script compiles breakpoints written in Lua. Expressions see the
// container dimensions as the locals width and height, which are nil until
// the container is measured:
//
//	width >= 100 and height > 20
//
// Scripts loaded with DoFile can also register named breakpoints:
//
//	relsize.breakpoint("wide", function(s) return s.width ~= nil and s.width >= 100 end)
package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	glua "github.com/yuin/gopher-lua"

	"github.com/drake/relsize/box"
	"github.com/drake/relsize/breakpoint"
	"github.com/drake/relsize/internal/logging"
)

// ErrUnknownBreakpoint is returned when a named breakpoint was never registered.
var ErrUnknownBreakpoint = errors.New("unknown breakpoint")

const cacheSize = 128

// Engine wraps a gopher-lua state. It is not safe for concurrent use;
// breakpoints it returns must be evaluated on the goroutine that owns it.
type Engine struct {
	L      *glua.LState
	cache  *lru.Cache[string, *glua.LFunction]
	named  map[string]*glua.LFunction
	logger *logging.Logger

	relsizeTable *glua.LTable
}

// NewEngine creates an initialized engine.
func NewEngine(logger *logging.Logger) *Engine {
	e := &Engine{logger: logger}
	e.Init()
	return e
}

// Init (re)creates the Lua state, dropping compiled and named breakpoints.
// Breakpoints compiled before Init evaluate to false afterwards.
func (e *Engine) Init() {
	if e.L != nil {
		e.L.Close()
	}
	e.L = glua.NewState()
	cache, _ := lru.New[string, *glua.LFunction](cacheSize)
	e.cache = cache
	e.named = make(map[string]*glua.LFunction)
	e.registerAPIs()
}

// Close releases the Lua state.
func (e *Engine) Close() {
	if e.L != nil {
		e.L.Close()
		e.L = nil
	}
	e.cache = nil
	e.named = nil
}

// Compile turns a Lua boolean expression into a breakpoint. Identical
// expressions share one compiled chunk.
func (e *Engine) Compile(expr string) (breakpoint.Breakpoint, error) {
	fn, err := e.compile(expr)
	if err != nil {
		return nil, err
	}
	return e.wrap(expr, fn, false), nil
}

func (e *Engine) compile(expr string) (*glua.LFunction, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("empty breakpoint expression")
	}
	if fn, ok := e.cache.Get(expr); ok {
		return fn, nil
	}

	src := "return function(width, height) return (" + expr + ") end"
	chunk, err := e.L.Load(strings.NewReader(src), "breakpoint")
	if err != nil {
		return nil, fmt.Errorf("compile breakpoint %q: %w", expr, err)
	}
	e.L.Push(chunk)
	if err := e.L.PCall(0, 1, nil); err != nil {
		return nil, fmt.Errorf("compile breakpoint %q: %w", expr, err)
	}
	fn, ok := e.L.Get(-1).(*glua.LFunction)
	e.L.Pop(1)
	if !ok {
		return nil, fmt.Errorf("compile breakpoint %q: not a function", expr)
	}

	e.cache.Add(expr, fn)
	return fn, nil
}

// CompileAll compiles expressions in order.
func (e *Engine) CompileAll(exprs ...string) ([]breakpoint.Breakpoint, error) {
	bps := make([]breakpoint.Breakpoint, 0, len(exprs))
	for _, expr := range exprs {
		bp, err := e.Compile(expr)
		if err != nil {
			return nil, err
		}
		bps = append(bps, bp)
	}
	return bps, nil
}

// Named returns a breakpoint registered by a script.
func (e *Engine) Named(name string) (breakpoint.Breakpoint, error) {
	fn, ok := e.named[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBreakpoint, name)
	}
	return e.wrap(name, fn, true), nil
}

// Define registers expr under name, replacing any earlier definition.
func (e *Engine) Define(name, expr string) error {
	fn, err := e.compile(expr)
	if err != nil {
		return err
	}
	// Adapt the (width, height) chunk to the table calling convention.
	e.named[name] = e.L.NewFunction(func(L *glua.LState) int {
		t := L.CheckTable(1)
		L.Push(fn)
		L.Push(L.GetField(t, "width"))
		L.Push(L.GetField(t, "height"))
		L.Call(2, 1)
		return 1
	})
	return nil
}

// Names returns the registered breakpoint names, sorted.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.named))
	for name := range e.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CacheLen returns the number of cached compiled expressions.
func (e *Engine) CacheLen() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

// DoString runs a chunk of Lua.
func (e *Engine) DoString(name, code string) error {
	fn, err := e.L.Load(strings.NewReader(code), name)
	if err != nil {
		return err
	}
	e.L.Push(fn)
	return e.L.PCall(0, 0, nil)
}

// DoFile runs a Lua file. A leading ~ expands to the home directory.
func (e *Engine) DoFile(path string) error {
	absPath, err := filepath.Abs(expandTilde(path))
	if err != nil {
		return err
	}
	return e.L.DoFile(absPath)
}

// wrap adapts a Lua function to a breakpoint. Table-style functions
// registered by scripts receive {width=, height=}; compiled expressions
// receive width and height as arguments. Runtime errors count as false.
func (e *Engine) wrap(label string, fn *glua.LFunction, table bool) breakpoint.Breakpoint {
	L := e.L
	return func(s box.Size) bool {
		if e.L != L || L == nil {
			return false
		}

		var args []glua.LValue
		if table {
			t := L.NewTable()
			L.SetField(t, "width", dimValue(s.Width, s.HasWidth))
			L.SetField(t, "height", dimValue(s.Height, s.HasHeight))
			args = []glua.LValue{t}
		} else {
			args = []glua.LValue{dimValue(s.Width, s.HasWidth), dimValue(s.Height, s.HasHeight)}
		}

		if err := L.CallByParam(glua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			// Comparing a nil dimension fails until the container is
			// measured; only failures on a measured size are warnings.
			if s.Measured() {
				e.logger.Warn("breakpoint evaluation failed", "breakpoint", label, "error", err.Error())
			} else {
				e.logger.Debug("breakpoint evaluation failed before measurement", "breakpoint", label, "error", err.Error())
			}
			return false
		}
		ret := L.Get(-1)
		L.Pop(1)
		return glua.LVAsBool(ret)
	}
}

func (e *Engine) registerAPIs() {
	e.relsizeTable = e.L.NewTable()
	e.L.SetGlobal("relsize", e.relsizeTable)

	// relsize.breakpoint(name, fn)
	e.L.SetField(e.relsizeTable, "breakpoint", e.L.NewFunction(func(L *glua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)
		e.named[name] = fn
		return 0
	}))

	// relsize.expr(name, expression): register a named expression
	e.L.SetField(e.relsizeTable, "expr", e.L.NewFunction(func(L *glua.LState) int {
		if err := e.Define(L.CheckString(1), L.CheckString(2)); err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}))
}

func dimValue(v int, ok bool) glua.LValue {
	if !ok {
		return glua.LNil
	}
	return glua.LNumber(v)
}

// expandTilde expands ~ to home directory.
func expandTilde(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

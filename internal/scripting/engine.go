package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding entity behaviours.
// Single-goroutine access only (tick loop).
//
// A behaviour is a global table with optional hook functions:
//
//	spinner = {}
//	function spinner.on_init(self) end
//	function spinner.on_update(self, dt) self:translate(0, dt, 0) end
//	function spinner.on_cleanup(self) end
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir.
// A missing directory yields an empty engine.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source, typically to define behaviours.
func (e *Engine) LoadString(name, src string) error {
	fn, err := e.vm.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("compile %s: %w", name, err)
	}
	e.vm.Push(fn)
	if err := e.vm.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// HasBehaviour reports whether a global behaviour table exists.
func (e *Engine) HasBehaviour(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LTable)
	return ok
}

// Target is what a behaviour's self can see of its entity.
type Target interface {
	Name() string
	Position() (x, y, z float64)
	SetPosition(x, y, z float64)
	Destroy()
}

// Binding is one behaviour instance attached to one target.
type Binding struct {
	engine    *Engine
	behaviour string
	hooks     *lua.LTable
	self      *lua.LTable
}

// Bind creates a behaviour instance for target. The instance's self table
// carries per-instance state plus the target API.
func (e *Engine) Bind(behaviour string, target Target) (*Binding, error) {
	hooks, ok := e.vm.GetGlobal(behaviour).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("lua behaviour %q not defined", behaviour)
	}
	return &Binding{
		engine:    e,
		behaviour: behaviour,
		hooks:     hooks,
		self:      e.newSelf(target),
	}, nil
}

func (e *Engine) newSelf(target Target) *lua.LTable {
	L := e.vm
	self := L.NewTable()
	self.RawSetString("name", lua.LString(target.Name()))
	self.RawSetString("position", L.NewFunction(func(L *lua.LState) int {
		x, y, z := target.Position()
		L.Push(lua.LNumber(x))
		L.Push(lua.LNumber(y))
		L.Push(lua.LNumber(z))
		return 3
	}))
	self.RawSetString("set_position", L.NewFunction(func(L *lua.LState) int {
		target.SetPosition(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), float64(L.CheckNumber(4)))
		return 0
	}))
	self.RawSetString("translate", L.NewFunction(func(L *lua.LState) int {
		x, y, z := target.Position()
		target.SetPosition(
			x+float64(L.OptNumber(2, 0)),
			y+float64(L.OptNumber(3, 0)),
			z+float64(L.OptNumber(4, 0)),
		)
		return 0
	}))
	self.RawSetString("destroy", L.NewFunction(func(L *lua.LState) int {
		target.Destroy()
		return 0
	}))
	self.RawSetString("log", L.NewFunction(func(L *lua.LState) int {
		e.log.Info("lua", zap.String("entity", target.Name()), zap.String("msg", L.CheckString(2)))
		return 0
	}))
	return self
}

func (b *Binding) Behaviour() string { return b.behaviour }

// Init runs on_init. A Lua error fails the owning component's Init.
func (b *Binding) Init() error {
	return b.call("on_init")
}

// Update runs on_update with dt in seconds.
func (b *Binding) Update(dt time.Duration) error {
	return b.call("on_update", lua.LNumber(dt.Seconds()))
}

// Cleanup runs on_cleanup. Errors are logged, not returned.
func (b *Binding) Cleanup() {
	if err := b.call("on_cleanup"); err != nil {
		b.engine.log.Error("lua on_cleanup error", zap.String("behaviour", b.behaviour), zap.Error(err))
	}
}

// Field reads a value the behaviour stored on self, for inspection.
func (b *Binding) Field(name string) lua.LValue {
	return b.self.RawGetString(name)
}

func (b *Binding) call(hook string, args ...lua.LValue) error {
	fn, ok := b.hooks.RawGetString(hook).(*lua.LFunction)
	if !ok {
		return nil
	}
	params := append([]lua.LValue{b.self}, args...)
	if err := b.engine.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, params...); err != nil {
		return fmt.Errorf("lua %s.%s: %w", b.behaviour, hook, err)
	}
	return nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

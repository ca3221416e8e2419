// Package script runs act policies written in Lua. A script defines
//
//	function act(attempt) ... return success, dollars, credits end
//
// where attempt carries rank, role_rank, rehearsals, budget, on_card and
// roll. Returning only success pays the scene's schedule for that outcome.
//
// Scripts run without os, io, file loading or require. math.random and
// math.randomseed are removed so an attempt's outcome depends only on its
// fields; use attempt.roll for chance.
package script

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/appengine-ltd/deadwood/internal/game"
)

const actFunc = "act"

var ErrNoActFunction = errors.New("script does not define act(attempt)")

// Policy is a game.ActPolicy backed by a Lua state. Resolve is safe for
// concurrent use; calls are serialised on the state.
type Policy struct {
	mu     sync.Mutex
	state  *lua.LState
	act    lua.LValue
	name   string
	logger *log.Logger
}

var _ game.ActPolicy = (*Policy)(nil)

func New(src, name string, logger *log.Logger) (*Policy, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	if err := openLibs(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	fn := L.GetGlobal(actFunc)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoActFunction)
	}
	return &Policy{state: L, act: fn, name: name, logger: logger}, nil
}

// Load reads a policy from disk and rejects it unless better rank or more
// rehearsals can never turn a success into a failure.
func Load(path string, logger *log.Logger) (*Policy, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	p, err := New(string(src), filepath.Base(path), logger)
	if err != nil {
		return nil, err
	}
	if err := game.CheckMonotone(p); err != nil {
		p.Close()
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	return p, nil
}

// Globals that load code from disk.
var fileLoaders = []string{"dofile", "loadfile", "require"}

// openLibs loads the pure libraries only and strips anything that reaches
// the filesystem or an unseeded source of randomness.
func openLibs(L *lua.LState) error {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return err
		}
	}
	for _, name := range fileLoaders {
		L.SetGlobal(name, lua.LNil)
	}
	if mathLib, ok := L.GetGlobal(lua.MathLibName).(*lua.LTable); ok {
		L.SetField(mathLib, "random", lua.LNil)
		L.SetField(mathLib, "randomseed", lua.LNil)
	}
	return nil
}

func (p *Policy) Name() string {
	return p.name
}

// Resolve calls act(attempt). A script error counts as a failed attempt
// that pays nothing.
func (p *Policy) Resolve(a game.ActAttempt) game.Payout {
	p.mu.Lock()
	defer p.mu.Unlock()

	L := p.state
	if L == nil {
		return game.NewPayout(false, game.Amount{})
	}
	attempt := L.NewTable()
	attempt.RawSetString("rank", lua.LNumber(a.Rank))
	attempt.RawSetString("role_rank", lua.LNumber(a.RoleRank))
	attempt.RawSetString("rehearsals", lua.LNumber(a.Rehearsals))
	attempt.RawSetString("budget", lua.LNumber(a.Budget))
	attempt.RawSetString("on_card", lua.LBool(a.OnCard))
	attempt.RawSetString("roll", lua.LNumber(a.Roll))

	if err := L.CallByParam(lua.P{Fn: p.act, NRet: 3, Protect: true}, attempt); err != nil {
		p.logger.Printf("policy %s: act failed: %v", p.name, err)
		return game.NewPayout(false, game.Amount{})
	}
	ok, dollars, credits := L.Get(-3), L.Get(-2), L.Get(-1)
	L.Pop(3)

	success := lua.LVAsBool(ok)
	amount := a.Schedule.For(a.OnCard, success)
	if dollars.Type() == lua.LTNumber || credits.Type() == lua.LTNumber {
		amount = game.Amount{Dollars: toAmount(dollars), Credits: toAmount(credits)}
	}
	return game.NewPayout(success, amount)
}

func toAmount(v lua.LValue) int {
	if v.Type() != lua.LTNumber {
		return 0
	}
	return max(0, int(lua.LVAsNumber(v)))
}

func (p *Policy) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != nil {
		p.state.Close()
		p.state = nil
	}
}

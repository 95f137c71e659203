// Package autopilot steers a game from a Lua script.
//
// A script defines a global function next_direction(state) and returns one of
// "up", "down", "left", "right", or nil to keep the current heading. state is a
// table with the fields head, food (tables with x and y), heading (dx, dy),
// body (array of {x, y}, head first), length, score and grid.
package autopilot

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Mshel/gridsnake/internal/game"
	lua "github.com/yuin/gopher-lua"
)

const entryPoint = "next_direction"

// BuiltinName selects BuiltinScript instead of a file.
const BuiltinName = "builtin"

// BuiltinScript chases the food along the shorter way around the torus.
const BuiltinScript = `
local function shortest(delta, grid)
	local half = grid / 2
	if delta > half then return delta - grid end
	if delta < -half then return delta + grid end
	return delta
end

function next_direction(state)
	local dx = shortest(state.food.x - state.head.x, state.grid)
	local dy = shortest(state.food.y - state.head.y, state.grid)
	if dx > 0 and state.heading.dx ~= -1 then return "right" end
	if dx < 0 and state.heading.dx ~= 1 then return "left" end
	if dy > 0 and state.heading.dy ~= -1 then return "down" end
	if dy < 0 and state.heading.dy ~= 1 then return "up" end
	return nil
end
`

var ErrMissingEntryPoint = errors.New("script does not define " + entryPoint)

// Autopilot is not safe for concurrent use; the game loop owns it.
type Autopilot struct {
	luaState *lua.LState
	fn       lua.LValue
}

// Load reads a script from path, or the builtin one for BuiltinName.
func Load(path string) (*Autopilot, error) {
	if path == BuiltinName {
		return LoadString(BuiltinScript)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read autopilot script: %w", err)
	}
	return LoadString(string(source))
}

func LoadString(source string) (*Autopilot, error) {
	luaState := lua.NewState(lua.Options{SkipOpenLibs: true})
	// base, table, string and math only, scripts get no io or os
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		luaState.Push(luaState.NewFunction(lib.fn))
		luaState.Push(lua.LString(lib.name))
		luaState.Call(1, 0)
	}

	if err := luaState.DoString(source); err != nil {
		luaState.Close()
		return nil, fmt.Errorf("could not parse lua script: %w", err)
	}

	fn := luaState.GetGlobal(entryPoint)
	if fn.Type() != lua.LTFunction {
		luaState.Close()
		return nil, ErrMissingEntryPoint
	}
	return &Autopilot{luaState: luaState, fn: fn}, nil
}

func (a *Autopilot) Close() {
	a.luaState.Close()
}

// NextSymbol runs the script against frame.
func (a *Autopilot) NextSymbol(frame game.Frame) (game.Symbol, bool, error) {
	err := a.luaState.CallByParam(lua.P{
		Fn:      a.fn,
		NRet:    1,
		Protect: true,
	}, a.stateTable(frame))
	if err != nil {
		return 0, false, fmt.Errorf("could not execute lua script: %w", err)
	}

	ret := a.luaState.Get(-1)
	a.luaState.Pop(1)

	switch ret.Type() {
	case lua.LTNil:
		return 0, false, nil
	case lua.LTString:
		name := lua.LVAsString(ret)
		sym, ok := game.ParseSymbol(name)
		if !ok {
			return 0, false, fmt.Errorf("lua script returned unknown direction %q", strings.TrimSpace(name))
		}
		return sym, true, nil
	default:
		return 0, false, fmt.Errorf("lua script returned %s, expected string or nil", ret.Type().String())
	}
}

func (a *Autopilot) stateTable(frame game.Frame) *lua.LTable {
	L := a.luaState
	state := L.NewTable()

	body := L.NewTable()
	for _, segment := range frame.Snake {
		body.Append(a.positionTable(segment))
	}

	heading := L.NewTable()
	heading.RawSetString("dx", lua.LNumber(frame.Heading.Dx))
	heading.RawSetString("dy", lua.LNumber(frame.Heading.Dy))

	state.RawSetString("head", a.positionTable(frame.Head()))
	state.RawSetString("food", a.positionTable(frame.Food))
	state.RawSetString("heading", heading)
	state.RawSetString("body", body)
	state.RawSetString("length", lua.LNumber(len(frame.Snake)))
	state.RawSetString("score", lua.LNumber(frame.Score))
	state.RawSetString("grid", lua.LNumber(frame.GridSize))
	return state
}

func (a *Autopilot) positionTable(p game.Position) *lua.LTable {
	t := a.luaState.NewTable()
	t.RawSetString("x", lua.LNumber(p.X))
	t.RawSetString("y", lua.LNumber(p.Y))
	return t
}

package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/Du4lity5151/DestinationSol/types"
)

// rawEvent is a ReputationEvent declaration.
type rawEvent struct {
	module string
	name   string
	impact int
}

// rawImpact is a ReputationImpact declaration.
type rawImpact struct {
	module  string
	faction types.FactionID
	deltas  map[string]int
}

// registerAPI registers the module-script constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// ReputationEvent "Name" { impact = N }
	L.SetGlobal("ReputationEvent", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		module := coll.module
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			impact, ok := tbl.RawGetString("impact").(lua.LNumber)
			if !ok {
				L.ArgError(1, "impact must be a number")
			}
			coll.events = append(coll.events, rawEvent{module: module, name: name, impact: int(impact)})
			return 0
		}))
		return 1
	}))

	// ReputationImpact "module:faction" { EventName = N, ... }
	L.SetGlobal("ReputationImpact", L.NewFunction(func(L *lua.LState) int {
		id := types.FactionID(qualify(coll.module, L.CheckString(1)))
		module := coll.module
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			deltas := map[string]int{}
			tbl.ForEach(func(k, v lua.LValue) {
				name, ok := k.(lua.LString)
				if !ok {
					L.ArgError(1, "event names must be strings")
				}
				delta, ok := v.(lua.LNumber)
				if !ok {
					L.ArgError(1, "impact of "+string(name)+" must be a number")
				}
				deltas[string(name)] = int(delta)
			})
			coll.impacts = append(coll.impacts, rawImpact{module: module, faction: id, deltas: deltas})
			return 0
		}))
		return 1
	}))
}

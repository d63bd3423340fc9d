package lua

import (
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// safeModules are the modules require may return.
var safeModules = map[string]bool{
	lua.StringLibName: true,
	lua.TabLibName:    true,
	lua.MathLibName:   true,
}

// removedGlobals can load code from outside the sandbox.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
}

// installSandbox opens the safe standard libraries on L and replaces the
// functions that could escape them.
func installSandbox(L *lua.LState, logger *slog.Logger) error {
	// io, os and debug are intentionally not opened.
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return err
		}
	}

	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	installPrint(L, logger)
	installRequire(L)
	return nil
}

// installPrint routes print to the logger.
func installPrint(L *lua.LState, logger *slog.Logger) {
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		logger.Info("lua print", "output", strings.Join(parts, "\t"))
		return 0
	}))
}

// installRequire replaces require with one that only returns safe modules
// and clears the package search paths.
func installRequire(L *lua.LState) {
	if pkg, ok := L.GetGlobal(lua.LoadLibName).(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safeModules[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(L.GetGlobal(name))
		return 1
	}))
}

package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips everything that reaches outside the VM: command
// execution and process control (os), file access (io), code loading
// (require, dofile, loadfile, load, loadstring) and the debug library.
// string, table, math and the basic functions stay available so config
// files can branch on the platform table.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range []string{
		"os",
		"io",
		"require",
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"debug",
		"collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a new Lua VM with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize: 256,
		RegistrySize:  1024 * 8,
	})
	sandboxLuaVM(L)
	return L
}

package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable exposes info to Lua as a read-only global named
// "platform". It must be called before user config code runs.
func InjectPlatformTable(L *lua.LState, info *Info) {
	t := L.NewTable()

	L.SetField(t, "name", lua.LString(info.Platform))
	L.SetField(t, "arch", lua.LString(info.Arch))
	L.SetField(t, "raw_platform", lua.LString(info.RawPlatform))
	L.SetField(t, "raw_arch", lua.LString(info.RawArch))

	L.SetField(t, "is_windows", lua.LBool(info.IsWindows()))
	L.SetField(t, "is_macos", lua.LBool(info.IsMacOS()))
	L.SetField(t, "is_linux", lua.LBool(info.IsLinux()))
	L.SetField(t, "is_aarch64", lua.LBool(info.IsAArch64()))

	if info.Distro != "" {
		distro := L.NewTable()
		L.SetField(distro, "id", lua.LString(info.Distro))
		L.SetField(distro, "family", lua.LString(info.Family))
		L.SetField(distro, "version", lua.LString(info.DistroVersion))
		L.SetField(t, "distro", distro)
	}

	L.SetGlobal("platform", readOnly(L, t))
}

// readOnly wraps table in an empty proxy whose metatable forwards reads and
// rejects writes.
func readOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"path/filepath"

	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"
)

// libraries a configuration script may use, io and package stay closed
var luaLibraries = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
	{lua.OsLibName, lua.OpenOs},
}

// ParseConfigurationFile - run a Lua configuration script and map the
// table it returns onto config
//
// the script sees arg[0] as its own file name and config_directory
// as the directory holding it, fields it leaves out keep the values
// already in config
func ParseConfigurationFile(fileName string, config interface{}) error {
	L, err := newState(fileName)
	if nil != err {
		return err
	}
	defer L.Close()

	if err := L.DoFile(fileName); nil != err {
		return err
	}

	table, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return fmt.Errorf("configuration: %q does not return a table", fileName)
	}

	mapper := gluamapper.NewMapper(gluamapper.Option{
		NameFunc: func(s string) string { return s },
		TagName:  "gluamapper",
	})
	if err := mapper.Map(table, config); nil != err {
		return fmt.Errorf("configuration: %q  error: %w", fileName, err)
	}
	return nil
}

// interpreter with the script globals set
func newState(fileName string) (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range luaLibraries {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if nil != err {
			L.Close()
			return nil, err
		}
	}

	arg := L.NewTable()
	arg.RawSetInt(0, lua.LString(fileName))
	L.SetGlobal("arg", arg)
	L.SetGlobal("config_directory", lua.LString(filepath.Dir(fileName)))
	return L, nil
}

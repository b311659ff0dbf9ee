// Package config loads the grid configuration from TOML.
//
// A configuration file describes the grid options, the columns and
// column groups, the log settings and the Lua scripts that render cells:
//
//	[grid]
//	can_drag = true
//	group_by = ["team"]
//
//	[[columns]]
//	prop = "name"
//	template = "upper"
//
//	[plugins]
//	scripts = ["render.lua"]
//
// Missing keys keep the values of Default. Unknown keys are parse
// errors. Environment variables with the GRIDSTORM_ prefix override a
// small set of settings, see ApplyEnv.
//
// A Watcher reloads the file when it changes on disk.
package config

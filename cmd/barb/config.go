package main

import (
	"github.com/BurntSushi/toml"

	"github.com/user/barb"
)

// fileConfig mirrors barb.Settings for .barb.toml decoding.
type fileConfig struct {
	BindGlobalsWhenReducing bool           `toml:"bind_globals_when_reducing"`
	FailOnCatchAll          bool           `toml:"fail_on_catch_all"`
	Namespaces              []string       `toml:"namespaces"`
	AdditionalBindings      map[string]any `toml:"bindings"`
}

// loadSettings reads path (if non-empty) into barb.Settings, falling
// back to barb.DefaultSettings when no file was given.
func loadSettings(path string) (barb.Settings, error) {
	s := barb.DefaultSettings()
	if path == "" {
		return s, nil
	}

	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return barb.Settings{}, err
	}
	if meta.IsDefined("bind_globals_when_reducing") {
		s.BindGlobalsWhenReducing = fc.BindGlobalsWhenReducing
	}
	if meta.IsDefined("fail_on_catch_all") {
		s.FailOnCatchAll = fc.FailOnCatchAll
	}
	if len(fc.Namespaces) > 0 {
		s.Namespaces = fc.Namespaces
	}
	if len(fc.AdditionalBindings) > 0 {
		s.AdditionalBindings = fc.AdditionalBindings
	}
	return s, nil
}

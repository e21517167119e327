// Package stdimg: authoritative registry of matrix filter commands.
//
// This file mirrors the commands implemented in ApplyCommand in
// pkg/stdimg/engine.go. Keep this list up-to-date when you add or
// modify commands so callers (CLI, pipeline, help text) can read a single
// source of truth.

package stdimg

import "strings"

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "bool", "string"
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
}

// Commands is the authoritative list of commands implemented by ApplyCommand.
var Commands = []CommandSpec{
	{
		Name:        "brightness",
		Args:        []ArgSpec{{"level", "int", false, "10", "signed offset added to every channel (typically -255..255)"}},
		Usage:       "brightness [level]",
		Description: "Add a signed offset to every channel value, clamped to [0,255].",
	},
	{
		Name:        "average",
		Args:        []ArgSpec{},
		Usage:       "average",
		Description: "Replace interior pixels with the rounded mean of their 8 neighbors.",
	},
	{
		Name:        "median",
		Args:        []ArgSpec{},
		Usage:       "median",
		Description: "Replace interior pixels with the median (index 4 of 8 sorted) of their 8 neighbors.",
	},
}

// LookupCommand returns the spec for name, matched case-insensitively.
func LookupCommand(name string) (CommandSpec, bool) {
	for _, c := range Commands {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return CommandSpec{}, false
}

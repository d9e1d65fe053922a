// Package config loads the rule presets new games are created from.
//
// A preset names the hand size, the player cap, and the default settings map
// for a game. Presets live as JSON files in a configurable directory and are
// cached after first load; a built-in "Classic" preset backs games that name
// none.
package config

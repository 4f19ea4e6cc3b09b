package config

import "github.com/cuemby/gradenet/pkg/util"

// ReadCommands loads the ordered grading command list from path, one shell
// command per line, preserving order and every line exactly as written
// (including blank lines) apart from the trailing newline itself.
func ReadCommands(path string) ([]string, error) {
	return util.ReadLines(path)
}

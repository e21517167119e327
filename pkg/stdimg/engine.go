package stdimg

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultBrightnessLevel is the offset used when brightness gets no argument.
const DefaultBrightnessLevel = 10

// ApplyCommand applies a registered command to src and returns the result.
// src is never modified; brightness works on a clone.
func ApplyCommand(src *Matrix, commandName string, args []string) (*Matrix, error) {
	if src == nil {
		return nil, fmt.Errorf("source matrix is nil")
	}
	switch strings.ToLower(commandName) {
	case "brightness":
		// brightness [level]
		if len(args) > 1 {
			return nil, fmt.Errorf("brightness takes at most 1 arg: level")
		}
		level := DefaultBrightnessLevel
		if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
			v, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return nil, fmt.Errorf("invalid level: %w", err)
			}
			level = v
		}
		return ApplyBrightness(src.Clone(), level), nil

	case "average":
		// average takes no args
		if len(args) != 0 {
			return nil, fmt.Errorf("average takes no args")
		}
		return AverageFilter(src), nil

	case "median":
		// median takes no args
		if len(args) != 0 {
			return nil, fmt.Errorf("median takes no args")
		}
		return MedianFilter(src), nil

	default:
		return nil, fmt.Errorf("unsupported command: %s", commandName)
	}
}

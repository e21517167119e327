package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/histofilter/pkg/stdimg"
)

// CommandHelp renders a multi-line help entry for c.
func CommandHelp(c stdimg.CommandSpec) string {
	var sb strings.Builder
	sb.WriteString(c.Usage)
	if c.Description != "" {
		sb.WriteString("\n    " + c.Description)
	}
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		sb.WriteString(fmt.Sprintf("\n    - %s (%s, %s)", a.Name, a.Type, req))
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
	}
	return sb.String()
}

// NormalizeArgs checks args against the registry entry for cmdName and
// returns them in canonical form. Every registry argument is an integer.
// Missing optional arguments are dropped so the engine applies its own
// defaults.
func NormalizeArgs(cmdName string, args []string) ([]string, error) {
	c, ok := stdimg.LookupCommand(cmdName)
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", cmdName)
	}
	if len(args) > len(c.Args) {
		return nil, fmt.Errorf("%s takes at most %d args, got %d", c.Name, len(c.Args), len(args))
	}
	var out []string
	for i, a := range c.Args {
		raw := ""
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			break
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: expected integer, got %q", a.Name, raw)
		}
		out = append(out, strconv.FormatInt(v, 10))
	}
	return out, nil
}

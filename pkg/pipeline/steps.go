package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/histofilter/pkg/stdimg"
)

var (
	ErrNoSteps     = errors.New("no pipeline steps given")
	ErrUnknownStep = errors.New("unknown pipeline step")
)

// Step is one filter applied by the driver. Name is a stdimg command name.
type Step struct {
	Name string
	Args []string
}

// Suffix is appended to the source stem when naming the step's output.
func (s Step) Suffix() string {
	return strings.ToLower(s.Name)
}

func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + "(" + strings.Join(s.Args, ",") + ")"
}

// DefaultSteps is brightness by level, then average, then median.
func DefaultSteps(level int) []Step {
	return []Step{
		{Name: "brightness", Args: []string{strconv.Itoa(level)}},
		{Name: "average"},
		{Name: "median"},
	}
}

// ParseSteps turns a comma separated list of command names into steps.
// brightness receives level as its argument.
func ParseSteps(list string, level int) ([]Step, error) {
	var steps []Step
	for _, raw := range strings.Split(list, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		spec, ok := stdimg.LookupCommand(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStep, raw)
		}
		st := Step{Name: spec.Name}
		if spec.Name == "brightness" {
			st.Args = []string{strconv.Itoa(level)}
		}
		steps = append(steps, st)
	}
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	return steps, nil
}

package lifecycle

import (
	"fmt"
	"strings"
)

// ConfigurationError means a graph edge has no rule. It is a wiring bug,
// never user input.
type ConfigurationError struct {
	Missing []Edge
}

func (e *ConfigurationError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, edge := range e.Missing {
		names = append(names, edge.String())
	}
	return fmt.Sprintf("lifecycle misconfigured: no rule for %s", strings.Join(names, ", "))
}

package params

import "fmt"

// ConfigurationError reports an unknown scope, an unknown parameter name, or
// a value outside its domain.
type ConfigurationError struct {
	Scope  string
	Name   string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("params: %s: %s", e.Scope, e.Reason)
	}
	return fmt.Sprintf("params: %s.%s = %g: %s", e.Scope, e.Name, e.Value, e.Reason)
}

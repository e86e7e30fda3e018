package machine

import "fmt"

// ConfigurationError reports a malformed machine setup or a malformed search
// request. It is always fatal to the operation that returned it.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("enigma: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("enigma: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

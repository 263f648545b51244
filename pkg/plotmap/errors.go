package plotmap

import (
	"fmt"
)

// ConfigError indicates that a Map could not be constructed because the
// configuration is incomplete, inconsistent, or refers to a raster file
// whose georeferencing cannot be resolved.
type ConfigError struct {
	Reason string
	Err    error // underlying cause, if any
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("map configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("map configuration: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DataError indicates that a drawing operation received invalid input or
// was called before a precondition was met (for example asking for a
// colorbar before any data has been drawn).
type DataError struct {
	Op     string // the operation that failed, e.g. "plot data"
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *DataError) Unwrap() error { return e.Err }

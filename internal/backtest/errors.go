package backtest

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid configuration or malformed input pair.
// It always fails the run before any bar is simulated.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DegenerateDataError reports input that never produced a usable signal:
// the rolling window is longer than the series, or the spread carries no
// variance anywhere. In a grid sweep the affected cell is recorded as
// failed/unranked; it never aborts the sweep.
type DegenerateDataError struct {
	Pair   string
	Reason string
}

func (e *DegenerateDataError) Error() string {
	return fmt.Sprintf("degenerate data for %s: %s", e.Pair, e.Reason)
}

// IsConfigError reports whether err is a configuration failure.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsDegenerateData reports whether err means the data produced no signal.
func IsDegenerateData(err error) bool {
	var de *DegenerateDataError
	return errors.As(err, &de)
}

package selench

import (
	"fmt"
	"time"
)

// ConfigurationError is returned by New when the session cannot be
// established: the configuration is invalid, the driver binary would not
// start, or the browser refused the session. It is fatal and never retried.
type ConfigurationError struct {
	// Reason describes the failing step.
	Reason string
	// Err is the underlying error from the WebDriver client, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("selench: configuration: %s", e.Reason)
	}
	return fmt.Sprintf("selench: configuration: %s: %v", e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NotFoundError is returned by Element and its variants when no element
// matched the selector within the wait window.
type NotFoundError struct {
	Selector Selector
	Timeout  time.Duration
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("selench: no element matching %v after %v", e.Selector, e.Timeout)
}

// TimeoutError is returned by Expect helpers when the condition was not
// satisfied within the wait window.
type TimeoutError struct {
	// Condition names the expectation that failed, e.g. "title contains "foo"".
	Condition string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("selench: waiting for %s: timeout after %v", e.Condition, e.Timeout)
}

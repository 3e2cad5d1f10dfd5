package nav

import "fmt"

// ConfigurationError reports a malformed or incomplete ordering
// specification. Resolve returns it as a fatal error when the order itself
// cannot be used, and as a warning when only content is missing.
type ConfigurationError struct {
	Version  string
	Category string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Category != "":
		return fmt.Sprintf("configuration: version %q category %q: %s", e.Version, e.Category, e.Reason)
	case e.Version != "":
		return fmt.Sprintf("configuration: version %q: %s", e.Version, e.Reason)
	default:
		return "configuration: " + e.Reason
	}
}

// ContentMismatchError reports a page whose version or category is absent
// from the configuration. It is always a warning.
type ContentMismatchError struct {
	Page   Page
	Reason string
	// Err is the underlying failure, if any.
	Err error
}

func (e *ContentMismatchError) Error() string {
	return fmt.Sprintf("content %s: %s", e.Page.Path, e.Reason)
}

func (e *ContentMismatchError) Unwrap() error {
	return e.Err
}

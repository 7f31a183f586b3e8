package manifest

import "fmt"

// ParseReason classifies manifest parse failures.
type ParseReason string

// Parse failure reasons.
const (
	MissingFrontmatter   ParseReason = "missing_frontmatter"
	MissingRequiredField ParseReason = "missing_required_field"
	InvalidField         ParseReason = "invalid_field"
)

// ParseError reports a malformed manifest. Field names the offending
// frontmatter key where applicable.
type ParseError struct {
	Reason ParseReason
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	switch e.Reason {
	case MissingFrontmatter:
		if e.Err != nil {
			return fmt.Sprintf("manifest has no parseable frontmatter block: %s", e.Err)
		}
		return "manifest has no frontmatter block"
	case MissingRequiredField:
		return fmt.Sprintf("manifest frontmatter is missing required field %q", e.Field)
	case InvalidField:
		if e.Err != nil {
			return fmt.Sprintf("manifest frontmatter field %q is invalid: %s", e.Field, e.Err)
		}
		return fmt.Sprintf("manifest frontmatter field %q is invalid", e.Field)
	}
	return fmt.Sprintf("manifest parse error: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

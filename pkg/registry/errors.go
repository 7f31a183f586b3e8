package registry

import "fmt"

// RegistryReason classifies registration failures.
type RegistryReason string

// Registration failure reasons.
const (
	DuplicateName  RegistryReason = "duplicate_name"
	RegistryFrozen RegistryReason = "registry_frozen"
)

// RegistryError reports a failed registration.
type RegistryError struct {
	Reason RegistryReason
	Name   string
}

func (e *RegistryError) Error() string {
	switch e.Reason {
	case DuplicateName:
		return fmt.Sprintf("skill %q is already registered", e.Name)
	case RegistryFrozen:
		return fmt.Sprintf("cannot register skill %q: registry is frozen", e.Name)
	}
	return fmt.Sprintf("registry error: %s", e.Reason)
}

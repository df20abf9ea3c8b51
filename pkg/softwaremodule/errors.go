package softwaremodule

import "errors"

var (
	// ErrNotFound reports a missing module or module type.
	ErrNotFound = errors.New("softwaremodule: not found")
	// ErrDuplicate reports a (name, version, type) collision with a
	// non-deleted module.
	ErrDuplicate = errors.New("softwaremodule: duplicate name, version and type")
	// ErrConflict reports a stale optimistic lock revision on update.
	ErrConflict = errors.New("softwaremodule: concurrent modification")
	// ErrTypeRequired is returned when creating a module without a type.
	ErrTypeRequired = errors.New("softwaremodule: type is required")
)

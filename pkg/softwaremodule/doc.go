// Package softwaremodule defines the software module entity tracked by the
// device-management console, the module type it references, and the
// repository and factory contracts the add/edit dialog consumes. A software
// module is a named, versioned, typed unit of deployable software. The
// (name, version, type) triple is unique among non-deleted modules; once
// created only vendor and description may change.
package softwaremodule

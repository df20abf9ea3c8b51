package softwaremodule

import (
	"strconv"
	"time"
)

// Field limits mirror the persisted column sizes.
const (
	NameMaxSize        = 64
	VersionMaxSize     = 64
	VendorMaxSize      = 256
	DescriptionMaxSize = 512
)

// ID identifies a persisted entity. Zero means "not yet persisted".
type ID int64

// String renders the identifier in base 10.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a base 10 identifier.
func ParseID(raw string) (ID, error) {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(value), nil
}

// ModuleType classifies software modules (firmware, runtime, application).
type ModuleType struct {
	ID             ID     `json:"id" yaml:"id"`
	Key            string `json:"key" yaml:"key"`
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	MaxAssignments int    `json:"maxAssignments,omitempty" yaml:"maxAssignments,omitempty"`
	Deleted        bool   `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

// SoftwareModule is the entity edited by the dialog. Vendor and Description
// are optional; the empty string means absent.
type SoftwareModule struct {
	ID              ID          `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	Version         string      `json:"version" yaml:"version"`
	Vendor          string      `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Description     string      `json:"description,omitempty" yaml:"description,omitempty"`
	Type            *ModuleType `json:"type" yaml:"type"`
	Deleted         bool        `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	OptLockRevision int         `json:"optLockRevision" yaml:"optLockRevision"`
	CreatedAt       time.Time   `json:"createdAt" yaml:"createdAt"`
	CreatedBy       string      `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	LastModifiedAt  time.Time   `json:"lastModifiedAt" yaml:"lastModifiedAt"`
	LastModifiedBy  string      `json:"lastModifiedBy,omitempty" yaml:"lastModifiedBy,omitempty"`
}

// TypeName returns the referenced type name or "" when the type is unset.
func (m *SoftwareModule) TypeName() string {
	if m == nil || m.Type == nil {
		return ""
	}
	return m.Type.Name
}

// NameVersion renders the "name:version" label used in notifications.
func (m *SoftwareModule) NameVersion() string {
	if m == nil {
		return ""
	}
	return m.Name + ":" + m.Version
}

// Clone returns a deep copy so callers can mutate without touching shared
// state held by a repository.
func (m *SoftwareModule) Clone() *SoftwareModule {
	if m == nil {
		return nil
	}
	out := *m
	if m.Type != nil {
		typ := *m.Type
		out.Type = &typ
	}
	return &out
}

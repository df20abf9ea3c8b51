package softwaremodule

// Factory constructs unsaved entities.
type Factory interface {
	NewModule(typ *ModuleType, name, version, vendor, description string) *SoftwareModule
}

// DefaultFactory stamps the configured actor as creator.
type DefaultFactory struct {
	Actor string
}

// NewModule implements Factory.
func (f DefaultFactory) NewModule(typ *ModuleType, name, version, vendor, description string) *SoftwareModule {
	module := &SoftwareModule{
		Name:        name,
		Version:     version,
		Vendor:      vendor,
		Description: description,
		CreatedBy:   f.Actor,
	}
	if typ != nil {
		clone := *typ
		module.Type = &clone
	}
	return module
}

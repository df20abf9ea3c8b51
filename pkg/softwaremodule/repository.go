package softwaremodule

import "context"

// Repository is the entity service backing the dialog. Implementations must
// be safe for concurrent use; lookups return ErrNotFound when nothing
// matches.
type Repository interface {
	FindModule(ctx context.Context, id ID) (*SoftwareModule, error)
	// FindModuleByNameAndVersion only considers non-deleted modules.
	FindModuleByNameAndVersion(ctx context.Context, name, version string, typ *ModuleType) (*SoftwareModule, error)
	FindTypeByName(ctx context.Context, name string) (*ModuleType, error)
	// ListTypes returns the non-deleted types offered by the type selector.
	ListTypes(ctx context.Context) ([]ModuleType, error)
	CreateModule(ctx context.Context, module *SoftwareModule) (*SoftwareModule, error)
	UpdateModule(ctx context.Context, module *SoftwareModule) (*SoftwareModule, error)
}

// ModuleLister is implemented by repositories that can enumerate modules.
type ModuleLister interface {
	ListModules(ctx context.Context, includeDeleted bool) ([]SoftwareModule, error)
}

// Package memstore provides an in-memory softwaremodule.Repository with
// optional YAML snapshot persistence, used by the console and the CLI.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-swmodule/pkg/softwaremodule"
)

// Ensure Store satisfies the repository contracts.
var (
	_ softwaremodule.Repository   = (*Store)(nil)
	_ softwaremodule.ModuleLister = (*Store)(nil)
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSnapshotPath persists every mutation to the given YAML file.
func WithSnapshotPath(path string) Option {
	return func(s *Store) {
		s.path = strings.TrimSpace(path)
	}
}

// WithTypes seeds module types.
func WithTypes(types ...softwaremodule.ModuleType) Option {
	return func(s *Store) {
		s.seedTypes = append(s.seedTypes, types...)
	}
}

// Store keeps modules and types in maps guarded by a RWMutex. Entities are
// cloned on the way in and out so callers never alias internal state.
type Store struct {
	mu        sync.RWMutex
	modules   map[softwaremodule.ID]*softwaremodule.SoftwareModule
	types     map[softwaremodule.ID]*softwaremodule.ModuleType
	nextID    softwaremodule.ID
	now       func() time.Time
	path      string
	seedTypes []softwaremodule.ModuleType
}

type snapshot struct {
	NextID  softwaremodule.ID               `yaml:"nextId"`
	Types   []softwaremodule.ModuleType     `yaml:"types"`
	Modules []softwaremodule.SoftwareModule `yaml:"modules"`
}

// New constructs an empty store.
func New(options ...Option) (*Store, error) {
	s := &Store{
		modules: make(map[softwaremodule.ID]*softwaremodule.SoftwareModule),
		types:   make(map[softwaremodule.ID]*softwaremodule.ModuleType),
		nextID:  1,
		now:     time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.path != "" {
		if err := s.load(); err != nil {
			return nil, err
		}
	}

	for _, typ := range s.seedTypes {
		if _, err := s.findTypeByName(typ.Name); err == nil {
			continue
		}
		if _, err := s.insertType(typ); err != nil {
			return nil, err
		}
	}
	if len(s.seedTypes) > 0 {
		if err := s.persist(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DefaultTypes are the module types a fresh console starts with.
func DefaultTypes() []softwaremodule.ModuleType {
	return []softwaremodule.ModuleType{
		{Key: "os", Name: "OS", Description: "Operating system image", MaxAssignments: 1},
		{Key: "runtime", Name: "Runtime", Description: "Language or container runtime", MaxAssignments: 1},
		{Key: "application", Name: "Application", Description: "Application bundle", MaxAssignments: 0},
	}
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("memstore: read snapshot: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("memstore: decode snapshot %s: %w", s.path, err)
	}
	for i := range snap.Types {
		typ := snap.Types[i]
		s.types[typ.ID] = &typ
		if typ.ID >= s.nextID {
			s.nextID = typ.ID + 1
		}
	}
	for i := range snap.Modules {
		module := snap.Modules[i].Clone()
		if module.Type != nil {
			if typ, ok := s.types[module.Type.ID]; ok {
				module.Type = typ
			}
		}
		s.modules[module.ID] = module
		if module.ID >= s.nextID {
			s.nextID = module.ID + 1
		}
	}
	if snap.NextID > s.nextID {
		s.nextID = snap.NextID
	}
	return nil
}

// persist must be called with the write lock held (or during construction).
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	snap := snapshot{NextID: s.nextID}
	for _, typ := range s.types {
		snap.Types = append(snap.Types, *typ)
	}
	for _, module := range s.modules {
		snap.Modules = append(snap.Modules, *module.Clone())
	}
	sort.Slice(snap.Types, func(i, j int) bool { return snap.Types[i].ID < snap.Types[j].ID })
	sort.Slice(snap.Modules, func(i, j int) bool { return snap.Modules[i].ID < snap.Modules[j].ID })

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("memstore: encode snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("memstore: create snapshot dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("memstore: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("memstore: replace snapshot: %w", err)
	}
	return nil
}

func (s *Store) allocateID() softwaremodule.ID {
	id := s.nextID
	s.nextID++
	return id
}

// FindModule implements softwaremodule.Repository.
func (s *Store) FindModule(ctx context.Context, id softwaremodule.ID) (*softwaremodule.SoftwareModule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	module, ok := s.modules[id]
	if !ok {
		return nil, fmt.Errorf("memstore: module %s: %w", id, softwaremodule.ErrNotFound)
	}
	return module.Clone(), nil
}

// FindModuleByNameAndVersion implements softwaremodule.Repository. A nil
// type never matches.
func (s *Store) FindModuleByNameAndVersion(ctx context.Context, name, version string, typ *softwaremodule.ModuleType) (*softwaremodule.SoftwareModule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if match := s.findLive(name, version, typ); match != nil {
		return match.Clone(), nil
	}
	return nil, fmt.Errorf("memstore: module %s:%s: %w", name, version, softwaremodule.ErrNotFound)
}

func (s *Store) findLive(name, version string, typ *softwaremodule.ModuleType) *softwaremodule.SoftwareModule {
	if typ == nil {
		return nil
	}
	for _, module := range s.modules {
		if module.Deleted || module.Type == nil {
			continue
		}
		if module.Name == name && module.Version == version && module.Type.ID == typ.ID {
			return module
		}
	}
	return nil
}

// FindTypeByName implements softwaremodule.Repository. Deleted types are
// still resolvable so existing modules keep their reference.
func (s *Store) FindTypeByName(ctx context.Context, name string) (*softwaremodule.ModuleType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	typ, err := s.findTypeByName(name)
	if err != nil {
		return nil, err
	}
	clone := *typ
	return &clone, nil
}

func (s *Store) findTypeByName(name string) (*softwaremodule.ModuleType, error) {
	var deleted *softwaremodule.ModuleType
	for _, typ := range s.types {
		if typ.Name != name {
			continue
		}
		if !typ.Deleted {
			return typ, nil
		}
		deleted = typ
	}
	if deleted != nil {
		return deleted, nil
	}
	return nil, fmt.Errorf("memstore: module type %q: %w", name, softwaremodule.ErrNotFound)
}

// ListTypes implements softwaremodule.Repository, sorted by name.
func (s *Store) ListTypes(ctx context.Context) ([]softwaremodule.ModuleType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]softwaremodule.ModuleType, 0, len(s.types))
	for _, typ := range s.types {
		if typ.Deleted {
			continue
		}
		out = append(out, *typ)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListModules implements softwaremodule.ModuleLister. Modules are ordered by
// name, then by version precedence.
func (s *Store) ListModules(ctx context.Context, includeDeleted bool) ([]softwaremodule.SoftwareModule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]softwaremodule.SoftwareModule, 0, len(s.modules))
	for _, module := range s.modules {
		if module.Deleted && !includeDeleted {
			continue
		}
		out = append(out, *module.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return softwaremodule.CompareVersions(out[i].Version, out[j].Version) < 0
	})
	return out, nil
}

// CreateModule implements softwaremodule.Repository.
func (s *Store) CreateModule(ctx context.Context, module *softwaremodule.SoftwareModule) (*softwaremodule.SoftwareModule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if module == nil {
		return nil, errors.New("memstore: module is nil")
	}
	if module.Type == nil {
		return nil, softwaremodule.ErrTypeRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	typ, ok := s.types[module.Type.ID]
	if !ok {
		return nil, fmt.Errorf("memstore: module type %s: %w", module.Type.ID, softwaremodule.ErrNotFound)
	}
	if s.findLive(module.Name, module.Version, typ) != nil {
		return nil, fmt.Errorf("memstore: create %s: %w", module.NameVersion(), softwaremodule.ErrDuplicate)
	}

	stored := module.Clone()
	stored.ID = s.allocateID()
	stored.Type = typ
	stored.OptLockRevision = 1
	stored.CreatedAt = s.now().UTC()
	stored.LastModifiedAt = stored.CreatedAt
	stored.LastModifiedBy = stored.CreatedBy
	s.modules[stored.ID] = stored

	if err := s.persist(); err != nil {
		delete(s.modules, stored.ID)
		return nil, err
	}
	return stored.Clone(), nil
}

// UpdateModule implements softwaremodule.Repository. Only vendor and
// description are taken from the argument; a non-zero OptLockRevision must
// match the stored revision.
func (s *Store) UpdateModule(ctx context.Context, module *softwaremodule.SoftwareModule) (*softwaremodule.SoftwareModule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if module == nil {
		return nil, errors.New("memstore: module is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.modules[module.ID]
	if !ok {
		return nil, fmt.Errorf("memstore: module %s: %w", module.ID, softwaremodule.ErrNotFound)
	}
	if module.OptLockRevision != 0 && module.OptLockRevision != stored.OptLockRevision {
		return nil, fmt.Errorf("memstore: update module %s (revision %d, stored %d): %w",
			module.ID, module.OptLockRevision, stored.OptLockRevision, softwaremodule.ErrConflict)
	}

	previous := *stored
	stored.Vendor = module.Vendor
	stored.Description = module.Description
	stored.OptLockRevision++
	stored.LastModifiedAt = s.now().UTC()
	if module.LastModifiedBy != "" {
		stored.LastModifiedBy = module.LastModifiedBy
	}

	if err := s.persist(); err != nil {
		*stored = previous
		return nil, err
	}
	return stored.Clone(), nil
}

// CreateType registers a module type. Names must be unique among
// non-deleted types.
func (s *Store) CreateType(ctx context.Context, typ softwaremodule.ModuleType) (*softwaremodule.ModuleType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.insertType(typ)
	if err != nil {
		return nil, err
	}
	if err := s.persist(); err != nil {
		delete(s.types, stored.ID)
		return nil, err
	}
	clone := *stored
	return &clone, nil
}

func (s *Store) insertType(typ softwaremodule.ModuleType) (*softwaremodule.ModuleType, error) {
	name := strings.TrimSpace(typ.Name)
	if name == "" {
		return nil, errors.New("memstore: module type name is required")
	}
	if existing, err := s.findTypeByName(name); err == nil && !existing.Deleted {
		return nil, fmt.Errorf("memstore: module type %q: %w", name, softwaremodule.ErrDuplicate)
	}
	stored := typ
	stored.Name = name
	if stored.Key == "" {
		stored.Key = strings.ToLower(name)
	}
	stored.ID = s.allocateID()
	stored.Deleted = false
	s.types[stored.ID] = &stored
	return &stored, nil
}

// DeleteModule soft-deletes a module, freeing its (name, version, type)
// triple for reuse.
func (s *Store) DeleteModule(ctx context.Context, id softwaremodule.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	module, ok := s.modules[id]
	if !ok {
		return fmt.Errorf("memstore: module %s: %w", id, softwaremodule.ErrNotFound)
	}
	module.Deleted = true
	module.LastModifiedAt = s.now().UTC()
	return s.persist()
}

// DeleteType soft-deletes a module type. Modules referencing it keep the
// reference and observe Deleted=true.
func (s *Store) DeleteType(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	typ, err := s.findTypeByName(name)
	if err != nil {
		return err
	}
	typ.Deleted = true
	return s.persist()
}

package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/javierhbr/test-inventory-sub000/internal/config"
	domain "github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/log"
)

// Store loads and saves whole registry snapshots.
type Store interface {
	// Name identifies the backing source, e.g. a file path.
	Name() string
	Load(ctx context.Context) (domain.Registry, error)
	Save(ctx context.Context, reg domain.Registry) error
}

// FileStore keeps the registry in a single YAML file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the YAML file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Name returns the file path.
func (s *FileStore) Name() string {
	return s.path
}

// Load parses the file. A missing file is an empty registry.
func (s *FileStore) Load(_ context.Context) (domain.Registry, error) {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	reg, err := LoadRegistryFromYAML(os.DirFS(dir), base)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info(log.CatRegistry, "Registry file missing, starting empty", "path", s.path)
		return domain.Registry{}, nil
	}
	return reg, err
}

// Save writes the snapshot atomically.
func (s *FileStore) Save(_ context.Context, reg domain.Registry) error {
	data, err := MarshalRegistry(reg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	if err := config.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// ToFile converts a snapshot to its YAML structure. Groups are sorted by key.
// Member fields equal to the group's are omitted.
func ToFile(reg domain.Registry) RegistryFile {
	var file RegistryFile
	for _, key := range reg.RuleGroupKeys() {
		g, _ := reg.RuleGroup(key)
		def := RuleGroupDef{
			Key:            g.Key,
			LineOfBusiness: g.LineOfBusiness,
			Category:       g.Category.String(),
			Rules:          make([]RuleDef, 0, len(g.Rules)),
		}
		for _, r := range g.Rules {
			rd := RuleDef{
				ID:          r.ID,
				Key:         r.Key,
				Pattern:     r.ValidationPattern,
				Suggestions: r.Suggestions,
			}
			if r.LineOfBusiness != g.LineOfBusiness {
				rd.LineOfBusiness = r.LineOfBusiness
			}
			def.Rules = append(def.Rules, rd)
		}
		file.RuleGroups = append(file.RuleGroups, def)
	}
	for _, key := range reg.RecipeGroupKeys() {
		g, _ := reg.RecipeGroup(key)
		def := RecipeGroupDef{
			Key:            g.Key,
			LineOfBusiness: g.LineOfBusiness,
			Recipes:        make([]RecipeDef, 0, len(g.Recipes)),
		}
		for _, r := range g.Recipes {
			rd := RecipeDef{
				ID:          r.ID,
				Name:        r.Name,
				Description: r.Description,
				Tags:        r.Tags,
			}
			if r.LineOfBusiness != g.LineOfBusiness {
				rd.LineOfBusiness = r.LineOfBusiness
			}
			def.Recipes = append(def.Recipes, rd)
		}
		file.RecipeGroups = append(file.RecipeGroups, def)
	}
	return file
}

// MarshalRegistry encodes a snapshot as registry.yaml content.
func MarshalRegistry(reg domain.Registry) ([]byte, error) {
	data, err := yaml.Marshal(ToFile(reg))
	if err != nil {
		return nil, fmt.Errorf("marshal registry: %w", err)
	}
	return data, nil
}

// Package catalog loads interview role definitions once at startup and
// serves read-only lookups afterwards.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/domain/role"
)

// Catalog is immutable after Load, so concurrent readers need no locking.
type Catalog struct {
	roles map[string]*role.Role
	names []string
}

type fileFormat struct {
	Roles map[string]roleEntry `yaml:"roles"`
}

type roleEntry struct {
	DisplayName        string            `yaml:"display_name"`
	Questions          []string          `yaml:"questions"`
	EvaluationCriteria map[string]string `yaml:"evaluation_criteria"`
}

// Load reads a role file. YAML and JSON are both accepted.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrConfig, Reason: "read role file " + path, Wrapped: err}
	}
	return Parse(data)
}

// Parse builds a catalog from raw role file contents.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrConfig, Reason: "invalid role file", Wrapped: err}
	}
	if len(f.Roles) == 0 {
		return nil, apperr.Config("role file defines no roles")
	}

	roles := make([]*role.Role, 0, len(f.Roles))
	for name, entry := range f.Roles {
		r, err := role.New(name, entry.DisplayName, entry.Questions, entry.EvaluationCriteria)
		if err != nil {
			return nil, fmt.Errorf("load role %q: %w", name, err)
		}
		roles = append(roles, r)
	}
	return New(roles...)
}

// New builds a catalog from already constructed roles.
func New(roles ...*role.Role) (*Catalog, error) {
	c := &Catalog{roles: make(map[string]*role.Role, len(roles))}
	for _, r := range roles {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.roles[r.Name]; dup {
			return nil, apperr.Config("duplicate role %q", r.Name)
		}
		c.roles[r.Name] = r
		c.names = append(c.names, r.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

// Get returns the named role or an ErrConfig error.
func (c *Catalog) Get(name string) (*role.Role, error) {
	r, ok := c.roles[name]
	if !ok {
		return nil, apperr.Config("unknown role %q", name)
	}
	return r, nil
}

// ListNames returns all role names, sorted.
func (c *Catalog) ListNames() []string {
	return append([]string(nil), c.names...)
}

// List returns all roles ordered by name.
func (c *Catalog) List() []*role.Role {
	out := make([]*role.Role, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.roles[n])
	}
	return out
}

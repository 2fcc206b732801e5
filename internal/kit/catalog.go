package kit

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed kits.yaml
var defaultCatalog []byte

// ErrUnsupportedKit is returned when a kit name is not in the catalog.
var ErrUnsupportedKit = errors.New("unsupported kit")

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads, validates and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse validates raw YAML against the catalog schema and decodes it.
func Parse(data []byte) (*Catalog, error) {
	issues, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &InvalidCatalogError{Issues: issues}
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.checkReferences(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Lookup returns the kit with the given name.
func (c *Catalog) Lookup(name string) (*Kit, error) {
	for i := range c.Kits {
		if c.Kits[i].Name == name {
			return &c.Kits[i], nil
		}
	}
	return nil, fmt.Errorf("%w %q: supported kits are %s", ErrUnsupportedKit, name, strings.Join(c.Names(), ", "))
}

// Names returns the kit names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Kits))
	for _, k := range c.Kits {
		names = append(names, k.Name)
	}
	return names
}

// group returns the library group with the given name, or nil.
func (c *Catalog) group(name string) *LibraryGroup {
	for i := range c.LibraryGroups {
		if c.LibraryGroups[i].Name == name {
			return &c.LibraryGroups[i]
		}
	}
	return nil
}

// checkReferences verifies cross references the schema cannot express.
func (c *Catalog) checkReferences() error {
	seen := make(map[string]bool)
	for _, k := range c.Kits {
		if seen[k.Name] {
			return fmt.Errorf("duplicate kit %q", k.Name)
		}
		seen[k.Name] = true
	}

	for _, g := range c.LibraryGroups {
		for _, req := range g.Requires {
			if c.group(req) == nil {
				return fmt.Errorf("library group %q requires unknown group %q", g.Name, req)
			}
		}
	}

	for _, k := range c.Kits {
		if k.Windows == nil {
			continue
		}
		for _, name := range k.Windows.Groups {
			if c.group(name) == nil {
				return fmt.Errorf("kit %q references unknown library group %q", k.Name, name)
			}
		}
		if k.Windows.Embeds != "" {
			embedded := seen[k.Windows.Embeds]
			if !embedded || k.Windows.Embeds == k.Name {
				return fmt.Errorf("kit %q embeds unknown kit %q", k.Name, k.Windows.Embeds)
			}
		}
	}
	return nil
}

// InvalidCatalogError reports schema violations in a catalog document.
type InvalidCatalogError struct {
	Issues []ValidationIssue
}

func (e *InvalidCatalogError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "invalid catalog: " + strings.Join(parts, "; ")
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

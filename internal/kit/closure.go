package kit

import "fmt"

// LibraryRef is one archive in a Windows link closure.
type LibraryRef struct {
	// Path is relative to the source root, or to the SDK lib directory when SDK is set.
	Path string
	SDK  bool
}

// WindowsClosure returns the ordered archive list a Windows devkit for k is
// merged from: the kit's own library, then any embedded kit's library and
// groups, then the kit's groups. Groups expand their requirements first and
// every archive appears once, at its first position. Groups gated on a
// feature are skipped unless features[feature] is set.
func (c *Catalog) WindowsClosure(k *Kit, features map[string]bool) ([]LibraryRef, error) {
	if k.Windows == nil {
		return nil, fmt.Errorf("kit %q has no Windows layout", k.Name)
	}

	var result []LibraryRef
	seen := make(map[LibraryRef]bool)
	add := func(ref LibraryRef) {
		if !seen[ref] {
			seen[ref] = true
			result = append(result, ref)
		}
	}

	add(LibraryRef{Path: k.Windows.Library})

	var groups []string
	if k.Windows.Embeds != "" {
		embedded, err := c.Lookup(k.Windows.Embeds)
		if err != nil {
			return nil, err
		}
		if embedded.Windows == nil {
			return nil, fmt.Errorf("embedded kit %q has no Windows layout", embedded.Name)
		}
		add(LibraryRef{Path: embedded.Windows.Library})
		groups = append(groups, embedded.Windows.Groups...)
	}
	groups = append(groups, k.Windows.Groups...)

	for _, name := range groups {
		libs, err := c.expandGroup(name, features, make(map[string]bool))
		if err != nil {
			return nil, err
		}
		for _, lib := range libs {
			add(LibraryRef{Path: lib, SDK: true})
		}
	}

	return result, nil
}

// expandGroup returns the archives of a group preceded by those of its
// requirements, in declaration order. active holds the groups on the current
// expansion path and is used to reject cycles.
func (c *Catalog) expandGroup(name string, features map[string]bool, active map[string]bool) ([]string, error) {
	g := c.group(name)
	if g == nil {
		return nil, fmt.Errorf("unknown library group %q", name)
	}
	if active[name] {
		return nil, fmt.Errorf("library group cycle through %q", name)
	}
	if g.Feature != "" && !features[g.Feature] {
		return nil, nil
	}

	active[name] = true
	defer delete(active, name)

	var libs []string
	for _, req := range g.Requires {
		sub, err := c.expandGroup(req, features, active)
		if err != nil {
			return nil, err
		}
		libs = append(libs, sub...)
	}
	return append(libs, g.Libs...), nil
}

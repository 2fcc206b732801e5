package kit

// Catalog is the parsed kit catalog.
type Catalog struct {
	Symbols       SymbolPolicy   `yaml:"symbols" json:"symbols"`
	Hosts         HostSpec       `yaml:"hosts" json:"hosts"`
	LibraryGroups []LibraryGroup `yaml:"library_groups,omitempty" json:"library_groups,omitempty"`
	Kits          []Kit          `yaml:"kits" json:"kits"`
}

// SymbolPolicy controls third-party symbol isolation.
type SymbolPolicy struct {
	RenamePrefix   string   `yaml:"rename_prefix" json:"rename_prefix"`
	MappingsGuard  string   `yaml:"mappings_guard" json:"mappings_guard"`
	OwnPrefixes    []string `yaml:"own_prefixes" json:"own_prefixes"`
	PublicPrefixes []string `yaml:"public_prefixes" json:"public_prefixes"`
}

// HostSpec enumerates the operating systems and architectures a host
// identifier ("<os>-<arch>") may name.
type HostSpec struct {
	OS   []string `yaml:"os" json:"os"`
	Arch []string `yaml:"arch" json:"arch"`
}

// LibraryGroup is a named set of prebuilt SDK archives. Requires lists groups
// whose archives must precede this group's own.
type LibraryGroup struct {
	Name     string   `yaml:"name" json:"name"`
	Requires []string `yaml:"requires,omitempty" json:"requires,omitempty"`
	// Feature gates the group on an optional build feature (e.g. "v8").
	Feature string   `yaml:"feature,omitempty" json:"feature,omitempty"`
	Libs    []string `yaml:"libs" json:"libs"`
}

// Kit describes one bundleable library product.
type Kit struct {
	Name    string `yaml:"name" json:"name"`
	Package string `yaml:"package" json:"package"`
	// Umbrella is the umbrella header path relative to the install include dir.
	Umbrella      []string      `yaml:"umbrella" json:"umbrella"`
	StaticDefines []string      `yaml:"static_defines,omitempty" json:"static_defines,omitempty"`
	ExtraHeaders  []ExtraHeader `yaml:"extra_headers,omitempty" json:"extra_headers,omitempty"`
	Windows       *WindowsKit   `yaml:"windows,omitempty" json:"windows,omitempty"`
}

// ExtraHeader is an additional flattening root located next to the umbrella
// header. HostOS restricts it to the listed operating systems; empty means all.
type ExtraHeader struct {
	Name   string   `yaml:"name" json:"name"`
	HostOS []string `yaml:"host_os,omitempty" json:"host_os,omitempty"`
}

// WindowsKit describes the MSVC build tree layout for a kit. Paths are
// relative to the source root and may contain {config} and {suffix}
// placeholders.
type WindowsKit struct {
	Library     string   `yaml:"library" json:"library"`
	Umbrella    string   `yaml:"umbrella" json:"umbrella"`
	IncludeDirs []string `yaml:"include_dirs,omitempty" json:"include_dirs,omitempty"`
	// Embeds names another kit whose library and groups precede this kit's groups.
	Embeds     string   `yaml:"embeds,omitempty" json:"embeds,omitempty"`
	Groups     []string `yaml:"groups,omitempty" json:"groups,omitempty"`
	SystemLibs []string `yaml:"system_libs,omitempty" json:"system_libs,omitempty"`
}

// AppliesTo reports whether the extra header is ingested for hostOS.
func (e ExtraHeader) AppliesTo(hostOS string) bool {
	if len(e.HostOS) == 0 {
		return true
	}
	for _, name := range e.HostOS {
		if name == hostOS {
			return true
		}
	}
	return false
}

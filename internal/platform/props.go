package platform

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

const msbuildNamespace = "http://schemas.microsoft.com/developer/msbuild/2003"

// featureProperties maps MSBuild properties to catalog feature names.
var featureProperties = map[string]string{
	"FridaV8": "v8",
}

// ReadFeatures returns the optional build features an MSBuild property
// sheet enables. A property counts as enabled when its first occurrence
// reads "Enabled". A missing sheet enables nothing.
func ReadFeatures(path string) (map[string]bool, error) {
	features := make(map[string]bool)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return features, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]bool)
	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return features, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Space != msbuildNamespace {
			continue
		}
		feature, ok := featureProperties[start.Name.Local]
		if !ok || seen[feature] {
			continue
		}

		var value string
		if err := dec.DecodeElement(&value, &start); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		seen[feature] = true
		features[feature] = strings.TrimSpace(value) == "Enabled"
	}
}

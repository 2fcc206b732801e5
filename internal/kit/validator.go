package kit

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/kits.schema.json
var schemaBytes []byte

const schemaURL = "kits.schema.json"

var (
	loadSchema = sync.OnceValues(compileSchema)
	printer    = message.NewPrinter(language.English)
)

// ValidationIssue is one schema violation in a catalog document.
type ValidationIssue struct {
	// Path is the JSON pointer of the offending value, e.g. "/kits/0/umbrella".
	Path    string
	Keyword string
	Message string
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("reading catalog schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding catalog schema: %w", err)
	}
	return c.Compile(schemaURL)
}

// Validate checks a YAML catalog document against the catalog schema and
// returns its violations. The error is reserved for documents that are not
// YAML at all.
func Validate(data []byte) ([]ValidationIssue, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	// The validator wants JSON values, so numbers become json.Number.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting catalog: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("converting catalog: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}

	issues := leafIssues(ve, nil, make(map[ValidationIssue]bool))
	if len(issues) == 0 {
		issues = []ValidationIssue{{Message: ve.Error()}}
	}
	return issues, nil
}

// leafIssues flattens the error tree to the violations that caused it.
func leafIssues(ve *jsonschema.ValidationError, issues []ValidationIssue, seen map[ValidationIssue]bool) []ValidationIssue {
	for _, cause := range ve.Causes {
		issues = leafIssues(cause, issues, seen)
	}
	if len(ve.Causes) > 0 || ve.ErrorKind == nil {
		return issues
	}

	keywords := ve.ErrorKind.KeywordPath()
	if len(keywords) == 0 {
		return issues
	}
	issue := ValidationIssue{
		Keyword: keywords[len(keywords)-1],
		Message: ve.ErrorKind.LocalizedString(printer),
	}
	if len(ve.InstanceLocation) > 0 {
		issue.Path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	if !seen[issue] {
		seen[issue] = true
		issues = append(issues, issue)
	}
	return issues
}

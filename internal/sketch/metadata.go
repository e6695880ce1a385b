package sketch

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MetadataFile is the optional project metadata file in a sketch root.
const MetadataFile = "sketch.yaml"

//go:embed schema/sketch.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Metadata holds the optional sketch.yaml project metadata.
type Metadata struct {
	Name          string `yaml:"name,omitempty" json:"name,omitempty"`
	Version       string `yaml:"version,omitempty" json:"version,omitempty"`
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
	DefaultFQBN   string `yaml:"default_fqbn,omitempty" json:"default_fqbn,omitempty"`
	MinCLIVersion string `yaml:"min_cli_version,omitempty" json:"min_cli_version,omitempty"`
}

// ValidationResult contains the outcome of a metadata schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/version")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed
}

// LoadMetadata reads and parses sketch.yaml from the sketch root. It returns
// (nil, nil) when the file does not exist: metadata is optional.
func LoadMetadata(root string) (*Metadata, error) {
	path := filepath.Join(root, MetadataFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseMetadata(data)
}

// ParseMetadata parses raw sketch.yaml bytes. Callers that already hold the
// file contents can use it together with ValidateMetadata to avoid rereading.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", MetadataFile, err)
	}
	return &m, nil
}

// CheckCLIVersion verifies the running CLI version against the metadata's
// min_cli_version constraint. It returns a warning message when the version
// is too old, and "" when compatible or when no constraint is declared.
// Unparseable versions (e.g., the "dev" build) skip the check.
func (m *Metadata) CheckCLIVersion(cliVersion string) string {
	if m == nil || m.MinCLIVersion == "" {
		return ""
	}

	constraint, err := semver.NewConstraint(">= " + m.MinCLIVersion)
	if err != nil {
		return fmt.Sprintf("%s declares an invalid min_cli_version %q", MetadataFile, m.MinCLIVersion)
	}

	v, err := semver.NewVersion(strings.TrimPrefix(cliVersion, "v"))
	if err != nil {
		return ""
	}

	if !constraint.Check(v) {
		return fmt.Sprintf("%s requires CLI version %s or newer (running %s)",
			MetadataFile, m.MinCLIVersion, cliVersion)
	}
	return ""
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("sketch.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("sketch.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// ValidateMetadata validates raw sketch.yaml bytes against the embedded JSON
// schema. The error return is for schema compilation or parse failures;
// validation issues are returned in the ValidationResult.
func ValidateMetadata(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	// Round-trip through JSON so the schema validator sees JSON-native types.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// ValidateMetadataFile reads sketch.yaml from the sketch root and validates
// it. Returns (nil, nil) when the file does not exist.
func ValidateMetadataFile(root string) (*ValidationResult, error) {
	path := filepath.Join(root, MetadataFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ValidateMetadata(data)
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return issues
}

// collectValidationIssues recursively walks the error tree to find leaf
// errors with specific property information.
func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
		}

		msg := ""
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Skip generic container errors that aren't informative.
		if keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

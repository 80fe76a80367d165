package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed assets/schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Validate checks a manifest document against the bundled schema. The
// document may contain comments.
func Validate(doc []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("load manifest schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(jsonc.ToJSON(doc)))
	if err != nil {
		return fmt.Errorf("manifest is not a valid json: %w", err)
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	return fmt.Errorf("manifest does not match schema: %s", strings.Join(details, "; "))
}

// Parse validates and decodes a manifest document.
func Parse(doc []byte) (*Manifest, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(jsonc.ToJSON(doc), &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// Load reads a manifest from disk.
func Load(path string) (*Manifest, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	m, err := Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

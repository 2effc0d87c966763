package yaml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks decoded lintcfg documents (configurations, configuration
// lists, plugin manifests) against one embedded JSON schema.
type Validator struct {
	schema *jsonschema.Schema
	url    string
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	var doc any

	err := json.Unmarshal(schemaData, &doc)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema %s: %w", url, err)
	}

	compiler := jsonschema.NewCompiler()

	err = compiler.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("register schema %s: %w", url, err)
	}

	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}

	return &Validator{schema: compiled, url: url}, nil
}

// MustNewValidator is [NewValidator] for schemas embedded at build time.
func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks a document decoded into plain maps and slices. A violation
// is returned as an [*Error] whose Path names the deepest offending key, so
// the error wrapper can point at its line in the source.
func (v *Validator) Validate(doc any) error {
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("validate against %s: %w", v.url, err)
	}

	return &Error{
		Err:  verr,
		Path: documentPath(doc, deepestLocation(verr)),
	}
}

// deepestLocation returns the longest instance location among the error and
// its causes.
func deepestLocation(verr *jsonschema.ValidationError) []string {
	deepest := verr.InstanceLocation

	for _, cause := range verr.Causes {
		if loc := deepestLocation(cause); len(loc) > len(deepest) {
			deepest = loc
		}
	}

	return deepest
}

// documentPath converts a JSON pointer location into a YAML path. The
// document is walked alongside the location, so numeric keys of a mapping
// (a rule or settings key such as "1") stay keys and only sequence elements
// become indexes.
func documentPath(doc any, location []string) *yaml.Path {
	pb := NewPathBuilder().Root()
	node := doc

	for _, part := range location {
		switch n := node.(type) {
		case []any:
			i, err := strconv.ParseUint(part, 10, 0)
			if err != nil {
				return pb.Child(part).Build()
			}

			pb = pb.Index(uint(i))

			node = nil
			if i < uint64(len(n)) {
				node = n[i]
			}

		case map[string]any:
			pb = pb.Child(part)
			node = n[part]

		default:
			pb = pb.Child(part)
			node = nil
		}
	}

	return pb.Build()
}

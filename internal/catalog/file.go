package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// SupportedMajor is the catalog file format major version this build reads.
const SupportedMajor = "v1"

// ErrUnsupportedVersion is returned for catalog files with an unknown major version.
var ErrUnsupportedVersion = errors.New("unsupported catalog version")

// ErrIncompleteCatalog is returned when some category would discover no devices.
var ErrIncompleteCatalog = errors.New("incomplete catalog")

const fileSchema = `{
  "type": "object",
  "required": ["version", "categories"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "string", "minLength": 2},
    "categories": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "array",
        "minItems": 1,
        "items": {
          "type": "object",
          "required": ["id", "name", "type", "signal"],
          "additionalProperties": false,
          "properties": {
            "id": {"type": "string", "minLength": 1},
            "name": {"type": "string", "minLength": 1},
            "type": {"type": "string", "minLength": 1},
            "signal": {"enum": ["weak", "medium", "strong"]}
          }
        }
      }
    }
  }
}`

// File is the on-disk JSON form of a catalog.
type File struct {
	Version    string                 `json:"version"`
	Categories map[string][]Candidate `json:"categories"`
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func catalogSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(strings.NewReader(fileSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://catalog.json", def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile("schema://catalog.json")
	})
	return compiled, compileErr
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return s, nil
}

// Parse validates raw catalog JSON and converts it to a Static lookup.
func Parse(data []byte) (Static, error) {
	schema, err := catalogSchema()
	if err != nil {
		return nil, err
	}

	// The validator wants a decoded value, not bytes.
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if !semver.IsValid(f.Version) {
		return nil, fmt.Errorf("version %q is not a semantic version", f.Version)
	}
	if major := semver.Major(f.Version); major != SupportedMajor {
		return nil, fmt.Errorf("%w: %s (want %s)", ErrUnsupportedVersion, major, SupportedMajor)
	}

	out := make(Static, len(f.Categories))
	seen := make(map[string]string)
	for name, list := range f.Categories {
		cat, err := ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("category key: %w", err)
		}
		for _, c := range list {
			if prev, dup := seen[c.ID]; dup {
				return nil, fmt.Errorf("duplicate device id %q in %q and %q", c.ID, prev, name)
			}
			seen[c.ID] = name
		}
		out[cat] = append(out[cat], list...)
	}

	// Categories without their own list fall back to "other", so every
	// category must end up with at least one device.
	if _, ok := out[CategoryOther]; !ok {
		var missing []string
		for _, c := range Categories() {
			if _, ok := out[c]; !ok {
				missing = append(missing, string(c))
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: no devices for %s and no %q list", ErrIncompleteCatalog, strings.Join(missing, ", "), CategoryOther)
		}
	}
	return out, nil
}

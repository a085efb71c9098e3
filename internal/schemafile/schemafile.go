// Package schemafile loads record schemas declared in YAML documents, so
// search surfaces can be described on disk instead of in code.
//
// A schema file looks like:
//
//	fields:
//	  - name: name
//	    type: string
//	  - name: age
//	    type: integer
package schemafile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shrikedb/shrike/internal/record"
)

// File is the on-disk shape of a record schema.
type File struct {
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef declares one field. Names starting with "_" are hidden from
// query generation, matching the record package's convention.
type FieldDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Load reads and parses a schema file into a Record.
func Load(path string) (*record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse schema file %s: %w", path, err)
	}
	return rec, nil
}

// Parse builds a Record from YAML schema bytes. Field order in the
// document defines the record's field order.
func Parse(data []byte) (*record.Record, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Fields) == 0 {
		return nil, fmt.Errorf("schema declares no fields")
	}

	seen := make(map[string]struct{}, len(f.Fields))
	fields := make([]record.Field, 0, len(f.Fields))
	for _, fd := range f.Fields {
		if fd.Name == "" {
			return nil, fmt.Errorf("field with empty name")
		}
		if _, dup := seen[fd.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", fd.Name)
		}
		seen[fd.Name] = struct{}{}

		ft, err := record.ParseFieldType(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		fields = append(fields, record.Field{Name: fd.Name, Type: ft})
	}

	return record.New(fields...), nil
}

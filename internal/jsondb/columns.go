// Describes the row type of a table using JSON Schema reflection.

package jsondb

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// ColumnType is the type of a table column.
type ColumnType string

// Column types.
const (
	ColumnTypeText   ColumnType = "text"
	ColumnTypeNumber ColumnType = "number"
	ColumnTypeBool   ColumnType = "bool"
	ColumnTypeJSON   ColumnType = "json"
)

// Column describes one field of a row.
type Column struct {
	Name        string     `json:"name"`
	Type        ColumnType `json:"type"`
	Required    bool       `json:"required,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Schema returns the JSON Schema of T with inline properties (no $ref).
func Schema[T any]() (*jsonschema.Schema, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type must be a struct or pointer to struct, got %s", t.Kind())
	}
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	return r.ReflectFromType(t), nil
}

// Columns lists the fields of T in declaration order.
//
// Descriptions come from `jsonschema:"description=..."` tags and the required
// flag from the schema's required list.
func Columns[T any]() ([]Column, error) {
	schema, err := Schema[T]()
	if err != nil {
		return nil, err
	}
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}
	var columns []Column
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		columns = append(columns, Column{
			Name:        pair.Key,
			Type:        schemaTypeToColumnType(pair.Value.Type),
			Required:    required[pair.Key],
			Description: pair.Value.Description,
		})
	}
	return columns, nil
}

func schemaTypeToColumnType(t string) ColumnType {
	switch t {
	case "integer", "number":
		return ColumnTypeNumber
	case "boolean":
		return ColumnTypeBool
	case "object", "array":
		return ColumnTypeJSON
	default:
		return ColumnTypeText
	}
}

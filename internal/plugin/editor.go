package plugin

import (
	"context"
	"fmt"
)

// FieldType is the value type of a schema field
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldBool   FieldType = "boolean"
)

// Field describes one column of an editable data row
type Field struct {
	Name    string    `json:"name" yaml:"name"`
	Type    FieldType `json:"type" yaml:"type"`
	Columns int       `json:"columns" yaml:"columns"` // display width in grid columns
}

// Schema is the declarative shape of a plugin's editable rows
type Schema struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// DataEditor exposes a plugin's structured configuration to a generic editor.
// Import receives a decode function so the caller picks the wire format.
type DataEditor interface {
	Schema() Schema
	Export(ctx context.Context) (any, error)
	Import(ctx context.Context, decode func(v any) error) error
}

type typedEditor[T any] struct {
	schema Schema
	get    func(ctx context.Context) ([]T, error)
	save   func(ctx context.Context, rows []T) error
}

// NewDataEditor adapts typed row accessors into a DataEditor
func NewDataEditor[T any](schema Schema, get func(ctx context.Context) ([]T, error), save func(ctx context.Context, rows []T) error) DataEditor {
	return &typedEditor[T]{schema: schema, get: get, save: save}
}

func (e *typedEditor[T]) Schema() Schema {
	return e.schema
}

func (e *typedEditor[T]) Export(ctx context.Context) (any, error) {
	return e.get(ctx)
}

func (e *typedEditor[T]) Import(ctx context.Context, decode func(v any) error) error {
	var rows []T
	if err := decode(&rows); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return e.save(ctx, rows)
}

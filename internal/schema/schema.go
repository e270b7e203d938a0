// Package schema declares the structured-response contracts the inference
// provider is asked to honor, and validates its payloads against them.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Schema is a recursive structural descriptor: field presence, JSON types,
// enum membership, nullability. It carries no business meaning.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Nullable    bool               `json:"nullable,omitempty"`
}

// FieldError reports the first structural violation found during validation.
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
}

// Validate structurally checks a decoded JSON value against a descriptor.
// Unknown fields are ignored. Pure function, no side effects.
func Validate(s *Schema, v any) error {
	return validate(s, v, "$")
}

func validate(s *Schema, v any, path string) error {
	if v == nil {
		if s.Nullable {
			return nil
		}
		return &FieldError{Path: path, Reason: "null not allowed"}
	}

	switch s.Type {
	case "object":
		obj, ok := v.(map[string]any)
		if !ok {
			return &FieldError{Path: path, Reason: fmt.Sprintf("expected object, got %T", v)}
		}
		for _, name := range s.Required {
			if _, present := obj[name]; !present {
				return &FieldError{Path: path + "." + name, Reason: "required field missing"}
			}
		}
		for name, child := range s.Properties {
			val, present := obj[name]
			if !present {
				continue
			}
			if err := validate(child, val, path+"."+name); err != nil {
				return err
			}
		}
	case "array":
		arr, ok := v.([]any)
		if !ok {
			return &FieldError{Path: path, Reason: fmt.Sprintf("expected array, got %T", v)}
		}
		if s.Items != nil {
			for i, item := range arr {
				if err := validate(s.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
		}
	case "string":
		str, ok := v.(string)
		if !ok {
			return &FieldError{Path: path, Reason: fmt.Sprintf("expected string, got %T", v)}
		}
		if len(s.Enum) > 0 {
			for _, allowed := range s.Enum {
				if str == allowed {
					return nil
				}
			}
			return &FieldError{Path: path, Reason: fmt.Sprintf("%q not in enum %v", str, s.Enum)}
		}
	case "number":
		if _, ok := v.(float64); !ok {
			return &FieldError{Path: path, Reason: fmt.Sprintf("expected number, got %T", v)}
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return &FieldError{Path: path, Reason: fmt.Sprintf("expected boolean, got %T", v)}
		}
	}
	return nil
}

// Parse decodes raw JSON and validates it in one step.
func Parse(s *Schema, raw []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	if err := Validate(s, v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &FieldError{Path: "$", Reason: "top-level value is not an object"}
	}
	return obj, nil
}

// Clean strips markdown code fences a model may wrap around JSON output
// even when asked not to, plus surrounding whitespace.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Render pretty-prints a descriptor for embedding in a system prompt.
func Render(s *Schema) string {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

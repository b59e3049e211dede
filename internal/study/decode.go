package study

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"
)

// ShapeError reports where a payload departs from the output schema.
type ShapeError struct {
	Path   string
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Path == "" {
		return "payload does not match study schema: " + e.Reason
	}
	return fmt.Sprintf("payload does not match study schema at %s: %s", e.Path, e.Reason)
}

// Decode parses a raw model payload, checks it against OutputSchema and
// returns the document. Metadata is left as the model produced it; run the
// result through Normalize before handing it to callers.
func Decode(raw string) (*Document, error) {
	var value interface{}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, &ShapeError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if dec.More() {
		return nil, &ShapeError{Reason: "trailing data after JSON document"}
	}

	if err := Check(value, OutputSchema()); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ShapeError{Reason: err.Error()}
	}
	return &doc, nil
}

// Check walks a decoded JSON value against schema. Required properties must
// be present and non-null; present properties must have the declared type.
// Properties the schema does not declare are ignored.
func Check(value interface{}, schema *genai.Schema) error {
	return check(value, schema, "")
}

func check(value interface{}, schema *genai.Schema, path string) error {
	if schema == nil {
		return nil
	}

	switch schema.Type {
	case genai.TypeObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return mismatch(path, "object", value)
		}
		for _, name := range schema.Required {
			v, present := obj[name]
			if !present || v == nil {
				return &ShapeError{Path: join(path, name), Reason: "required property missing"}
			}
		}
		// Sorted so the first reported error is stable.
		names := make([]string, 0, len(schema.Properties))
		for name := range schema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v, present := obj[name]
			if !present || v == nil {
				continue
			}
			if err := check(v, schema.Properties[name], join(path, name)); err != nil {
				return err
			}
		}

	case genai.TypeArray:
		arr, ok := value.([]interface{})
		if !ok {
			return mismatch(path, "array", value)
		}
		for i, item := range arr {
			if err := check(item, schema.Items, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}

	case genai.TypeString:
		if _, ok := value.(string); !ok {
			return mismatch(path, "string", value)
		}

	case genai.TypeNumber, genai.TypeInteger:
		if _, ok := value.(json.Number); !ok {
			if _, ok := value.(float64); !ok {
				return mismatch(path, "number", value)
			}
		}

	case genai.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return mismatch(path, "boolean", value)
		}
	}
	return nil
}

func mismatch(path, want string, got interface{}) error {
	return &ShapeError{Path: path, Reason: fmt.Sprintf("expected %s, got %s", want, jsonKind(got))}
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// Encode renders a document as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode study: %w", err)
	}
	return buf.Bytes(), nil
}

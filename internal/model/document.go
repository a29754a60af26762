package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// Collection names and the singleton profile key.
const (
	CollectionProjects = "projects"
	CollectionSkills   = "skills"
	CollectionUser     = "user"

	UserDocumentID = "default"
)

// DocumentStore persists flat documents grouped in named collections.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	List(ctx context.Context, collection string) ([]StoredDocument, error)
	Set(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
}

// Document is a flat key-value record as kept by the document store.
type Document map[string]any

// StoredDocument is a document together with its key.
type StoredDocument struct {
	ID   string
	Data Document
}

// String returns the string stored under key or "" when absent.
func (d Document) String(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the integer stored under key. Missing values read as zero.
func (d Document) Int(key string) (int, error) {
	switch v := d[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("field %s is not an integer: %v", key, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("field %s is not an integer: %w", key, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("field %s has unexpected type %T", key, v)
	}
}

// Strings returns the list of strings stored under key.
func (d Document) Strings(key string) []string {
	switch v := d[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

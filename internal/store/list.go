package store

import (
	"fmt"
	"slices"

	"github.com/dtroode/portfolio-server/internal/model"
)

// Append returns a copy of list with item added at the end. It fails with
// model.ErrDuplicateKey when an item with the same key is already listed.
func Append[T any](list []T, item T, key func(T) string) ([]T, error) {
	k := key(item)
	if slices.ContainsFunc(list, func(v T) bool { return key(v) == k }) {
		return nil, fmt.Errorf("%w: %s", model.ErrDuplicateKey, k)
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item), nil
}

// Replace returns a copy of list with the item matching k swapped for item.
func Replace[T any](list []T, k string, item T, key func(T) string) ([]T, error) {
	i := slices.IndexFunc(list, func(v T) bool { return key(v) == k })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, k)
	}
	out := slices.Clone(list)
	out[i] = item
	return out, nil
}

// Remove returns a copy of list without the item matching k.
func Remove[T any](list []T, k string, key func(T) string) ([]T, error) {
	i := slices.IndexFunc(list, func(v T) bool { return key(v) == k })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, k)
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

// Upsert replaces the item with the same key or appends it. Used when a
// confirmed remote write lands after a concurrent change moved the entry.
func Upsert[T any](list []T, item T, key func(T) string) []T {
	k := key(item)
	out := slices.Clone(list)
	if i := slices.IndexFunc(out, func(v T) bool { return key(v) == k }); i >= 0 {
		out[i] = item
		return out
	}
	return append(out, item)
}

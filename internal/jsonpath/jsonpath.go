// Package jsonpath edits nested JSON documents (maps and slices) addressed
// by dotted paths such as "experience.0.title". The template editor uses it
// to apply field-level changes without disturbing sibling values.
package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Error describes a failed path operation.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("path error at %q: %s", e.Path, e.Message)
}

// segments splits a dotted path. Empty paths and empty segments are invalid.
func segments(path string) ([]string, error) {
	if path == "" {
		return nil, &Error{Path: path, Message: "empty path"}
	}
	parts := strings.Split(path, ".")
	for _, part := range parts {
		if part == "" {
			return nil, &Error{Path: path, Message: "empty path segment"}
		}
	}
	return parts, nil
}

// Get returns the value at path. Missing intermediate containers are an
// error, never created.
func Get(doc map[string]any, path string) (any, error) {
	parts, err := segments(path)
	if err != nil {
		return nil, err
	}

	var current any = doc
	for i, part := range parts {
		prefix := strings.Join(parts[:i+1], ".")
		switch container := current.(type) {
		case map[string]any:
			value, ok := container[part]
			if !ok {
				return nil, &Error{Path: prefix, Message: "key not found"}
			}
			current = value
		case []any:
			index, err := sliceIndex(part, len(container), prefix)
			if err != nil {
				return nil, err
			}
			current = container[index]
		default:
			return nil, &Error{Path: prefix, Message: "not a container"}
		}
	}
	return current, nil
}

// Set writes value at path, creating missing intermediate maps. Slice
// elements must already exist: Set never changes an array's length.
func Set(doc map[string]any, path string, value any) error {
	parts, err := segments(path)
	if err != nil {
		return err
	}
	return setIn(doc, parts, parts, value)
}

func setIn(current any, remaining, all []string, value any) error {
	part := remaining[0]
	prefix := strings.Join(all[:len(all)-len(remaining)+1], ".")
	last := len(remaining) == 1

	switch container := current.(type) {
	case map[string]any:
		if last {
			container[part] = value
			return nil
		}
		next, ok := container[part]
		if !ok || next == nil {
			// Create an intermediate map; arrays are never implicitly created
			// because an index segment cannot say how long they should be.
			created := map[string]any{}
			container[part] = created
			next = created
		}
		return setIn(next, remaining[1:], all, value)
	case []any:
		index, err := sliceIndex(part, len(container), prefix)
		if err != nil {
			return err
		}
		if last {
			container[index] = value
			return nil
		}
		return setIn(container[index], remaining[1:], all, value)
	default:
		return &Error{Path: prefix, Message: "not a container"}
	}
}

// Insert inserts value into the slice addressed by the path's parent, before
// the index in the final segment. An index equal to the slice length appends.
func Insert(doc map[string]any, path string, value any) error {
	parts, err := segments(path)
	if err != nil {
		return err
	}
	if len(parts) < 2 {
		return &Error{Path: path, Message: "insert requires a parent container"}
	}

	parentPath := strings.Join(parts[:len(parts)-1], ".")
	parent, err := Get(doc, parentPath)
	if err != nil {
		return err
	}
	slice, ok := parent.([]any)
	if !ok {
		return &Error{Path: parentPath, Message: "not an array"}
	}

	index, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || index < 0 || index > len(slice) {
		return &Error{Path: path, Message: fmt.Sprintf("invalid insert index %q", parts[len(parts)-1])}
	}

	grown := make([]any, 0, len(slice)+1)
	grown = append(grown, slice[:index]...)
	grown = append(grown, value)
	grown = append(grown, slice[index:]...)

	// The parent's parent holds the slice header; rewrite it.
	return Set(doc, parentPath, grown)
}

// Remove deletes the map key or slice element at path.
func Remove(doc map[string]any, path string) error {
	parts, err := segments(path)
	if err != nil {
		return err
	}

	last := parts[len(parts)-1]
	var parent any = doc
	if len(parts) > 1 {
		parentPath := strings.Join(parts[:len(parts)-1], ".")
		parent, err = Get(doc, parentPath)
		if err != nil {
			return err
		}
	}

	switch container := parent.(type) {
	case map[string]any:
		if _, ok := container[last]; !ok {
			return &Error{Path: path, Message: "key not found"}
		}
		delete(container, last)
		return nil
	case []any:
		index, err := sliceIndex(last, len(container), path)
		if err != nil {
			return err
		}
		shrunk := append(append([]any{}, container[:index]...), container[index+1:]...)
		return Set(doc, strings.Join(parts[:len(parts)-1], "."), shrunk)
	default:
		return &Error{Path: path, Message: "not a container"}
	}
}

func sliceIndex(part string, length int, prefix string) (int, error) {
	index, err := strconv.Atoi(part)
	if err != nil {
		return 0, &Error{Path: prefix, Message: fmt.Sprintf("%q is not an array index", part)}
	}
	if index < 0 || index >= length {
		return 0, &Error{Path: prefix, Message: fmt.Sprintf("index %d out of range (len %d)", index, length)}
	}
	return index, nil
}

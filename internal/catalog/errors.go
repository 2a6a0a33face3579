package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("product not found")

// ValidationError carries per-field messages for rejected input.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	var (
		first string
		total int
	)
	for _, name := range fieldOrder {
		msgs := e.Fields[name]
		if first == "" && len(msgs) > 0 {
			first = msgs[0]
		}
		total += len(msgs)
	}

	switch more := total - 1; {
	case total == 0:
		return "validation failed"
	case more == 0:
		return first
	case more == 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, more)
	}
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) has(field string) bool {
	return len(e.Fields[field]) > 0
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

// StorageError reports a failure reading or writing the catalog file.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	var b strings.Builder
	b.WriteString("catalog storage: ")
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StorageError) Unwrap() error { return e.Err }

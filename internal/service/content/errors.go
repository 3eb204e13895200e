package content

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidationFailed Kind = iota + 1
	KindEmbeddingFailed
	KindStoreReadFailed
	KindStoreWriteFailed
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return "ValidationFailed"
	case KindEmbeddingFailed:
		return "EmbeddingFailed"
	case KindStoreReadFailed:
		return "StoreReadFailed"
	case KindStoreWriteFailed:
		return "StoreWriteFailed"
	case KindNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Op names the operation that failed. It prefixes the message clients see.
type Op string

const (
	OpSearch Op = "Search"
	OpAdd    Op = "Add content"
	OpDelete Op = "Delete"
	OpList   Op = "Get all"
)

type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type Error struct {
	Kind   Kind
	Op     Op
	Err    error
	Fields []FieldError
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return "Content not found"
	case KindValidationFailed:
		return fmt.Sprintf("validation failed: %d field error(s)", len(e.Fields))
	case KindEmbeddingFailed:
		return fmt.Sprintf("%s failed: Embedding failed: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a tagged error, or zero for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func wrap(kind Kind, op Op, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

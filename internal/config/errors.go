package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by errors for config paths that do not exist.
	ErrNotFound = errors.New("ssh config not found")
	// ErrReadFailure is matched by permission and I/O errors.
	ErrReadFailure = errors.New("ssh config unreadable")
	// ErrIncludeCycle is matched when a file includes itself, directly or
	// transitively, or Include nesting runs past util.MaxIncludeDepth.
	ErrIncludeCycle = errors.New("ssh config include cycle")
)

// ErrorKind classifies a configuration failure.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindReadFailure
	KindIncludeCycle
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindIncludeCycle:
		return ErrIncludeCycle
	default:
		return ErrReadFailure
	}
}

// Error reports a fatal problem with one configuration file. It matches its
// kind's sentinel and the wrapped cause through errors.Is.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind.sentinel(), e.Path)
	if e.Err != nil && e.Kind != KindNotFound {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func newError(kind ErrorKind, path string, err error) error {
	return &Error{Kind: kind, Path: path, Err: err}
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Kinds form a vocabulary shared by every storage
// engine, the model layer, collections and the registry.
type Kind string

const (
	KindInvalidKey        Kind = "InvalidKey"
	KindMissingData       Kind = "MissingData"
	KindInvalidData       Kind = "InvalidData"
	KindInvalidField      Kind = "InvalidField"
	KindInvalidCallback   Kind = "InvalidCallback"
	KindInvalidResource   Kind = "InvalidResource"
	KindSupernumerousTag  Kind = "SupernumerousTag"
	KindNotFound          Kind = "NotFound"
	KindAlreadyRegistered Kind = "AlreadyRegistered"
	KindMissingFunction   Kind = "MissingFunction"
	KindWrongType         Kind = "WrongType"
	KindNoId              Kind = "NoId"
	KindLoadOptionsFields Kind = "LoadOptionsFields"
)

// Common sentinel errors, one per kind
var (
	// ErrInvalidKey is returned when an identifier (or one element of an identifier list) is not acceptable
	ErrInvalidKey = errors.New("invalid key")

	// ErrMissingData is returned when a store is attempted without data
	ErrMissingData = errors.New("missing data")

	// ErrInvalidData is returned when data has the wrong shape
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidField is returned when a field is not part of the permitted column set
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidCallback is returned when a callback is missing
	ErrInvalidCallback = errors.New("invalid callback")

	// ErrInvalidResource is returned when a resource (table) name is not acceptable
	ErrInvalidResource = errors.New("invalid resource")

	// ErrSupernumerousTag is returned when a template tag has no value to substitute
	ErrSupernumerousTag = errors.New("supernumerous tag")

	// ErrNotFound is returned when an entity or registration is not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRegistered is returned when a name is registered twice
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrMissingFunction is returned when a capability lacks a required operation
	ErrMissingFunction = errors.New("missing function")

	// ErrWrongType is returned when a value does not conform to the model capability set
	ErrWrongType = errors.New("wrong type")

	// ErrNoId is returned when a model without identifier is used where one is required
	ErrNoId = errors.New("no id")

	// ErrLoadOptionsFields is returned when a fields option is applied to a non-object value
	ErrLoadOptionsFields = errors.New("fields option requires an object value")
)

var sentinels = map[Kind]error{
	KindInvalidKey:        ErrInvalidKey,
	KindMissingData:       ErrMissingData,
	KindInvalidData:       ErrInvalidData,
	KindInvalidField:      ErrInvalidField,
	KindInvalidCallback:   ErrInvalidCallback,
	KindInvalidResource:   ErrInvalidResource,
	KindSupernumerousTag:  ErrSupernumerousTag,
	KindNotFound:          ErrNotFound,
	KindAlreadyRegistered: ErrAlreadyRegistered,
	KindMissingFunction:   ErrMissingFunction,
	KindWrongType:         ErrWrongType,
	KindNoId:              ErrNoId,
	KindLoadOptionsFields: ErrLoadOptionsFields,
}

// Sentinel returns the sentinel error for a kind, or nil for an unknown kind.
func (k Kind) Sentinel() error {
	return sentinels[k]
}

func (k Kind) String() string {
	return string(k)
}

// Error is the general error carrying a kind, the failing operation and an optional cause.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && target == s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorKind reports the kind of the error.
func (e *Error) ErrorKind() Kind {
	return e.Kind
}

// NotFoundError represents an error when an entity or registration is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) ErrorKind() Kind {
	return KindNotFound
}

// AlreadyRegisteredError represents an error when a name is registered twice
type AlreadyRegisteredError struct {
	Type string
	Name string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("%s %q already registered", e.Type, e.Name)
}

func (e *AlreadyRegisteredError) Is(target error) bool {
	return target == ErrAlreadyRegistered
}

func (e *AlreadyRegisteredError) ErrorKind() Kind {
	return KindAlreadyRegistered
}

// FieldError represents a field outside of the permitted column set
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid field: %s", e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}

func (e *FieldError) ErrorKind() Kind {
	return KindInvalidField
}

// Helper functions for creating errors

// New creates an error of the given kind for an operation.
func New(kind Kind, op string, format string, args ...any) error {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// Wrap creates an error of the given kind wrapping a cause.
func Wrap(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(typ, key string) error {
	return &NotFoundError{Type: typ, Key: key}
}

// NewAlreadyRegisteredError creates a new AlreadyRegisteredError
func NewAlreadyRegisteredError(typ, name string) error {
	return &AlreadyRegisteredError{Type: typ, Name: name}
}

// NewFieldError creates a new FieldError
func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// KindOf returns the kind of the first error in the chain that carries one.
// It returns the empty kind for foreign errors.
func KindOf(err error) Kind {
	var k interface{ ErrorKind() Kind }
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	for kind, s := range sentinels {
		if errors.Is(err, s) {
			return kind
		}
	}
	return ""
}

// IsKind checks whether err is of the given kind.
func IsKind(err error, kind Kind) bool {
	s := kind.Sentinel()
	return s != nil && errors.Is(err, s)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyRegistered checks if an error is an already registered error
func IsAlreadyRegistered(err error) bool {
	return errors.Is(err, ErrAlreadyRegistered)
}

// IsInvalidKey checks if an error is an invalid key error
func IsInvalidKey(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}

// IsInvalidField checks if an error is an invalid field error
func IsInvalidField(err error) bool {
	return errors.Is(err, ErrInvalidField)
}

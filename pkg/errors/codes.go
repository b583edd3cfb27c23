package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	// CodeValidation marks malformed persisted data or malformed action
	// payloads. Recovered locally: never surfaced to the user.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeLogic marks mutator calls that violate an invariant precondition.
	// Logged and ignored; state unchanged.
	CodeLogic Code = "LOGIC_ERROR"
	// CodeNetwork marks failed catalog/order calls. Always surfaced as a
	// failure view.
	CodeNetwork   Code = "NETWORK_ERROR"
	CodeNoResults Code = "NO_RESULTS"
	CodeNotFound  Code = "NOT_FOUND"
	CodeInternal  Code = "INTERNAL_ERROR"
)

type Metadata struct {
	Retryable      bool
	PublicMessage  string
	UserVisible    bool
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Retryable:      false,
		PublicMessage:  "validation failed",
		UserVisible:    false,
		DetailsAllowed: true,
	},
	CodeLogic: {
		Retryable:      false,
		PublicMessage:  "invalid operation",
		UserVisible:    false,
		DetailsAllowed: true,
	},
	CodeNetwork: {
		Retryable:      true,
		PublicMessage:  "Failed to fetch products",
		UserVisible:    true,
		DetailsAllowed: false,
	},
	CodeNoResults: {
		Retryable:      false,
		PublicMessage:  "No products found",
		UserVisible:    true,
		DetailsAllowed: false,
	},
	CodeNotFound: {
		Retryable:      false,
		PublicMessage:  "resource not found",
		UserVisible:    true,
		DetailsAllowed: false,
	},
	CodeInternal: {
		Retryable:      true,
		PublicMessage:  "internal error",
		UserVisible:    false,
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

// FailureMessage resolves the human-readable text shown on the failure view.
// Codes whose details are allowed expose their own message; everything else
// falls back to the public message for the code.
func FailureMessage(err error) string {
	typed := As(err)
	if typed == nil {
		return MetadataFor(CodeInternal).PublicMessage
	}
	meta := MetadataFor(typed.Code())
	if meta.DetailsAllowed && typed.Message() != "" {
		return typed.Message()
	}
	return meta.PublicMessage
}

package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeCollection    ErrorType = "COLLECTION"
	ErrTypeStoreIO       ErrorType = "STORE_IO"
	ErrTypeMalformedURL  ErrorType = "MALFORMED_URL"
	ErrTypeInvalidConfig ErrorType = "INVALID_CONFIG"
	ErrTypeExport        ErrorType = "EXPORT"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// Collection marks a Source Collector failure. Fatal for the run.
func Collection(message string, err error) *DomainError {
	return New(ErrTypeCollection, message, err)
}

// StoreIO marks a seen-store read or write failure. Fatal for the run.
func StoreIO(message string, err error) *DomainError {
	return New(ErrTypeStoreIO, message, err)
}

// MalformedURL is only ever logged; the posting it describes is kept.
func MalformedURL(message string, err error) *DomainError {
	return New(ErrTypeMalformedURL, message, err)
}

func InvalidConfig(message string, err error) *DomainError {
	return New(ErrTypeInvalidConfig, message, err)
}

func Export(message string, err error) *DomainError {
	return New(ErrTypeExport, message, err)
}

// Is reports whether any error in err's chain is a DomainError of the given type
func Is(err error, errType ErrorType) bool {
	var de *DomainError
	for err != nil {
		if !stderrors.As(err, &de) {
			return false
		}
		if de.Type == errType {
			return true
		}
		err = de.Err
	}
	return false
}

package merge

import (
	"errors"
	"fmt"
)

// Error represents a merge request that was rejected before any record was built.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes merge errors.
type ErrorCode string

const (
	// ErrCodeDuplicateIDs indicates the identifier sequence of a keyed merge repeats an id.
	ErrCodeDuplicateIDs ErrorCode = "DUPLICATE_IDS"

	// ErrCodeLengthMismatch indicates the sequences of a positional merge differ in length.
	ErrCodeLengthMismatch ErrorCode = "LENGTH_MISMATCH"

	// ErrCodeInvalidFields indicates the requested field list cannot form a record.
	ErrCodeInvalidFields ErrorCode = "INVALID_FIELDS"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDuplicateIDError returns true if the error is a duplicate identifier error.
// Uses errors.As to handle wrapped errors.
func IsDuplicateIDError(err error) bool {
	return hasCode(err, ErrCodeDuplicateIDs)
}

// IsLengthMismatchError returns true if the error is a list length mismatch error.
// Uses errors.As to handle wrapped errors.
func IsLengthMismatchError(err error) bool {
	return hasCode(err, ErrCodeLengthMismatch)
}

func hasCode(err error, code ErrorCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

// newDuplicateIDsError names the whole offending id sequence.
func newDuplicateIDsError[K comparable](ids []K, dup K) *Error {
	return &Error{
		Code:    ErrCodeDuplicateIDs,
		Message: fmt.Sprintf("not all ids are unique: %v", ids),
		Details: map[string]string{
			"duplicate": fmt.Sprint(dup),
		},
	}
}

func newLengthMismatchError(lens []int) *Error {
	msg := fmt.Sprintf("list lengths must be equal: %v", lens)
	if len(lens) == 0 {
		msg = "at least one list is required"
	}
	return &Error{
		Code:    ErrCodeLengthMismatch,
		Message: msg,
	}
}

func newInvalidFieldsError(err error) *Error {
	return &Error{
		Code:    ErrCodeInvalidFields,
		Message: err.Error(),
	}
}

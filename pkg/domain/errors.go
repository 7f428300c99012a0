package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError so transports can map it to a status code.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindNoAccess          ErrorKind = "NO_ACCESS"
	KindBadRequest        ErrorKind = "BAD_REQUEST"
	KindUnsupportedStatus ErrorKind = "UNSUPPORTED_STATUS"
	KindConflict          ErrorKind = "CONFLICT"
)

// DomainError is a business-rule failure returned by services.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewNotFoundError reports an absent entity, or access disguised as absence.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with id %s is not exist", entity, id),
	}
}

// NewNotFoundMessage reports a not-found condition with a custom message.
func NewNotFoundMessage(message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: message}
}

// NewNoAccessError reports a known actor lacking permission.
func NewNoAccessError(message string) *DomainError {
	return &DomainError{Kind: KindNoAccess, Message: message}
}

// NewBadRequestError reports malformed input or a violated business rule.
func NewBadRequestError(message string) *DomainError {
	return &DomainError{Kind: KindBadRequest, Message: message}
}

// NewUnsupportedStatusError reports an unknown listing-state token.
func NewUnsupportedStatusError(state string) *DomainError {
	return &DomainError{Kind: KindUnsupportedStatus, Message: "Unknown state: " + state}
}

// NewConflictError reports a lost optimistic-lock race.
func NewConflictError(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of a wrapped DomainError, or "" for other errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsNotFound(err error) bool          { return KindOf(err) == KindNotFound }
func IsNoAccess(err error) bool          { return KindOf(err) == KindNoAccess }
func IsBadRequest(err error) bool        { return KindOf(err) == KindBadRequest }
func IsUnsupportedStatus(err error) bool { return KindOf(err) == KindUnsupportedStatus }
func IsConflict(err error) bool          { return KindOf(err) == KindConflict }

package pkg

import (
	"errors"
	"fmt"
	"strings"

	cn "github.com/openledgerhq/transfer-engine/pkg/constant"
)

// EntityNotFoundError records an error indicating an entity was not found in any case that caused it.
// You can use it to representing a Database not found, cache not found or any other repository.
type EntityNotFoundError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

// NewEntityNotFoundError creates an instance of EntityNotFoundError.
func NewEntityNotFoundError(entityType string) EntityNotFoundError {
	return EntityNotFoundError{
		EntityType: entityType,
	}
}

// Error implements the error interface.
func (e EntityNotFoundError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		if strings.TrimSpace(e.EntityType) != "" {
			return fmt.Sprintf("Entity %s not found", e.EntityType)
		}

		if e.Err != nil {
			return e.Err.Error()
		}

		return "entity not found"
	}

	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e EntityNotFoundError) Unwrap() error {
	return e.Err
}

// ValidationError records an error indicating that an input failed a business validation.
type ValidationError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if strings.TrimSpace(e.Code) != "" {
		return fmt.Sprintf("%s - %s", e.Code, e.Message)
	}

	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e ValidationError) Unwrap() error {
	return e.Err
}

// EntityConflictError records an error indicating an entity already exists in some repository
// You can use it to representing a Database conflict, cache or any other repository.
type EntityConflictError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

// Error implements the error interface.
func (e EntityConflictError) Error() string {
	if e.Err != nil && strings.TrimSpace(e.Message) == "" {
		return e.Err.Error()
	}

	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e EntityConflictError) Unwrap() error {
	return e.Err
}

// UnprocessableOperationError indicates an operation that couldn't be performed because it's invalid
// in the entity's current state, such as an illegal transfer state transition.
type UnprocessableOperationError struct {
	EntityType string
	Title      string
	Message    string
	Code       string
	Err        error
}

func (e UnprocessableOperationError) Error() string {
	return e.Message
}

// Unwrap implements the error interface introduced in Go 1.13 to unwrap the internal error.
func (e UnprocessableOperationError) Unwrap() error {
	return e.Err
}

// InternalServerError indicates an unexpected infrastructure fault.
type InternalServerError struct {
	EntityType string `json:"entityType,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Err        error  `json:"err,omitempty"`
}

func (e InternalServerError) Error() string {
	return e.Message
}

// FieldValidations is a map of known fields and their validation errors.
type FieldValidations map[string]string

// UnknownFields is a map of unknown fields and their error messages.
type UnknownFields map[string]any

// ValidationKnownFieldsError records an error that occurred during a validation of known fields.
type ValidationKnownFieldsError struct {
	EntityType string           `json:"entityType,omitempty"`
	Title      string           `json:"title,omitempty"`
	Code       string           `json:"code,omitempty"`
	Message    string           `json:"message,omitempty"`
	Fields     FieldValidations `json:"fields,omitempty"`
}

// Error returns the error message for a ValidationKnownFieldsError.
func (r ValidationKnownFieldsError) Error() string {
	return r.Message
}

// ValidationUnknownFieldsError records an error that occurred during a validation of unknown fields.
type ValidationUnknownFieldsError struct {
	EntityType string        `json:"entityType,omitempty"`
	Title      string        `json:"title,omitempty"`
	Code       string        `json:"code,omitempty"`
	Message    string        `json:"message,omitempty"`
	Fields     UnknownFields `json:"fields,omitempty"`
}

// Error returns the error message for a ValidationUnknownFieldsError.
func (r ValidationUnknownFieldsError) Error() string {
	return r.Message
}

// ValidateInternalError validates the error and returns an appropriate InternalServerError.
func ValidateInternalError(err error, entityType string) error {
	return InternalServerError{
		EntityType: entityType,
		Code:       cn.ErrInternalServer.Error(),
		Title:      "Internal Server Error",
		Message:    "The server encountered an unexpected error. Please try again later or contact support.",
		Err:        err,
	}
}

// ValidateBadRequestFieldsError validates the error and returns the appropriate bad request error code,
// title, message, and the invalid fields.
func ValidateBadRequestFieldsError(knownInvalidFields FieldValidations, entityType string, unknownFields UnknownFields) error {
	if len(unknownFields) == 0 && len(knownInvalidFields) == 0 {
		return errors.New("expected knownInvalidFields and unknownFields to be non-empty")
	}

	if len(unknownFields) > 0 {
		return ValidationUnknownFieldsError{
			EntityType: entityType,
			Code:       cn.ErrUnexpectedFieldsInTheRequest.Error(),
			Title:      "Unexpected Fields in the Request",
			Message:    "The request body contains more fields than expected. Please send only the allowed fields as per the documentation. The unexpected fields are listed in the fields object.",
			Fields:     unknownFields,
		}
	}

	return ValidationKnownFieldsError{
		EntityType: entityType,
		Code:       cn.ErrBadRequest.Error(),
		Title:      "Bad Request",
		Message:    "The server could not understand the request due to malformed syntax. Please check the listed fields and try again.",
		Fields:     knownInvalidFields,
	}
}

// ValidateBusinessError validates the error and returns the appropriate business error code, title, and message.
//
//nolint:gocyclo
func ValidateBusinessError(err error, entityType string, args ...any) error {
	switch {
	case errors.Is(err, cn.ErrUserNotFound):
		return EntityNotFoundError{
			EntityType: entityType,
			Code:       cn.ErrUserNotFound.Error(),
			Title:      "User Not Found",
			Message:    fmt.Sprintf("No user account was found for the ID %s. Please make sure to use the correct user ID.", args...),
		}
	case errors.Is(err, cn.ErrUserAlreadyExists):
		return EntityConflictError{
			EntityType: entityType,
			Code:       cn.ErrUserAlreadyExists.Error(),
			Title:      "User Already Exists",
			Message:    fmt.Sprintf("A user account with the ID %s already exists. Please choose a different user ID.", args...),
		}
	case errors.Is(err, cn.ErrTransferNotFound):
		return EntityNotFoundError{
			EntityType: entityType,
			Code:       cn.ErrTransferNotFound.Error(),
			Title:      "Transfer Not Found",
			Message:    "No transfer was found for the given ID. Please make sure to use the correct transfer ID.",
		}
	case errors.Is(err, cn.ErrInsufficientBalance):
		return ValidationError{
			EntityType: entityType,
			Code:       cn.ErrInsufficientBalance.Error(),
			Title:      "Insufficient Balance",
			Message:    fmt.Sprintf("The account %s does not have enough balance to cover the requested amount. Please check the balance and try again.", args...),
		}
	case errors.Is(err, cn.ErrInvalidTransferState):
		return UnprocessableOperationError{
			EntityType: entityType,
			Code:       cn.ErrInvalidTransferState.Error(),
			Title:      "Invalid Transfer State",
			Message:    fmt.Sprintf("The transfer cannot move from %s to %s. Please check the transfer status and try again.", args...),
		}
	case errors.Is(err, cn.ErrCancellationWindowExpired):
		return UnprocessableOperationError{
			EntityType: entityType,
			Code:       cn.ErrCancellationWindowExpired.Error(),
			Title:      "Cancellation Window Expired",
			Message:    "The transfer can no longer be cancelled because the cancellation window has passed.",
		}
	case errors.Is(err, cn.ErrSameAccountTransfer):
		return ValidationError{
			EntityType: entityType,
			Code:       cn.ErrSameAccountTransfer.Error(),
			Title:      "Same Account Transfer",
			Message:    "The sender and the receiver of a transfer must be different accounts.",
		}
	case errors.Is(err, cn.ErrInvalidAmount):
		return ValidationError{
			EntityType: entityType,
			Code:       cn.ErrInvalidAmount.Error(),
			Title:      "Invalid Amount",
			Message:    "The amount must be a positive value with at most two decimal places.",
		}
	case errors.Is(err, cn.ErrEntityNotFound):
		return EntityNotFoundError{
			EntityType: entityType,
			Code:       cn.ErrEntityNotFound.Error(),
			Title:      "Entity Not Found",
			Message:    "No entity was found for the given ID. Please make sure to use the correct ID for the entity you are trying to manage.",
		}
	case errors.Is(err, cn.ErrInvalidPathParameter):
		return ValidationError{
			EntityType: entityType,
			Code:       cn.ErrInvalidPathParameter.Error(),
			Title:      "Invalid Path Parameter",
			Message:    fmt.Sprintf("The provided path parameter %s is not in the expected format. Please verify the value and try again.", args...),
		}
	case errors.Is(err, cn.ErrInvalidQueryParameter):
		return ValidationError{
			EntityType: entityType,
			Code:       cn.ErrInvalidQueryParameter.Error(),
			Title:      "Invalid Query Parameter",
			Message:    fmt.Sprintf("The provided query parameter %s is not in the expected format. Please verify the value and try again.", args...),
		}
	case errors.Is(err, cn.ErrCreditFailed):
		return InternalServerError{
			EntityType: entityType,
			Code:       cn.ErrCreditFailed.Error(),
			Title:      "Credit Failed",
			Message:    fmt.Sprintf("The credit leg of transfer %v failed unexpectedly. The message will be redelivered.", args...),
		}
	default:
		return err
	}
}

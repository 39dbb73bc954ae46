package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes shared by the service layer, the store backends and the HTTP surface.
const (
	CodeDuplicateRequest = "DUPLICATE_REQUEST"
	CodeInvalidTarget    = "INVALID_TARGET"
	CodeNotFound         = "NOT_FOUND"
	CodeAlreadyResolved  = "ALREADY_RESOLVED"
	CodeTransientStore   = "TRANSIENT_STORE"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternal         = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. Matching is done on Code only.
var (
	ErrDuplicateRequest = &AppError{Code: CodeDuplicateRequest, Message: "request already sent"}
	ErrInvalidTarget    = &AppError{Code: CodeInvalidTarget, Message: "cannot connect with yourself"}
	ErrNotFound         = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyResolved  = &AppError{Code: CodeAlreadyResolved, Message: "request was already resolved"}
	ErrTransientStore   = &AppError{Code: CodeTransientStore, Message: "store unavailable"}
	ErrValidation       = &AppError{Code: CodeValidation, Message: "validation failed"}
	ErrUnauthorized     = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDuplicateRequestError reports an existing pending request for the pair.
func NewDuplicateRequestError(initiatorID, recipientID uint) *AppError {
	return &AppError{
		Code:    CodeDuplicateRequest,
		Message: fmt.Sprintf("a pending connection request already exists between users %d and %d", initiatorID, recipientID),
	}
}

// NewAlreadyConnectedError reports a request between users who are already connected.
func NewAlreadyConnectedError(initiatorID, recipientID uint) *AppError {
	return &AppError{
		Code:    CodeDuplicateRequest,
		Message: fmt.Sprintf("users %d and %d are already connected", initiatorID, recipientID),
	}
}

// NewInvalidTargetError reports a self-connection attempt.
func NewInvalidTargetError() *AppError {
	return &AppError{
		Code:    CodeInvalidTarget,
		Message: "Cannot send a connection request to yourself",
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewAlreadyResolvedError reports a resolve attempt on a terminal request.
func NewAlreadyResolvedError(requestID uint, status ConnectionStatus) *AppError {
	msg := fmt.Sprintf("Connection request %d was already resolved", requestID)
	if status != "" {
		msg = fmt.Sprintf("Connection request %d was already %s", requestID, status)
	}
	return &AppError{
		Code:    CodeAlreadyResolved,
		Message: msg,
	}
}

// NewTransientStoreError wraps a store or network failure that the next poll cycle may recover from.
func NewTransientStoreError(err error) *AppError {
	return &AppError{
		Code:    CodeTransientStore,
		Message: "Entity store unavailable",
		Err:     err,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusCode maps an error to the HTTP status the API answers with.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeDuplicateRequest, CodeAlreadyResolved:
		return fiber.StatusConflict
	case CodeInvalidTarget, CodeValidation:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeUnauthorized:
		return fiber.StatusForbidden
	case CodeTransientStore:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil && appErr.Code != CodeInternal {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

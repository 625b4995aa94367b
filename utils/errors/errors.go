package errors

import (
	goerrors "errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the API layer.
const (
	ErrUnauthorized        = "UNAUTHORIZED"
	ErrRequestParser       = "REQUEST_PARSER_ERROR"
	ErrValidation          = "VALIDATION_ERROR"
	ErrInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrInsufficientHolding = "INSUFFICIENT_HOLDING"
	ErrStrategyThreshold   = "STRATEGY_THRESHOLD"
	ErrNotFound            = "NOT_FOUND"
	ErrInternal            = "INTERNAL_SERVER_ERROR"
)

var ErrorMessages = map[string]string{
	ErrUnauthorized:        "Unauthorized",
	ErrRequestParser:       "The request body could not be parsed.",
	ErrValidation:          "The request is not valid.",
	ErrInsufficientBalance: "Balance does not cover the trade cost.",
	ErrInsufficientHolding: "Position does not cover the sell amount.",
	ErrStrategyThreshold:   "A strategy needs exactly one of buyAt or sellAt.",
	ErrNotFound:            "Resource not found.",
	ErrInternal:            "Internal Server Error",
}

func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return ErrorMessages[ErrValidation]
}

// ErrorBase is the error type handlers panic or return with; the fiber error
// handler converts it into an ErrorResponse with the right status code.
type ErrorBase struct {
	Status  int
	Code    string
	Message string
}

func (e *ErrorBase) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrorResponse is the JSON error body. The legacy dashboard client only reads
// the "error" field, so the human message goes there.
type ErrorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

func (e *ErrorBase) NewErrorResponse() ErrorResponse {
	return ErrorResponse{Code: e.Code, Error: e.Message}
}

func New(status int, code string) *ErrorBase {
	return &ErrorBase{Status: status, Code: code, Message: GetErrorMessage(code)}
}

func NewWithMessage(status int, code, message string) *ErrorBase {
	return &ErrorBase{Status: status, Code: code, Message: message}
}

func NewUnauthorizedError() *ErrorBase {
	return New(fiber.StatusUnauthorized, ErrUnauthorized)
}

func NewRequestParserError(typeName string) *ErrorBase {
	return NewWithMessage(fiber.StatusBadRequest, ErrRequestParser,
		fmt.Sprintf("The request body could not be parsed into %s.", typeName))
}

func NewValidationError(detail string) *ErrorBase {
	return NewWithMessage(fiber.StatusBadRequest, ErrValidation, detail)
}

func NewInternalServerError() *ErrorBase {
	return New(fiber.StatusInternalServerError, ErrInternal)
}

// ConvertToErrorBase unwraps err into an *ErrorBase when possible; otherwise it
// returns the original error so the caller can fall back to a 500.
func ConvertToErrorBase(err error) (*ErrorBase, error) {
	var base *ErrorBase
	if goerrors.As(err, &base) {
		return base, nil
	}
	return nil, err
}

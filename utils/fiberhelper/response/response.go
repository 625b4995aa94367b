package response

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"cryptoai/utils/errors"
)

type Ext struct {
	*fiber.Ctx
}

// Ok : 200 response with a JSON body
func (ext Ext) Ok(data interface{}) error {
	return ext.Status(fiber.StatusOK).JSON(data)
}

// Error : error response
// - err: the Go error
// - errCode: optional explicit error code overriding err.Error()
func (ext Ext) Error(err error, errCode ...string) error {
	var code string
	if len(errCode) > 0 {
		code = errCode[0]
	} else {
		code = err.Error()
	}

	msg := errors.GetErrorMessage(code)

	status := fiber.StatusBadRequest
	switch code {
	case errors.ErrUnauthorized:
		status = fiber.StatusUnauthorized
	case errors.ErrNotFound:
		status = fiber.StatusNotFound
	}

	res := errors.ErrorResponse{
		Code:  strconv.Itoa(status),
		Error: msg,
	}

	return ext.Status(status).JSON(res)
}

// Unauthorized : 401 with the body the dashboard client expects
func (ext Ext) Unauthorized() error {
	return ext.Status(fiber.StatusUnauthorized).JSON(errors.NewUnauthorizedError().NewErrorResponse())
}

// Panic : 500 response
func (ext Ext) Panic(id interface{}) error {
	res := errors.ErrorResponse{
		Code:  strconv.Itoa(fiber.StatusInternalServerError),
		Error: "Internal Server Error",
	}
	return ext.Status(fiber.StatusInternalServerError).JSON(res)
}

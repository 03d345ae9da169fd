package response

import (
	"net/http"

	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message,omitempty"`
	Count        *int        `json:"count,omitempty"`
	Token        string      `json:"token,omitempty"`
	ClientSecret string      `json:"clientSecret,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}

type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

func WriteSuccessResponse(c echo.Context, message string, data interface{}) error {
	return writeSuccess(c, http.StatusOK, SuccessResponse{Message: message, Data: data})
}

func WriteCreatedResponse(c echo.Context, message string, data interface{}) error {
	return writeSuccess(c, http.StatusCreated, SuccessResponse{Message: message, Data: data})
}

func WriteListResponse(c echo.Context, count int, data interface{}) error {
	return writeSuccess(c, http.StatusOK, SuccessResponse{Count: &count, Data: data})
}

func WriteTokenResponse(c echo.Context, statusCode int, token string, data interface{}) error {
	return writeSuccess(c, statusCode, SuccessResponse{Token: token, Data: data})
}

func WriteClientSecretResponse(c echo.Context, clientSecret string, data interface{}) error {
	return writeSuccess(c, http.StatusOK, SuccessResponse{ClientSecret: clientSecret, Data: data})
}

func WriteErrorResponse(c echo.Context, err error, errors interface{}) error {
	statusCode := errs.GetErrorStatusCode(err)
	resp := ErrorResponse{}
	resp.Success = false
	resp.Message = errs.ClientMessage(err)
	resp.Errors = errors

	return c.JSON(statusCode, resp)
}

func writeSuccess(c echo.Context, statusCode int, resp SuccessResponse) error {
	resp.Success = true
	return c.JSON(statusCode, resp)
}

package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer  = http.StatusInternalServerError
	ErrStatusClient          = http.StatusBadRequest
	ErrStatusNotLoggedIn     = http.StatusUnauthorized
	ErrStatusNoPermission    = http.StatusForbidden
	ErrStatusUnauthorized    = http.StatusUnauthorized
	ErrStatusNotFound        = http.StatusNotFound
	ErrStatusConflict        = http.StatusConflict
	ErrStatusTooManyRequests = http.StatusTooManyRequests
	ErrStatusFileTooLarge    = http.StatusRequestEntityTooLarge
)

var (
	ErrInternalServer          = errors.New("Internal server error")
	ErrClient                  = errors.New("Bad request")
	ErrValidation              = errors.New("Validation failed")
	ErrNotLoggedIn             = errors.New("Not authorized to access this route")
	ErrInvalidCredentialsEmail = errors.New("Invalid credentials")
	ErrInvalidSellerLogin      = errors.New("Invalid seller credentials")
	ErrUnauthorized            = errors.New("Not authorized to access this resource")
	ErrForbidden               = errors.New("User role is not authorized to access this route")
	ErrNotFound                = errors.New("Resource not found")
	ErrEmailAlreadyUsed        = errors.New("Email has already been used")
	ErrNoOrderItems            = errors.New("No order items")
	ErrInsufficientStock       = errors.New("Not enough stock")
	ErrImageRequired           = errors.New("Please upload an image")
	ErrNotAnImage              = errors.New("Uploaded file is not an image")
	ErrFileTooLarge            = errors.New("Uploaded file exceeds the size limit")
	ErrOrderAlreadyPaid        = errors.New("Order has already been paid")
	ErrInvalidSignature        = errors.New("Invalid notification signature")
	ErrTooManyRequests         = errors.New("Too many requests, please try again later")
	ErrConflict                = errors.New("Conflicting record found")
)

var errorMap = map[error]int{
	ErrInternalServer:          ErrStatusInternalServer,
	ErrClient:                  ErrStatusClient,
	ErrValidation:              ErrStatusClient,
	ErrNotLoggedIn:             ErrStatusNotLoggedIn,
	ErrInvalidCredentialsEmail: ErrStatusUnauthorized,
	ErrInvalidSellerLogin:      ErrStatusUnauthorized,
	ErrUnauthorized:            ErrStatusUnauthorized,
	ErrForbidden:               ErrStatusNoPermission,
	ErrNotFound:                ErrStatusNotFound,
	ErrEmailAlreadyUsed:        ErrStatusClient,
	ErrNoOrderItems:            ErrStatusClient,
	ErrInsufficientStock:       ErrStatusClient,
	ErrImageRequired:           ErrStatusClient,
	ErrNotAnImage:              ErrStatusClient,
	ErrFileTooLarge:            ErrStatusFileTooLarge,
	ErrOrderAlreadyPaid:        ErrStatusConflict,
	ErrInvalidSignature:        ErrStatusUnauthorized,
	ErrTooManyRequests:         ErrStatusTooManyRequests,
	ErrConflict:                ErrStatusConflict,
}

// messageError keeps the sentinel for status lookup but replaces the text shown to clients.
type messageError struct {
	err error
	msg string
}

func (e *messageError) Error() string {
	return e.msg
}

func (e *messageError) Unwrap() error {
	return e.err
}

func WithMessage(err error, msg string) error {
	return &messageError{err: err, msg: msg}
}

func GetErrorStatusCode(err error) int {
	if errStatusCode, ok := errorMap[err]; ok {
		return errStatusCode
	}

	for sentinel, errStatusCode := range errorMap {
		if errors.Is(err, sentinel) {
			return errStatusCode
		}
	}

	return errorMap[ErrInternalServer]
}

// ClientMessage hides the text of errors that do not map to a known sentinel.
func ClientMessage(err error) string {
	if _, ok := errorMap[err]; ok {
		return err.Error()
	}

	for sentinel := range errorMap {
		if errors.Is(err, sentinel) {
			return err.Error()
		}
	}

	return ErrInternalServer.Error()
}

package apierror

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"net/http"
	"strings"
)

// ErrorResponse is what every service hands back to the routes layer.
// It is serialized as-is into the response body.
type ErrorResponse interface {
	error
	Code() int
}

type SimpleError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (s *SimpleError) Code() int {
	return s.Status
}

func (s *SimpleError) Error() string {
	return s.Message
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

type ValidationError struct {
	Message string        `json:"message"`
	Fields  []*FieldError `json:"fields"`
}

func (v *ValidationError) Code() int {
	return http.StatusBadRequest
}

func (v *ValidationError) Error() string {
	names := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		names[i] = f.Field + ":" + f.Rule
	}
	return v.Message + " (" + strings.Join(names, ", ") + ")"
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Internal server error")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "Malformed request body")
	NotFoundError         = NewSimple(http.StatusNotFound, "Resource not found")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Invalid or missing authentication token")
	NotSignedInError      = NewSimple(http.StatusUnauthorized, "Bitte zuerst einloggen.")

	UserAlreadyExistsError    = NewSimple(http.StatusConflict, "User already exists")
	UserAlreadyConfirmedError = NewSimple(http.StatusConflict, "User is already confirmed")

	IDPInvalidPasswordError     = NewSimple(http.StatusBadRequest, "Password does not match the identity provider policy")
	IDPExistingEmailError       = NewSimple(http.StatusConflict, "Email is already registered")
	IDPUserNotFoundError        = NewSimple(http.StatusNotFound, "User not found")
	IDPUserNotConfirmedError    = NewSimple(http.StatusForbidden, "User has not confirmed the email address")
	IDPCredentialsMismatchError = NewSimple(http.StatusUnauthorized, "Email or password is wrong")
	IDPConfirmCodeMismatchError = NewSimple(http.StatusBadRequest, "Confirmation code does not match")
	IDPConfirmCodeExpiredError  = NewSimple(http.StatusGone, "Confirmation code expired")

	StoreWriteError     = NewSimple(http.StatusInternalServerError, "Speichern fehlgeschlagen.")
	UnknownViewError    = NewSimple(http.StatusNotFound, "Unknown view")
	TooManyActionsError = NewSimple(http.StatusTooManyRequests, "Zu viele Anfragen.")

	// Fixed messages shown to the user when the AI gateway fails.
	ChatNoReplyError     = NewSimple(http.StatusBadGateway, "Keine Antwort erhalten")
	CookingRequestError  = NewSimple(http.StatusBadGateway, "Fehler bei der Anfrage.")
	CookingNoReplyError  = NewSimple(http.StatusBadGateway, "Keine Antwort vom Server erhalten.")
	FitnessGenerateError = NewSimple(http.StatusBadGateway, "Fehler beim Generieren des Trainingsplans.")
	FitnessNoReplyError  = NewSimple(http.StatusBadGateway, "Keine Antwort erhalten.")
)

func NewSimple(status int, message string) *SimpleError {
	return &SimpleError{Status: status, Message: message}
}

func NewMissingParamError(param string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter '%s'", param))
}

func NewInvalidParamTypeError(param, expected string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter '%s' must be of type %s", param, expected))
}

// FromValidationError converts the errors produced by validator.Struct.
// Anything that is not a validator error is reported as a malformed body.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	fields := make([]*FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = &FieldError{
			Field: lowerFirst(fe.Field()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		}
	}
	return &ValidationError{Message: "Validation failed", Fields: fields}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

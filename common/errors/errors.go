package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Kind classifies an application error. Handlers map kinds to HTTP responses.
type Kind string

const (
	KindStorage         Kind = "storage"
	KindEmptyCart       Kind = "empty_cart"
	KindPaymentProvider Kind = "payment_provider"
	KindUpstream        Kind = "upstream"
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindUnauthorized    Kind = "unauthorized"
	KindForbidden       Kind = "forbidden"
	KindConflict        Kind = "conflict"
)

var statusByKind = map[Kind]int{
	KindStorage:         http.StatusInternalServerError,
	KindEmptyCart:       http.StatusUnprocessableEntity,
	KindPaymentProvider: http.StatusBadGateway,
	KindUpstream:        http.StatusBadGateway,
	KindValidation:      http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindUnauthorized:    http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindConflict:        http.StatusConflict,
}

// Error represents an application error. Message is safe to show to clients;
// Err carries the internal cause and is only logged.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string, err error) *Error {
	code, ok := statusByKind[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Storage(err error) *Error {
	return New(KindStorage, "Something went wrong", err)
}

func PaymentProvider(err error) *Error {
	return New(KindPaymentProvider, "Payment provider unavailable", err)
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(KindConflict, message, nil)
}

var (
	ErrEmptyCart    = New(KindEmptyCart, "Cart is empty", nil)
	ErrUnauthorized = New(KindUnauthorized, "Unauthorized", nil)
	ErrForbidden    = New(KindForbidden, "Forbidden", nil)
)

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}

// ErrorMiddleware renders the last error attached with c.Error as {"error": message}.
// Errors that are not *Error become a generic 500; their detail only reaches the log.
func ErrorMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *Error
		if !stderrors.As(err, &appErr) {
			appErr = Storage(err)
		}

		if appErr.Code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("kind", string(appErr.Kind)),
				zap.Error(err),
			)
		}

		c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Message})
	}
}

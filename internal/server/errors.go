package server

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gompdf/docexport/internal/render/ics"
)

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string
	Error string
}

type badRequestError struct {
	err    error
	fields []FieldError
}

// newBadRequestError wraps a provided error with an http.StatusBadRequest code.
func newBadRequestError(err error, flds ...FieldError) error {
	return &badRequestError{err, flds}
}

func (err *badRequestError) Error() string {
	if err.err == nil {
		return ""
	}
	return err.err.Error()
}

// newHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newHTTPErrorHandler(logger *slog.Logger, translator func(validator.FieldError) string) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[fieldKey(vErr)] = translator(vErr)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *ics.TimestampError:
			code = http.StatusBadRequest
			message = map[string]string{origErr.Field: origErr.Error()}
		case *badRequestError:
			if origErr.fields != nil {
				fldErrs := make(map[string]string, len(origErr.fields))
				for _, fErr := range origErr.fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			logger.Error(msg,
				"err", err,
				"method", ctx.Request().Method,
				"path", ctx.Request().URL.Path)
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				logger.Error("failed to send error response", "err", err)
			}
		}
	}
}

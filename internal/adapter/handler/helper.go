package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/errors"
	"github.com/johnquangdev/meeting-minutes/internal/adapter/dto/common"
)

// getRequestID extracts the request id set by the RequestID middleware
func getRequestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleError centralizes error handling and logging. Every failure
// response is the single-object {success:false, message} shape; for
// errors carrying an upstream cause (transcription, storage) the cause
// is surfaced in the message as-is.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.String("app_code", appErr.Code.String()),
				zap.Error(err),
			)
		}

		message := appErr.Message
		if appErr.Raw != nil {
			message = message + ": " + appErr.Raw.Error()
		}

		return c.JSON(appErr.HTTPCode, common.Failure(message))
	}

	// Non-AppError => internal server error
	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.JSON(http.StatusInternalServerError, common.Failure("Internal server error"))
}

// HTTPErrorHandler renders errors that escape the handlers, such as
// identity middleware failures and unknown routes, in the same
// {success, message} envelope as everything else.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var appErr errors.AppError
		if stdErrors.As(err, &appErr) {
			_ = HandleError(logger, c, err)
			return
		}

		var httpErr *echo.HTTPError
		if stdErrors.As(err, &httpErr) {
			message := http.StatusText(httpErr.Code)
			if s, ok := httpErr.Message.(string); ok {
				message = s
			}
			_ = c.JSON(httpErr.Code, common.Failure(message))
			return
		}

		_ = HandleError(logger, c, err)
	}
}

// HandleSuccess writes a success payload. The payload carries its own
// success flag; this helper only logs and encodes.
func HandleSuccess(logger *zap.Logger, c echo.Context, payload interface{}) error {
	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}
	return c.JSON(http.StatusOK, payload)
}

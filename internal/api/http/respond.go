package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adminpanel-sm/adminpanel-backend/internal/apperr"
	"github.com/adminpanel-sm/adminpanel-backend/internal/logging"
)

// maxBodyBytes caps request bodies; items are small hand-edited records.
const maxBodyBytes = 1 << 20

// RespondError writes err as {message[, fields]} with the status its kind maps to.
// Store failures are logged with the request logger and reported generically.
func RespondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}

	body := gin.H{"message": apperr.PublicMessage(err)}
	if fields := apperr.FieldsOf(err); len(fields) > 0 {
		body["fields"] = fields
	}
	c.AbortWithStatusJSON(status, body)
}

// BadRequest short-circuits with a 400 and message.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": message})
}

// DecodeBody reads a JSON body into v keeping numbers as json.Number, so
// integers beyond float64 precision can be told apart from ones that fit.
func DecodeBody(c *gin.Context, v any) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		return apperr.Validation("Invalid request body")
	}
	if len(raw) > maxBodyBytes {
		return apperr.Validation("Request body too large")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return apperr.Validation("Request body is required")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperr.Validation("Invalid JSON body", typeErr.Field)
		}
		return apperr.Validation("Invalid JSON body")
	}
	if dec.More() {
		return apperr.Validation("Invalid JSON body")
	}
	return nil
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"storefront/libs"
	"storefront/middleware"
	"storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// UseJSONFieldNames makes binding errors report json tag names instead of Go field names.
func UseJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

var statusByKind = map[models.ErrorKind]int{
	models.KindNotFound:         http.StatusNotFound,
	models.KindValidationFailed: http.StatusBadRequest,
	models.KindUnauthorized:     http.StatusUnauthorized,
	models.KindForbidden:        http.StatusForbidden,
	models.KindConflict:         http.StatusConflict,
}

// respondError writes the error envelope. Anything that is not an *models.AppError
// is logged and reported as a generic 500.
func respondError(c *gin.Context, log *libs.Logger, err error) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status, ok := statusByKind[appErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, models.ErrorResponse{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Fields,
		})
		return
	}

	log.Error("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Success: false,
		Message: "Internal server error",
	})
}

// bindingError turns a gin binding failure into a ValidationFailed error.
func bindingError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		var fields models.FieldErrors
		for _, fe := range ve {
			fields.Add(fe.Field(), validationMessage(fe))
		}
		return fields.Err()
	}
	return models.FieldInvalid("body", "Invalid request body")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	}
	return "Invalid value."
}

func bindPayload(c *gin.Context) (models.Payload, error) {
	var payload models.Payload
	if err := c.ShouldBindJSON(&payload); err != nil || payload == nil {
		return nil, models.FieldInvalid("body", "Expected a JSON object")
	}
	return payload, nil
}

// pathID parses an integer path parameter; a malformed or out-of-range id is a 404 like an unknown one.
func pathID(c *gin.Context, name, entity string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 || id > models.MaxIntValue {
		return 0, models.NotFound(entity + " not found")
	}
	return id, nil
}

func identity(c *gin.Context) *models.Identity {
	return middleware.CurrentIdentity(c)
}

package handler

import (
	"net/http"
	"reflect"

	"retailpos/internal/apierror"
	"retailpos/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQueryAndValidate is bindAndValidate for query-string-bound structs.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseIDParam parses the :id path segment as a UUID.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id: must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors onto HTTP responses by error kind. Unknown
// errors are attached to the context for the ErrorHandler middleware and
// surface as opaque 500s.
func writeError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case apperr.Auth:
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case apperr.NotFound:
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case apperr.Conflict, apperr.InsufficientStock:
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		c.Error(err)
	}
}

package handler

import (
	"errors"
	"net/http"
	"reflect"

	"agendasalon/internal/apierror"
	"agendasalon/internal/repository"
	"agendasalon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
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
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
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

// writeServiceError maps domain errors to HTTP responses: scheduling
// rejections → 422 with their kind, soft resource conflicts and commit-time
// overlaps → 409, everything else → 400.
func writeServiceError(c *gin.Context, err error) {
	var val *service.ValidacionError
	if errors.As(err, &val) {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewRejection(val.Tipo, val.Mensaje))
		return
	}
	var conf *service.ConflictoRecursosError
	if errors.As(err, &conf) {
		c.JSON(http.StatusConflict, apierror.NewConflict(conf.Error(), conf.Conflictos))
		return
	}
	if errors.Is(err, repository.ErrTurnoSolapado) {
		c.JSON(http.StatusConflict, apierror.New("El empleado ya tiene un turno superpuesto en ese horario"))
		return
	}
	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}

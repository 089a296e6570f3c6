package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// UseJSONFieldNames makes validator errors report json tag names instead of Go field names.
func UseJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// bindJSON разбирает тело запроса и возвращает ошибку валидации в формате по полям
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		verr := &domain.ValidationError{}
		for _, fe := range fieldErrs {
			switch fe.Tag() {
			case "required":
				verr.Add(fe.Field(), "This field is required.")
			default:
				verr.Add(fe.Field(), "Invalid value.")
			}
		}
		return verr
	}
	return domain.NewValidationError(domain.NonFieldErrors, "JSON parse error - "+err.Error())
}

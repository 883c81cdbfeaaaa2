package controllers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fitpress/blogapi/services"
	"github.com/fitpress/blogapi/utils"
)

// Field-level binding errors report the json name of the field, not the Go
// struct field name.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondServiceError translates the service error taxonomy into HTTP
// responses. Unclassified errors are logged and never leaked to the caller.
func respondServiceError(ctx *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": ve.Fields})
	case errors.Is(err, services.ErrPostNotFound):
		utils.Error(ctx, http.StatusNotFound, "Post not found")
	case errors.Is(err, services.ErrDuplicateSlug):
		utils.Error(ctx, http.StatusConflict, "slug already exists")
	default:
		utils.Sugar.Errorw("request failed",
			"path", ctx.Request.URL.Path,
			"error", err,
		)
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}

// respondBindingError shapes gin binding failures into the same field-level
// error body the services produce.
func respondBindingError(ctx *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]services.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, services.FieldError{
				Field:   fe.Field(),
				Message: bindingMessage(fe),
			})
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": fields})
		return
	}
	utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

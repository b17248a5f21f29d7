package util

import (
	"net/http"

	"github.com/SafeMPC/zklogin-service/internal/api/httperrors"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
)

// Validatable go-openapi 风格的请求/响应载荷
type Validatable interface {
	Validate(formats strfmt.Registry) error
}

// BindAndValidateBody 绑定请求体并执行载荷校验
func BindAndValidateBody(c echo.Context, v Validatable) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to bind request body").SetInternal(err)
	}

	if err := v.Validate(strfmt.Default); err != nil {
		return httperrors.NewHTTPValidationError(err)
	}

	return nil
}

// ValidateAndReturn 校验响应载荷后写出 JSON
func ValidateAndReturn(c echo.Context, code int, v Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		return err
	}

	return c.JSON(code, v)
}

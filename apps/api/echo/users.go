package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/academy"
)

// login has no password: the email selects the account, whose role selects the views.
func (api *academyAPI) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	data.Email = core.CleanString(data.Email, true /* lower */)
	if data.Email == "" {
		return core.NewFieldError("email", "this field is required")
	}

	usr, err := api.store.FindUser(data.Email)
	if err != nil {
		if errors.Is(err, academy.ErrNotFound) {
			return core.NewFieldError("email", "no account uses this email")
		}
		return errors.Wrap(err, "finding user by email")
	}
	token, err := api.auth.token(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *academyAPI) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	usr, err := api.store.User(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, usr)
}

package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
)

func (api *academyAPI) queryStaff(ctx echo.Context) error {
	staff := api.store.Snapshot().Staff
	if staff == nil {
		staff = []academy.Staff{}
	}
	return ctx.JSON(http.StatusOK, staff)
}

func (api *academyAPI) createStaff(ctx echo.Context) error {
	var data academy.Staff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Staff")
	}
	m, outcome, err := api.store.AddStaff(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mutated(m, outcome))
}

func (api *academyAPI) updateStaff(ctx echo.Context) error {
	var data academy.StaffPatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StaffPatch")
	}
	m, outcome, err := api.store.UpdateStaff(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mutated(m, outcome))
}

func (api *academyAPI) destroyStaff(ctx echo.Context) error {
	outcome, err := api.store.RemoveStaff(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mutated(nil, outcome))
}

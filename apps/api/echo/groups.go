package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
)

// ownerOf returns the groups creator filter of the context user: staff only see their own groups.
func ownerOf(claims Claims) string {
	if claims.Role == academy.RoleAdmin {
		return ""
	}
	return claims.Subject
}

func (api *academyAPI) queryGroups(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.store.Groups(ownerOf(claims)))
}

func (api *academyAPI) createGroup(ctx echo.Context) error {
	var data academy.Group
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Group")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	data.CreatedBy = claims.Subject

	g, outcome, err := api.store.CreateGroup(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mutated(g, outcome))
}

// ownGroup checks the context user may change the :id group.
func (api *academyAPI) ownGroup(ctx echo.Context) (academy.Group, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return academy.Group{}, err
	}
	g, err := api.store.Group(ctx.Param("id"))
	if err != nil {
		return academy.Group{}, err
	}
	if owner := ownerOf(claims); owner != "" && g.CreatedBy != owner {
		return academy.Group{}, errHttpNotFound
	}
	return g, nil
}

func (api *academyAPI) updateGroup(ctx echo.Context) error {
	g, err := api.ownGroup(ctx)
	if err != nil {
		return err
	}
	var data academy.GroupPatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GroupPatch")
	}
	g, outcome, err := api.store.UpdateGroup(ctx.Request().Context(), g.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mutated(g, outcome))
}

func (api *academyAPI) destroyGroup(ctx echo.Context) error {
	g, err := api.ownGroup(ctx)
	if err != nil {
		return err
	}
	outcome, err := api.store.RemoveGroup(ctx.Request().Context(), g.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mutated(nil, outcome))
}

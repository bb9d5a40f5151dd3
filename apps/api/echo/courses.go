package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
)

func (api *academyAPI) queryCourses(ctx echo.Context) error {
	courses := api.store.Snapshot().Courses
	if courses == nil {
		courses = []academy.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *academyAPI) createCourse(ctx echo.Context) error {
	var data academy.Course
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Course")
	}
	c, outcome, err := api.store.AddCourse(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mutated(c, outcome))
}

func (api *academyAPI) updateCourse(ctx echo.Context) error {
	var data academy.CoursePatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CoursePatch")
	}
	c, outcome, err := api.store.UpdateCourse(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mutated(c, outcome))
}

func (api *academyAPI) destroyCourse(ctx echo.Context) error {
	outcome, err := api.store.RemoveCourse(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mutated(nil, outcome))
}

func (api *academyAPI) courseStats(ctx echo.Context) error {
	stats, err := api.store.CourseStats(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *academyAPI) markAttendance(ctx echo.Context) error {
	var data AttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceRequest")
	}
	rec, outcome, err := api.store.UpdateAttendance(ctx.Request().Context(),
		data.StudentID, data.CourseID, data.Date, academy.AttendanceStatus(data.Status))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mutated(rec, outcome))
}

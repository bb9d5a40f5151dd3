package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
)

func (api *academyAPI) queryStudents(ctx echo.Context) error {
	var q academy.StudentQuery
	if err := ctx.Bind(&q); err != nil {
		return ctx.JSON(http.StatusOK, []academy.Student{})
	}
	q.Clean()
	return ctx.JSON(http.StatusOK, api.store.Students(q, bindOrderings(ctx)))
}

// createStudent registers a student. Students registered by staff get their fees generated
// from the enrolled courses, nothing paid yet.
func (api *academyAPI) createStudent(ctx echo.Context) error {
	var data academy.Student
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Student")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if claims.Role == academy.RoleStaff {
		data.TotalFees = api.store.GenerateFees(data.EnrolledCourses)
		data.PendingFees = data.TotalFees
	}

	st, outcome, err := api.store.AddStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mutated(st, outcome))
}

func (api *academyAPI) retrieveStudent(ctx echo.Context) error {
	st, err := api.store.Student(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *academyAPI) updateStudent(ctx echo.Context) error {
	var data academy.StudentPatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentPatch")
	}
	st, outcome, err := api.store.UpdateStudent(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mutated(st, outcome))
}

func (api *academyAPI) destroyStudent(ctx echo.Context) error {
	outcome, err := api.store.RemoveStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mutated(nil, outcome))
}

func (api *academyAPI) recordPayment(ctx echo.Context) error {
	var data PaymentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PaymentRequest")
	}
	payment, outcome, err := api.store.RecordPayment(
		ctx.Request().Context(), ctx.Param("id"), data.Amount, paymentMethod(data.Method))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mutated(payment, outcome))
}

func (api *academyAPI) studentFees(ctx echo.Context) error {
	st, err := api.store.Student(ctx.Param("id"))
	if err != nil {
		return err
	}
	months, err := api.store.MonthlyFees(st.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, FeesResponse{
		PendingFees: st.PendingFees,
		TotalFees:   st.TotalFees,
		Months:      months,
		Payments:    api.store.Payments(st.ID),
	})
}

func (api *academyAPI) studentAttendance(ctx echo.Context) error {
	st, err := api.store.Student(ctx.Param("id"))
	if err != nil {
		return err
	}
	if course := ctx.QueryParam("course"); course != "" {
		return ctx.JSON(http.StatusOK, academy.CourseAttendance(st.Attendance, course))
	}
	return ctx.JSON(http.StatusOK, st.Attendance)
}

// paymentMethod defaults to cash.
func paymentMethod(method string) academy.PaymentMethod {
	if method == "" {
		return academy.Cash
	}
	return academy.PaymentMethod(method)
}

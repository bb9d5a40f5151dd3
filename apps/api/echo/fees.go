package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sreshtta/academy/core/academy"
	"github.com/sreshtta/academy/core/store"
	reportsvc "github.com/sreshtta/academy/services/report"
)

func (api *academyAPI) bulkPayment(ctx echo.Context) error {
	var data BulkPaymentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkPaymentRequest")
	}
	res, err := api.store.BulkPayment(ctx.Request().Context(), data.StudentIDs, data.Amount, paymentMethod(data.Method))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academyAPI) feeSummary(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.FeeSummary())
}

// sendReminders mails every student with pending fees.
func (api *academyAPI) sendReminders(ctx echo.Context) error {
	students := api.store.Students(academy.StudentQuery{FeeStatus: academy.Pending}, nil)
	msgs := academy.FeeReminders(students, func(s academy.Student) []academy.MonthlyFee {
		months, _ := api.store.MonthlyFees(s.ID)
		return months
	})
	api.mailer.SendMessages(msgs...)
	return ctx.JSON(http.StatusAccepted, RemindersResponse{Sent: len(msgs)})
}

func (api *academyAPI) feesReport(ctx echo.Context) error {
	snap := api.store.Snapshot()
	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, reportsvc.ContentType)
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="fees.xlsx"`)
	res.WriteHeader(http.StatusOK)
	return reportsvc.Write(res, reportsvc.Data{
		Students: snap.Students,
		Courses:  snap.Courses,
		Payments: snap.Payments,
		Now:      time.Now(),
	})
}

func (api *academyAPI) analytics(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.AdminReport())
}

func (api *academyAPI) staffAnalytics(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	staffID := claims.Subject
	if claims.Role == academy.RoleAdmin && ctx.QueryParam("staff") != "" {
		staffID = ctx.QueryParam("staff")
	}
	return ctx.JSON(http.StatusOK, api.store.StaffReport(staffID))
}

func (api *academyAPI) syncStatus(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.SyncStatus())
}

func (api *academyAPI) sync(ctx echo.Context) error {
	report, err := api.store.Sync(ctx.Request().Context())
	if err != nil {
		if store.IsRemoteError(err) {
			api.logger.Warn("sync failed", err)
			return ctx.JSON(http.StatusBadGateway, SyncResponse{SyncReport: report, Error: err.Error()})
		}
		return err
	}
	return ctx.JSON(http.StatusOK, SyncResponse{SyncReport: report})
}

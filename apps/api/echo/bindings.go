package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/store"
)

var orderingParam = "ordering"

func bindOrderings(ctx echo.Context) []core.Ordering {
	return core.ParseOrderings(ctx.QueryParam(orderingParam))
}

type (
	// MutationResponse tells whether the backend saved the mutation or it was queued locally.
	MutationResponse struct {
		Data   interface{} `json:"data,omitempty"`
		Synced bool        `json:"synced"`
	}

	LoginRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	LoginResponse struct {
		Token string      `json:"token"`
		User  interface{} `json:"user"`
	}

	PaymentRequest struct {
		Amount int    `json:"amount"`
		Method string `json:"method"`
	}

	BulkPaymentRequest struct {
		StudentIDs []string `json:"studentIds"`
		Amount     int      `json:"amount"`
		Method     string   `json:"method"`
	}

	AttendanceRequest struct {
		StudentID string `json:"studentId"`
		CourseID  string `json:"courseId"`
		Date      string `json:"date"`
		Status    string `json:"status"`
	}

	FeesResponse struct {
		PendingFees int         `json:"pendingFees"`
		TotalFees   int         `json:"totalFees"`
		Months      interface{} `json:"months"`
		Payments    interface{} `json:"payments"`
	}

	SyncResponse struct {
		store.SyncReport
		Error string `json:"error,omitempty"`
	}

	RemindersResponse struct {
		Sent int `json:"sent"`
	}
)

func mutated(data interface{}, outcome store.Outcome) MutationResponse {
	return MutationResponse{Data: data, Synced: outcome.IsSynced()}
}

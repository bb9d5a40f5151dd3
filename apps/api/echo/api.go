package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/sreshtta/academy/core"
	"github.com/sreshtta/academy/core/store"
)

type academyAPI struct {
	store  *store.Store
	mailer core.EmailService
	auth   *auth
	logger core.Logger
}

func (api *academyAPI) register(g *echo.Group, jwt echo.MiddlewareFunc) {
	// un-authed endpoints
	g.POST("/login", api.login)

	ag := g.Group("", jwt)
	ag.GET("/me", api.me)

	sg := ag.Group("/students")
	sg.GET("", api.queryStudents, rolesMiddleware(adminAndStaff...))
	sg.POST("", api.createStudent, rolesMiddleware(adminAndStaff...))
	sg.GET("/:id", api.retrieveStudent, ctxUserOrRolesMiddleware(adminAndStaff...))
	sg.PUT("/:id", api.updateStudent, rolesMiddleware(adminAndStaff...))
	sg.DELETE("/:id", api.destroyStudent, rolesMiddleware(adminOnly...))
	sg.POST("/:id/payments", api.recordPayment, rolesMiddleware(adminOnly...))
	sg.GET("/:id/fees", api.studentFees, ctxUserOrRolesMiddleware(adminOnly...))
	sg.GET("/:id/attendance", api.studentAttendance, ctxUserOrRolesMiddleware(adminAndStaff...))

	stg := ag.Group("/staff", rolesMiddleware(adminOnly...))
	stg.GET("", api.queryStaff)
	stg.POST("", api.createStaff)
	stg.PUT("/:id", api.updateStaff)
	stg.DELETE("/:id", api.destroyStaff)

	cg := ag.Group("/courses")
	cg.GET("", api.queryCourses)
	cg.POST("", api.createCourse, rolesMiddleware(adminAndStaff...))
	cg.PUT("/:id", api.updateCourse, rolesMiddleware(adminAndStaff...))
	cg.DELETE("/:id", api.destroyCourse, rolesMiddleware(adminAndStaff...))
	cg.GET("/:id/stats", api.courseStats, rolesMiddleware(adminAndStaff...))

	ag.PUT("/attendance", api.markAttendance, rolesMiddleware(adminAndStaff...))

	gg := ag.Group("/groups", rolesMiddleware(adminAndStaff...))
	gg.GET("", api.queryGroups)
	gg.POST("", api.createGroup)
	gg.PUT("/:id", api.updateGroup)
	gg.DELETE("/:id", api.destroyGroup)

	ag.POST("/payments/bulk", api.bulkPayment, rolesMiddleware(adminOnly...))
	ag.GET("/fees/summary", api.feeSummary, rolesMiddleware(adminOnly...))
	ag.POST("/fees/reminders", api.sendReminders, rolesMiddleware(adminOnly...))

	ag.GET("/analytics", api.analytics, rolesMiddleware(adminOnly...))
	ag.GET("/analytics/staff", api.staffAnalytics, rolesMiddleware(adminAndStaff...))

	ag.GET("/reports/fees", api.feesReport, rolesMiddleware(adminOnly...))

	ag.GET("/sync", api.syncStatus, rolesMiddleware(adminAndStaff...))
	ag.POST("/sync", api.sync, rolesMiddleware(adminOnly...))
}

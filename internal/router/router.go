package router

import (
	"time"

	"schoolhub/internal/backup"
	"schoolhub/internal/handlers"
	"schoolhub/internal/middleware"
	"schoolhub/internal/services"
	"schoolhub/pkg/rbac"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(backupManager *backup.Manager) *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	// 注册路由
	registerRoutes(router, backupManager)
	return router
}

// 注册所有路由
func registerRoutes(router *gin.Engine, backupManager *backup.Manager) {

	auth := middleware.NewAuthMiddleware()

	userService := services.NewUserService()
	studentService := services.NewStudentService()
	parentService := services.NewParentService()

	// API路由组
	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// JWT认证路由（无需认证）
		authHandler := handlers.NewAuthHandler(userService)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)          // 用户登录
			authGroup.POST("/logout", authHandler.Logout)        // 用户登出
			authGroup.POST("/refresh", authHandler.RefreshToken) // 刷新Token

			// 🔒 获取当前用户完整信息
			authGroup.GET("/me", auth.RequireLogin(), authHandler.Me)
		}

		// 🔐 用户路由（添加权限保护）
		userHandler := handlers.NewUserHandler(userService)
		users := api.Group("/users")
		{
			users.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.CreateUser), userHandler.Create)
			users.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.ReadUser), userHandler.List)
			users.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.ReadUser), userHandler.GetByID)
			users.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.UpdateUser), userHandler.Update)
			users.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.DeleteUser), userHandler.Delete)
			users.POST("/:id/reset-password", auth.RequireLogin(), auth.RequirePermission(rbac.UpdateUser), userHandler.ResetPassword)

			// 🔒 统计接口（管理员专用）
			users.GET("/stats", auth.RequireLogin(), auth.RequireAdmin(), userHandler.GetStats)
		}

		// 🔐 学生路由
		studentHandler := handlers.NewStudentHandler(studentService)
		students := api.Group("/students")
		{
			students.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.CreateStudent), studentHandler.Create)
			students.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.ReadStudent), studentHandler.List)
			students.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.ReadStudent), studentHandler.GetByID)
			students.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.UpdateStudent), studentHandler.Update)
			students.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.DeleteStudent), studentHandler.Delete)

			// 🔒 班级分配（需要学籍管理权限）
			students.POST("/:id/class", auth.RequireLogin(), auth.RequirePermission(rbac.EnrollStudent), studentHandler.AssignClass)
			students.DELETE("/:id/class", auth.RequireLogin(), auth.RequirePermission(rbac.UnenrollStudent), studentHandler.RemoveFromClass)
		}

		// 🔐 教师路由
		teacherHandler := handlers.NewTeacherHandler(services.NewTeacherService())
		teachers := api.Group("/teachers")
		{
			teachers.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.CreateTeacher), teacherHandler.Create)
			teachers.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.ReadTeacher), teacherHandler.List)
			teachers.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.ReadTeacher), teacherHandler.GetByID)
			teachers.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.UpdateTeacher), teacherHandler.Update)
			teachers.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.DeleteTeacher), teacherHandler.Delete)
			teachers.POST("/:id/subjects", auth.RequireLogin(), auth.RequirePermission(rbac.AssignTeacher), teacherHandler.AssignSubjects)
		}

		// 🔐 班级路由
		classHandler := handlers.NewClassHandler(services.NewClassService())
		classes := api.Group("/classes")
		{
			classes.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.CreateClass), classHandler.Create)
			classes.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.ReadClass), classHandler.List)
			classes.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.ReadClass), classHandler.GetByID)
			classes.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.UpdateClass), classHandler.Update)
			classes.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.DeleteClass), classHandler.Delete)

			classes.POST("/:id/head-teacher", auth.RequireLogin(), auth.RequirePermission(rbac.ManageClassEnrollment), classHandler.SetHeadTeacher)
			classes.POST("/:id/subjects", auth.RequireLogin(), auth.RequirePermission(rbac.ManageClassEnrollment), classHandler.AssignSubjects)
			classes.GET("/:id/roster", auth.RequireLogin(), auth.RequirePermission(rbac.ReadClass), classHandler.GetRoster)
		}

		// 🔐 科目路由
		subjectHandler := handlers.NewSubjectHandler(services.NewSubjectService())
		subjects := api.Group("/subjects")
		{
			subjects.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.CreateSubject), subjectHandler.Create)
			subjects.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.ReadSubject), subjectHandler.List)
			subjects.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.ReadSubject), subjectHandler.GetByID)
			subjects.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.UpdateSubject), subjectHandler.Update)
			subjects.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.DeleteSubject), subjectHandler.Delete)
		}

		// 🔐 成绩路由
		gradeHandler := handlers.NewGradeHandler(services.NewGradeService(), studentService, parentService)
		grades := api.Group("/grades")
		{
			grades.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.CreateGrade), gradeHandler.Record)
			grades.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.ReadGrade), gradeHandler.List)
			grades.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.UpdateGrade), gradeHandler.Update)
			grades.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.DeleteGrade), gradeHandler.Delete)
		}

		// 🔒 报告单（学生/家长也有read_grade权限，处理器内再校验数据归属）
		api.GET("/students/:id/report-card", auth.RequireLogin(), auth.RequirePermission(rbac.ReadGrade), gradeHandler.GetReportCard)
		api.GET("/classes/:id/grade-stats", auth.RequireLogin(), auth.RequireAnyPermission(rbac.ViewGradeReports, rbac.ViewAnalytics), gradeHandler.GetClassStats)

		// 🔐 考勤路由
		attendanceHandler := handlers.NewAttendanceHandler(services.NewAttendanceService(), studentService, parentService)
		attendance := api.Group("/attendance")
		{
			attendance.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.MarkAttendance), attendanceHandler.Mark)
			attendance.POST("/batch", auth.RequireLogin(), auth.RequirePermission(rbac.MarkAttendance), attendanceHandler.MarkBatch)
			attendance.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.ReadAttendance), attendanceHandler.List)
		}
		api.GET("/students/:id/attendance-summary", auth.RequireLogin(), auth.RequirePermission(rbac.ReadAttendance), attendanceHandler.GetStudentSummary)

		// 🔐 家长路由
		parentHandler := handlers.NewParentHandler(parentService)
		parents := api.Group("/parents")
		{
			parents.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.CreateParent), parentHandler.Create)
			parents.GET("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.ReadParent), parentHandler.GetByID)
			parents.PUT("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.UpdateParent), parentHandler.Update)
			parents.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission(rbac.DeleteParent), parentHandler.Delete)

			// 🔒 家长学生关联
			parents.POST("/:id/students", auth.RequireLogin(), auth.RequirePermission(rbac.LinkParentStudent), parentHandler.LinkStudent)
			parents.DELETE("/:id/students/:student_id", auth.RequireLogin(), auth.RequirePermission(rbac.LinkParentStudent), parentHandler.UnlinkStudent)
			parents.GET("/:id/students", auth.RequireLogin(), auth.RequirePermission(rbac.ReadParent), parentHandler.GetChildren)
		}
		// 🔒 家长查看自己的子女，只需登录
		api.GET("/my/children", auth.RequireLogin(), parentHandler.GetMyChildren)

		// 🔐 消息路由
		messageHandler := handlers.NewMessageHandler(services.NewMessageService())
		messages := api.Group("/messages")
		{
			messages.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.SendNotification), messageHandler.Send)
			messages.POST("/broadcast", auth.RequireLogin(), auth.RequirePermission(rbac.SendNotification), messageHandler.Broadcast)

			// 🔒 收件箱操作只针对自己的消息，登录即可
			messages.GET("", auth.RequireLogin(), messageHandler.Inbox)
			messages.GET("/unread-count", auth.RequireLogin(), messageHandler.UnreadCount)
			messages.POST("/:message_id/read", auth.RequireLogin(), messageHandler.MarkRead)
			messages.POST("/read-all", auth.RequireLogin(), messageHandler.MarkAllRead)
		}

		// 🆕 实时消息WebSocket（token通过查询参数传递）
		wsHandler := handlers.NewWebSocketHandler(userService)
		api.GET("/ws/notifications", wsHandler.Notifications)

		// 🔐 缴费路由（管理员专用，统计需要分析权限）
		feeHandler := handlers.NewFeeHandler(services.NewFeeService())
		fees := api.Group("/fees")
		{
			fees.POST("", auth.RequireLogin(), auth.RequireAdmin(), feeHandler.Create)
			fees.GET("", auth.RequireLogin(), auth.RequireAdmin(), feeHandler.List)
			fees.GET("/:id", auth.RequireLogin(), auth.RequireAdmin(), feeHandler.GetByID)
			fees.POST("/:id/pay", auth.RequireLogin(), auth.RequireAdmin(), feeHandler.MarkPaid)
			fees.POST("/:id/waive", auth.RequireLogin(), auth.RequireAdmin(), feeHandler.Waive)
			fees.GET("/stats", auth.RequireLogin(), auth.RequirePermission(rbac.ViewAnalytics), feeHandler.GetStats)
		}

		// 🔐 库存路由（管理员专用）
		inventoryHandler := handlers.NewInventoryHandler(services.NewInventoryService())
		inventory := api.Group("/inventory")
		{
			inventory.POST("", auth.RequireLogin(), auth.RequireAdmin(), inventoryHandler.Create)
			inventory.GET("", auth.RequireLogin(), auth.RequireAdmin(), inventoryHandler.List)
			inventory.GET("/:id", auth.RequireLogin(), auth.RequireAdmin(), inventoryHandler.GetByID)
			inventory.PUT("/:id", auth.RequireLogin(), auth.RequireAdmin(), inventoryHandler.Update)
			inventory.POST("/:id/adjust", auth.RequireLogin(), auth.RequireAdmin(), inventoryHandler.AdjustQuantity)
			inventory.POST("/:id/retire", auth.RequireLogin(), auth.RequireAdmin(), inventoryHandler.Retire)
			inventory.DELETE("/:id", auth.RequireLogin(), auth.RequireAdmin(), inventoryHandler.Delete)
		}

		// 🔐 咨询工单路由（提交无需登录，处理需要工作人员身份）
		inquiryHandler := handlers.NewInquiryHandler(services.NewInquiryService())
		inquiries := api.Group("/inquiries")
		{
			// 🔒 对外咨询入口，匿名可提交
			inquiries.POST("", inquiryHandler.Create)

			inquiries.GET("", auth.RequireLogin(), inquiryHandler.List)
			inquiries.GET("/:id", auth.RequireLogin(), inquiryHandler.GetByID)
			inquiries.GET("/ticket/:ticket_number", auth.RequireLogin(), inquiryHandler.GetByTicket)
			inquiries.PUT("/:id", auth.RequireLogin(), auth.RequireAdmin(), inquiryHandler.Update)
			inquiries.POST("/:id/assign", auth.RequireLogin(), auth.RequireAdmin(), inquiryHandler.Assign)

			// 🔒 状态流转允许被指派人操作，处理器内校验
			inquiries.POST("/:id/status", auth.RequireLogin(), inquiryHandler.UpdateStatus)
			inquiries.POST("/:id/comments", auth.RequireLogin(), inquiryHandler.AddComment)
			inquiries.GET("/:id/comments", auth.RequireLogin(), inquiryHandler.GetComments)
		}

		// 🔐 教学资源路由（教师上传，全员浏览，归属校验在处理器内）
		resourceHandler := handlers.NewResourceHandler(services.NewResourceService(), services.NewTeacherService())
		resources := api.Group("/resources")
		{
			resources.POST("", auth.RequireLogin(), auth.RequireRole(rbac.RoleTeacher), resourceHandler.Create)
			resources.GET("", auth.RequireLogin(), resourceHandler.List)
			resources.GET("/:id", auth.RequireLogin(), resourceHandler.GetByID)
			resources.PUT("/:id", auth.RequireLogin(), resourceHandler.Update)
			resources.DELETE("/:id", auth.RequireLogin(), resourceHandler.Delete)

			resources.POST("/:id/ratings", auth.RequireLogin(), resourceHandler.Rate)
			resources.GET("/:id/ratings", auth.RequireLogin(), resourceHandler.GetRatings)
			resources.POST("/:id/comments", auth.RequireLogin(), resourceHandler.AddComment)
			resources.GET("/:id/comments", auth.RequireLogin(), resourceHandler.GetComments)
		}

		// 🔐 运行状态路由（系统资源访问权限）
		performanceHandler := handlers.NewPerformanceHandler(services.NewClassService(), services.NewAttendanceService())
		performance := api.Group("/performance", auth.RequireLogin(), auth.RequireResource(rbac.ResourceSystem))
		{
			performance.GET("/cache-stats", performanceHandler.CacheStats)
			performance.GET("/health-check", performanceHandler.HealthCheck)
			performance.POST("/warm-cache", performanceHandler.WarmCache)
		}

		// 🚨 备份路由（需要备份/恢复专用权限）
		backupHandler := handlers.NewBackupHandler(backupManager)
		backups := api.Group("/backups")
		{
			backups.POST("", auth.RequireLogin(), auth.RequirePermission(rbac.BackupData), backupHandler.Trigger)
			backups.GET("", auth.RequireLogin(), auth.RequirePermission(rbac.BackupData), backupHandler.List)
			backups.POST("/restore", auth.RequireLogin(), auth.RequirePermission(rbac.RestoreData), backupHandler.Restore)
			backups.POST("/cleanup", auth.RequireLogin(), auth.RequirePermission(rbac.BackupData), backupHandler.Cleanup)
		}
	}
}

func healthCheck(c *gin.Context) {
	data := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "SchoolHub",
		"version":   "1.0.0",
	}
	response.Success(c, data)
}

func ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}

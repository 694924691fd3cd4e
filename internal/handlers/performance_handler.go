package handlers

import (
	"fmt"
	"time"

	"schoolhub/internal/database"
	"schoolhub/internal/services"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
)

// PerformanceHandler 运行状态与缓存运维接口
type PerformanceHandler struct {
	classService      *services.ClassService
	attendanceService *services.AttendanceService
}

func NewPerformanceHandler(classService *services.ClassService, attendanceService *services.AttendanceService) *PerformanceHandler {
	return &PerformanceHandler{
		classService:      classService,
		attendanceService: attendanceService,
	}
}

// WarmCacheRequest 缓存预热请求
type WarmCacheRequest struct {
	Type    string `json:"type" binding:"required,oneof=classes attendance"`
	ClassID *uint  `json:"class_id"`
	From    string `json:"from"` // 格式 2006-01-02，type=attendance时必填
	To      string `json:"to"`
}

// CacheStats 获取缓存统计
func (h *PerformanceHandler) CacheStats(c *gin.Context) {
	stats, err := database.GetCacheManager().Stats()
	if err != nil {
		response.ServerError(c, "缓存不可用")
		return
	}

	response.Success(c, stats)
}

// HealthCheck 数据库与缓存的连通性检查，带响应耗时
func (h *PerformanceHandler) HealthCheck(c *gin.Context) {
	result := gin.H{}

	dbStatus := gin.H{"status": "unhealthy"}
	start := time.Now()
	sqlDB, err := database.GetDB().DB()
	if err == nil {
		if err = sqlDB.Ping(); err == nil {
			dbStatus = gin.H{
				"status":           "healthy",
				"response_time_ms": time.Since(start).Milliseconds(),
			}
		}
	}
	if err != nil {
		dbStatus["error"] = err.Error()
	}
	result["database"] = dbStatus

	cacheManager := database.GetCacheManager()
	if cacheManager.Available() {
		start = time.Now()
		cacheManager.Exists("health_check")
		result["cache"] = gin.H{
			"status":           "healthy",
			"response_time_ms": time.Since(start).Milliseconds(),
		}
	} else {
		result["cache"] = gin.H{"status": "unavailable"}
	}

	dbHealthy := dbStatus["status"] == "healthy"
	switch {
	case dbHealthy && cacheManager.Available():
		result["overall"] = "healthy"
	case dbHealthy:
		result["overall"] = "degraded"
	default:
		result["overall"] = "unhealthy"
	}

	response.Success(c, result)
}

// WarmCache 预热高频访问的缓存
func (h *PerformanceHandler) WarmCache(c *gin.Context) {
	var req WarmCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	switch req.Type {
	case "classes":
		ids, err := h.classService.GetAllIDs()
		if err != nil {
			response.ServerError(c, "查询失败")
			return
		}
		warmed := 0
		for _, id := range ids {
			if _, err := h.classService.GetRoster(id); err == nil {
				warmed++
			}
		}
		response.Success(c, gin.H{"message": fmt.Sprintf("已预热%d个班级名单", warmed)})

	case "attendance":
		if req.ClassID == nil || req.From == "" || req.To == "" {
			response.BadRequest(c, "预热考勤缓存需要class_id、from和to")
			return
		}
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			response.BadRequest(c, "开始日期格式错误")
			return
		}
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			response.BadRequest(c, "结束日期格式错误")
			return
		}

		roster, err := h.classService.GetRoster(*req.ClassID)
		if err != nil {
			response.NotFound(c, "班级不存在")
			return
		}
		warmed := 0
		for _, member := range roster.Students {
			if _, err := h.attendanceService.GetStudentSummary(member.StudentID, from, to); err == nil {
				warmed++
			}
		}
		response.Success(c, gin.H{"message": fmt.Sprintf("已预热%d名学生的考勤汇总", warmed)})
	}
}

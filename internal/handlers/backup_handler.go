package handlers

import (
	"schoolhub/internal/backup"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	manager *backup.Manager
}

func NewBackupHandler(manager *backup.Manager) *BackupHandler {
	return &BackupHandler{
		manager: manager,
	}
}

// TriggerRequest 手动触发备份请求
type TriggerRequest struct {
	Type string `json:"type" binding:"required,oneof=full incremental"`
}

// RestoreRequest 恢复请求
type RestoreRequest struct {
	BackupID string `json:"backup_id" binding:"required"`
	Scope    string `json:"scope" binding:"required,oneof=database files full"`
}

// Trigger 手动触发备份
func (h *BackupHandler) Trigger(c *gin.Context) {
	var req TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var records []backup.Record
	if req.Type == "incremental" {
		records = h.manager.CreateIncrementalBackup()
	} else {
		records = h.manager.CreateFullBackup()
	}

	response.Success(c, records)
}

// List 获取备份目录账本（按时间倒序）
func (h *BackupHandler) List(c *gin.Context) {
	records, err := h.manager.ListBackups()
	if err != nil {
		response.ServerError(c, "读取备份账本失败")
		return
	}

	response.Success(c, records)
}

// Restore 从备份恢复
func (h *BackupHandler) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if !h.manager.RestoreFromBackup(req.BackupID, req.Scope) {
		response.BadRequest(c, "恢复失败，请检查备份ID和日志")
		return
	}

	response.Success(c, gin.H{
		"message":   "恢复成功",
		"backup_id": req.BackupID,
		"scope":     req.Scope,
	})
}

// Cleanup 手动触发过期备份清理
func (h *BackupHandler) Cleanup(c *gin.Context) {
	h.manager.CleanupOldBackups()
	response.Success(c, gin.H{"message": "清理完成"})
}

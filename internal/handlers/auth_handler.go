package handlers

import (
	"strings"
	"time"

	"schoolhub/internal/services"
	"schoolhub/pkg/jwt"
	"schoolhub/pkg/rbac"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *services.UserService
	jwtManager  *jwt.JWTManager
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"`
	User      UserInfo `json:"user"`
}

type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	// 生成Token
	token, err := h.jwtManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	// 更新最后登录时间，失败不影响登录流程
	_ = h.userService.UpdateLastLogin(user.ID)

	expiresAt := time.Now().Add(h.jwtManager.GetTokenDuration()).Unix()

	resp := LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Name:     user.Name,
			Role:     user.Role,
		},
	}

	response.Success(c, resp)
}

// Logout 用户登出
// Token在过期时间后自动失效，前端删除本地存储的token即可
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, gin.H{
		"message":     "登出成功",
		"logout_time": time.Now(),
	})
}

// RefreshToken 刷新Token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c, "缺少认证头")
		return
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		response.Unauthorized(c, "认证头格式错误")
		return
	}

	tokenString := authHeader[7:] // 去掉 "Bearer "

	newToken, err := h.jwtManager.RefreshToken(tokenString)
	if err != nil {
		response.Unauthorized(c, "Token无效")
		return
	}

	expiresAt := time.Now().Add(h.jwtManager.GetTokenDuration()).Unix()

	response.Success(c, gin.H{
		"token":      newToken,
		"expires_at": expiresAt,
	})
}

// Me 获取当前登录用户信息及其权限列表
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "请先登录")
		return
	}

	user, err := h.userService.GetByID(userID.(uint))
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	permissions, err := h.userService.GetUserPermissions(user.ID)
	if err != nil {
		response.ServerError(c, "获取权限失败")
		return
	}

	response.Success(c, gin.H{
		"user": UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Name:     user.Name,
			Role:     user.Role,
		},
		"permissions": permissions,
		"resources":   rbac.AccessibleResources(rbac.Role(user.Role)),
	})
}

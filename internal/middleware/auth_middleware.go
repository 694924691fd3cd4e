package middleware

import (
	"strings"

	"schoolhub/internal/models"
	"schoolhub/internal/services"
	"schoolhub/pkg/jwt"
	"schoolhub/pkg/rbac"
	"schoolhub/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 权限中间件
type AuthMiddleware struct {
	userService *services.UserService
	jwtManager  *jwt.JWTManager
}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{
		userService: services.NewUserService(),
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

// RequireLogin 要求登录
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从Authorization头获取JWT token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		// 检查Bearer格式
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "认证头格式错误")
			c.Abort()
			return
		}

		// 提取token
		tokenString := authHeader[7:] // 去掉 "Bearer "

		// 验证token
		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Token无效或已过期")
			c.Abort()
			return
		}

		// 获取用户信息
		user, err := m.userService.GetByID(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			c.Abort()
			return
		}

		// 检查用户状态
		if user.Status != models.UserStatusActive {
			response.Unauthorized(c, "用户已被禁用")
			c.Abort()
			return
		}

		// 将用户信息保存到上下文
		c.Set("user", user)
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", user.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequirePermission 要求特定权限
func (m *AuthMiddleware) RequirePermission(permission rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 先检查登录
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !rbac.HasPermission(rbac.Role(role.(string)), permission) {
			response.Forbidden(c, "权限不足：需要 "+string(permission)+" 权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAnyPermission 要求持有任意一个指定权限
func (m *AuthMiddleware) RequireAnyPermission(permissions ...rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !rbac.HasAnyPermission(rbac.Role(role.(string)), permissions) {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireResource 要求能访问指定资源
func (m *AuthMiddleware) RequireResource(resource rbac.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !rbac.CanAccessResource(rbac.Role(role.(string)), resource) {
			response.Forbidden(c, "权限不足：无权访问 "+string(resource))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole 要求特定角色
func (m *AuthMiddleware) RequireRole(role rbac.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentRole, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if rbac.Role(currentRole.(string)) != role {
			response.Forbidden(c, "权限不足：需要 "+string(role)+" 角色")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin 要求管理员角色
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(rbac.RoleAdmin)
}

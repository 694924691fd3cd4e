package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"schoolhub/internal/database"
	"schoolhub/internal/services"
	"schoolhub/pkg/config"
	"schoolhub/pkg/jwt"
	"schoolhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketHandler WebSocket处理器，把用户的实时消息频道转发给客户端
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	redisClient *redis.Client
	log         *logrus.Logger
	jwtManager  *jwt.JWTManager
	userService *services.UserService
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(userService *services.UserService) *WebSocketHandler {
	// 获取CORS配置
	cfg := config.GetConfig()
	allowedOrigins := cfg.CORS.AllowOrigins

	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// 如果允许所有源
				for _, allowed := range allowedOrigins {
					if allowed == "*" {
						return true
					}
				}

				// 如果Origin为空（同源请求），允许
				if origin == "" {
					return true
				}

				for _, allowed := range allowedOrigins {
					if matchOrigin(origin, allowed) {
						return true
					}
				}

				logger.GetLogger().Warnf("WebSocket连接被拒绝，非法Origin: %s", origin)
				return false
			},
			ReadBufferSize:  1024 * 32,
			WriteBufferSize: 1024 * 32,
		},
		redisClient: database.GetCacheManager().GetClient(),
		log:         logger.GetLogger(),
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
		userService: userService,
	}
}

// Notifications 用户实时消息的WebSocket连接
func (h *WebSocketHandler) Notifications(c *gin.Context) {
	// 从查询参数获取token（WebSocket不支持自定义header）
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少认证令牌"})
		return
	}

	// 验证token
	claims, err := h.jwtManager.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的令牌"})
		return
	}

	if _, err := h.userService.GetByID(claims.UserID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "用户不存在"})
		return
	}

	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "实时消息服务不可用"})
		return
	}

	// 升级为WebSocket连接
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.log.WithFields(logrus.Fields{
		"user_id":     claims.UserID,
		"remote_addr": c.ClientIP(),
	}).Info("WebSocket connection established")

	h.handleNotifyConnection(conn, claims.UserID)
}

// handleNotifyConnection 订阅用户频道并转发消息
func (h *WebSocketHandler) handleNotifyConnection(conn *websocket.Conn, userID uint) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 订阅Redis channel
	channel := services.NotifyChannel(userID)
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	// 等待订阅成功
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.WithError(err).Error("Failed to subscribe to Redis channel")
		return
	}

	// 启动goroutine处理客户端消息（主要是ping/pong）
	go h.readPump(conn, cancel)

	ch := pubsub.Channel()

	const writeTimeout = 10 * time.Second

	// 心跳ticker - 每60秒发送一次ping
	pingTicker := time.NewTicker(60 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.WithError(err).Error("Failed to send ping")
				return
			}

		case msg := <-ch:
			if msg == nil {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))

			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.log.WithError(err).Error("Failed to parse notification message")
				continue
			}

			if err := conn.WriteJSON(payload); err != nil {
				h.log.WithError(err).Error("Failed to send message to client")
				return
			}
		}
	}
}

// readPump 处理客户端消息
func (h *WebSocketHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	pongWait := 300 * time.Second
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// 读取消息（主要是处理ping/pong）
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Error("WebSocket unexpected close")
			}
			break
		}
	}
}

// matchOrigin 检查origin是否匹配allowed模式
// 支持精确匹配和通配符匹配（如 *.example.com）
func matchOrigin(origin, allowed string) bool {
	if origin == allowed {
		return true
	}

	if strings.HasPrefix(allowed, "*.") {
		domain := allowed[2:]

		originHost := origin
		if idx := strings.Index(origin, "://"); idx != -1 {
			originHost = origin[idx+3:]
		}
		if idx := strings.Index(originHost, ":"); idx != -1 {
			originHost = originHost[:idx]
		}

		if originHost == domain {
			return true
		}
		if strings.HasSuffix(originHost, "."+domain) {
			return true
		}
	}

	return false
}

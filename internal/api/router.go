package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wfunc/slot-machine/internal/config"
	"github.com/wfunc/slot-machine/internal/errors"
	"github.com/wfunc/slot-machine/internal/game"
	"github.com/wfunc/slot-machine/internal/middleware"
	ws "github.com/wfunc/slot-machine/internal/websocket"
)

// Router API路由器
type Router struct {
	engine      *gin.Engine
	machine     *game.Machine
	hub         *ws.Hub
	slotHandler *SlotHandler
	wsHandler   *WebSocketHandler
	wsPath      string
	log         *zap.Logger
	startTime   time.Time
}

// NewRouter 创建路由器，hub为nil时不注册WebSocket路由
func NewRouter(cfg *config.Config, machine *game.Machine, hub *ws.Hub, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.Logger(log.Named("http")))

	router := &Router{
		engine:      engine,
		machine:     machine,
		hub:         hub,
		slotHandler: NewSlotHandler(machine, log.Named("slot")),
		log:         log,
		startTime:   time.Now(),
	}
	if hub != nil && cfg.WebSocket.Enabled {
		router.wsHandler = NewWebSocketHandler(hub, cfg.WebSocket, log.Named("websocket"))
		router.wsPath = cfg.WebSocket.Path
	}

	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.healthCheck)

	v1 := r.engine.Group("/api/v1")
	{
		slot := v1.Group("/slot")
		{
			slot.GET("/config", r.slotHandler.GetConfig)
			slot.GET("/state", r.slotHandler.GetState)
			slot.GET("/rtp", r.slotHandler.GetRTP)
			slot.POST("/deposit", r.slotHandler.Deposit)
			slot.POST("/spin", r.slotHandler.Spin)
		}
	}

	if r.wsHandler != nil {
		r.engine.GET(r.wsPath, r.wsHandler.Serve)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		fail(c, errors.Newf(errors.ErrNotFound, "接口不存在: %s %s", c.Request.Method, c.Request.URL.Path))
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
		"state":   r.machine.Snapshot().State,
		"uptime":  time.Since(r.startTime).String(),
	}
	if r.hub != nil {
		resp["viewers"] = r.hub.GetOnlineCount()
	}
	c.JSON(http.StatusOK, resp)
}

// Handler 返回HTTP处理器
func (r *Router) Handler() http.Handler {
	return r.engine
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// success 成功响应
func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// fail 错误响应，非AppError按未知错误处理
func fail(c *gin.Context, err error) {
	appErr := errors.Wrap(err, errors.ErrUnknown)
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus(), errors.NewErrorResponse(appErr, middleware.GetRequestID(c)))
}

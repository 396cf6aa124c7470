package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/wfunc/slot-machine/internal/api"
	"github.com/wfunc/slot-machine/internal/config"
	"github.com/wfunc/slot-machine/internal/errors"
	"github.com/wfunc/slot-machine/internal/game"
	"github.com/wfunc/slot-machine/internal/logger"
	ws "github.com/wfunc/slot-machine/internal/websocket"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Server 服务器实例
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	machine *game.Machine
	hub     *ws.Hub
	http    *http.Server
	errCh   chan error

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		showVersion = flag.Bool("version", false, "显示版本信息")
	)
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Cleanup()

	server, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("创建服务器失败", zap.Error(err))
	}

	if err := server.Start(); err != nil {
		logger.Fatal("服务器启动失败", zap.Error(err))
	}

	server.WaitForShutdown()

	if err := server.Shutdown(); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("服务器已安全关闭")
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	log := logger.GetLogger()

	machine, err := game.NewMachineFromConfig(cfg.Game, logger.WithModule("game"))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValidate, "创建老虎机失败")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		logger:  log,
		machine: machine,
		ctx:     ctx,
		cancel:  cancel,
	}

	if cfg.WebSocket.Enabled {
		s.hub = ws.NewHub(logger.WithModule("websocket"))
		s.hub.SetStateProvider(func() interface{} { return machine.Snapshot() })
	}
	machine.OnEvent(s.publish)

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(cfg, machine, s.hub, log)

	s.http = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s, nil
}

// publish 记录机器事件并推送给所有展示端
func (s *Server) publish(e game.Event) {
	if round, ok := e.Data.(*game.Round); ok && e.Type == game.EventTypeSpinResult {
		logger.LogGameEvent(string(e.Type), round.Result.RoundID, round.Result.ToJSON())
	}

	if s.hub == nil {
		return
	}
	logger.LogWebSocketMessage("send", string(e.Type), e.Data)
	if err := s.hub.BroadcastEvent(string(e.Type), e.Data); err != nil {
		logger.LogError(err, "广播事件失败", zap.String("type", string(e.Type)))
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("正在启动老虎机服务器...",
		zap.String("version", Version),
		zap.String("mode", s.cfg.Server.Mode),
	)

	if s.hub != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.hub.Run(s.ctx)
		}()
	}

	s.errCh = make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.errCh <- err
		}
	}()

	// 监听配置变化
	config.Watch(func(newCfg *config.Config) {
		s.logger.Info("配置已更新，正在重新加载...")
		s.reloadConfig(newCfg)
	})

	s.logger.Info("服务器启动成功",
		zap.String("http", s.cfg.Server.Addr()),
		zap.Bool("websocket", s.hub != nil),
	)
	return nil
}

// WaitForShutdown 等待关闭信号
func (s *Server) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,  // Ctrl+C
		syscall.SIGTERM, // kill命令
	)

	select {
	case sig := <-sigCh:
		s.logger.Info("收到退出信号", zap.String("signal", sig.String()))
	case err := <-s.errCh:
		s.logger.Error("HTTP服务异常退出", zap.Error(err))
	}
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	s.logger.Info("正在优雅关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP服务关闭失败", zap.Error(err))
	}

	// 取消主上下文，停止Hub
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("所有服务已正常关闭")
	case <-shutdownCtx.Done():
		s.logger.Warn("关闭超时，强制退出")
		return errors.New(errors.ErrTimeout, "关闭超时")
	}

	return nil
}

// reloadConfig 应用新的游戏和日志配置
func (s *Server) reloadConfig(newCfg *config.Config) {
	if err := s.machine.Reload(newCfg.Game.SymbolTable(), game.LimitsFromConfig(newCfg.Game)); err != nil {
		s.logger.Error("游戏配置重载失败", zap.Error(err))
		return
	}
	logger.SetLevel(newCfg.Log.Level)

	logger.Infof("配置重新加载完成: %d个符号, 日志级别 %s", len(newCfg.Game.Symbols), newCfg.Log.Level)
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("老虎机服务器\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

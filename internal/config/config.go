package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/wfunc/slot-machine/internal/errors"
	"github.com/wfunc/slot-machine/internal/game/slot"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Game      GameConfig      `mapstructure:"game"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WebSocketConfig WebSocket配置
type WebSocketConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Path              string        `mapstructure:"path"`
	ReadBufferSize    int           `mapstructure:"read_buffer_size"`
	WriteBufferSize   int           `mapstructure:"write_buffer_size"`
	MaxMessageSize    int64         `mapstructure:"max_message_size"`
	PingInterval      time.Duration `mapstructure:"ping_interval"`
	PongTimeout       time.Duration `mapstructure:"pong_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	EnableCompression bool          `mapstructure:"enable_compression"`
}

// GameConfig 游戏配置
type GameConfig struct {
	Rows       int            `mapstructure:"rows"`
	Cols       int            `mapstructure:"cols"`
	MaxLines   int            `mapstructure:"max_lines"`
	MinBet     int64          `mapstructure:"min_bet"`
	MaxBet     int64          `mapstructure:"max_bet"`
	MaxDeposit int64          `mapstructure:"max_deposit"` // 单次充值上限
	Seed       int64          `mapstructure:"seed"`        // 0 表示使用加密随机源
	Symbols    []SymbolConfig `mapstructure:"symbols"`
}

// SymbolConfig 符号配置
type SymbolConfig struct {
	Name  string `mapstructure:"name"`
	Count int    `mapstructure:"count"`
	Value int64  `mapstructure:"value"`
}

// SymbolTable 转换为符号表，保持配置中的顺序
func (g GameConfig) SymbolTable() slot.SymbolTable {
	table := make(slot.SymbolTable, 0, len(g.Symbols))
	for _, s := range g.Symbols {
		table = append(table, slot.SymbolSpec{
			Symbol: slot.Symbol(s.Name),
			Count:  s.Count,
			Value:  s.Value,
		})
	}
	return table
}

// Validate 校验游戏配置
func (g GameConfig) Validate() error {
	if g.Rows != slot.Rows || g.Cols != slot.Cols {
		return fmt.Errorf("仅支持%dx%d盘面, 当前为%dx%d", slot.Rows, slot.Cols, g.Rows, g.Cols)
	}
	if g.MaxLines < 1 || g.MaxLines > g.Rows {
		return fmt.Errorf("max_lines必须在1到%d之间: %d", g.Rows, g.MaxLines)
	}
	if g.MinBet < 1 || g.MaxBet < g.MinBet {
		return fmt.Errorf("投注范围无效: [%d, %d]", g.MinBet, g.MaxBet)
	}
	if g.MaxDeposit < g.MinBet {
		return fmt.Errorf("max_deposit不能小于min_bet: %d", g.MaxDeposit)
	}

	table := g.SymbolTable()
	if err := table.Validate(); err != nil {
		return err
	}
	if table.PoolSize() < g.Rows {
		return fmt.Errorf("%w: 符号池大小%d小于行数%d", slot.ErrPoolExhausted, table.PoolSize(), g.Rows)
	}
	return nil
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string            `mapstructure:"level"`
	Format  string            `mapstructure:"format"`
	Output  string            `mapstructure:"output"`
	File    LogFileConfig     `mapstructure:"file"`
	Modules map[string]string `mapstructure:"modules"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
	v    *viper.Viper
)

// Init 初始化全局配置
func Init(configPath string) error {
	var err error
	once.Do(func() {
		var c *Config
		v, c, err = load(configPath)
		if err != nil {
			return
		}
		mu.Lock()
		cfg = c
		mu.Unlock()
	})

	return err
}

// Load 加载配置但不修改全局实例
func Load(configPath string) (*Config, error) {
	_, c, err := load(configPath)
	return c, err
}

func load(configPath string) (*viper.Viper, *Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SLOT_MACHINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件不存在时使用默认配置
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, errors.Wrapf(err, errors.ErrConfigLoad, "读取配置失败: %s", v.ConfigFileUsed())
		}
	}

	c, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return v, c, nil
}

func decode(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "解析配置失败")
	}
	if err := c.Game.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValidate, "游戏配置无效")
	}
	return c, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 服务器
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// WebSocket
	v.SetDefault("websocket.enabled", true)
	v.SetDefault("websocket.path", "/ws")
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.max_message_size", 8192)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.enable_compression", false)

	// 游戏
	v.SetDefault("game.rows", slot.Rows)
	v.SetDefault("game.cols", slot.Cols)
	v.SetDefault("game.max_lines", slot.MaxLines)
	v.SetDefault("game.min_bet", slot.MinBet)
	v.SetDefault("game.max_bet", slot.MaxBet)
	v.SetDefault("game.max_deposit", slot.MaxDeposit)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.symbols", defaultSymbols())

	// 日志
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "slot-machine.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.compress", true)
}

func defaultSymbols() []map[string]interface{} {
	table := slot.DefaultSymbolTable()
	symbols := make([]map[string]interface{}, 0, len(table))
	for _, s := range table {
		symbols = append(symbols, map[string]interface{}{
			"name":  string(s.Symbol),
			"count": s.Count,
			"value": s.Value,
		})
	}
	return symbols
}

// Get 获取配置实例
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Watch 监听配置文件变化，新配置校验失败时保留旧配置
func Watch(callback func(*Config)) {
	if v == nil {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		newCfg, err := decode(v)
		if err != nil {
			fmt.Printf("配置重载失败: %v\n", err)
			return
		}

		mu.Lock()
		cfg = newCfg
		mu.Unlock()

		if callback != nil {
			callback(newCfg)
		}

		fmt.Printf("配置已重新加载: %s\n", e.Name)
	})
	v.WatchConfig()
}

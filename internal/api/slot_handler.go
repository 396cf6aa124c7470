package api

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wfunc/slot-machine/internal/errors"
	"github.com/wfunc/slot-machine/internal/game"
	"github.com/wfunc/slot-machine/internal/game/slot"
)

// 单次请求的模拟次数上限
const maxSimulationSpins = 100_000

// SlotHandler 老虎机处理器
type SlotHandler struct {
	machine *game.Machine
	logger  *zap.Logger
}

// NewSlotHandler 创建老虎机处理器
func NewSlotHandler(machine *game.Machine, logger *zap.Logger) *SlotHandler {
	return &SlotHandler{
		machine: machine,
		logger:  logger,
	}
}

// ConfigResponse 游戏配置响应
type ConfigResponse struct {
	Rows               int              `json:"rows"`
	Cols               int              `json:"cols"`
	Limits             game.Limits      `json:"limits"`
	Symbols            slot.SymbolTable `json:"symbols"`
	PoolSize           int              `json:"pool_size"`
	TheoreticalRTP     decimal.Decimal  `json:"theoretical_rtp"`
	LineHitProbability decimal.Decimal  `json:"line_hit_probability"`
}

// DepositResponse 充值响应
type DepositResponse struct {
	Balance int64          `json:"balance"`
	State   game.GameState `json:"state"`
}

// SpinResponse 转动响应
type SpinResponse struct {
	*game.Round
	Display string `json:"display"` // 按行排列的盘面文本
}

// RTPResponse 返还率响应
type RTPResponse struct {
	TheoreticalRTP     decimal.Decimal        `json:"theoretical_rtp"`
	LineHitProbability decimal.Decimal        `json:"line_hit_probability"`
	Simulation         *slot.SimulationResult `json:"simulation,omitempty"`
}

// GetConfig 获取游戏配置
func (h *SlotHandler) GetConfig(c *gin.Context) {
	table := h.machine.Table()
	snap := h.machine.Snapshot()

	success(c, ConfigResponse{
		Rows:               slot.Rows,
		Cols:               slot.Cols,
		Limits:             snap.Limits,
		Symbols:            table,
		PoolSize:           table.PoolSize(),
		TheoreticalRTP:     slot.TheoreticalRTP(table, slot.Cols),
		LineHitProbability: slot.LineHitProbability(table, slot.Cols),
	})
}

// GetState 获取机器状态
func (h *SlotHandler) GetState(c *gin.Context) {
	success(c, h.machine.Snapshot())
}

// Deposit 充值
func (h *SlotHandler) Deposit(c *gin.Context) {
	var req game.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.Wrap(err, errors.ErrInvalidParam, "请求体格式错误"))
		return
	}

	balance, err := h.machine.Deposit(c.Request.Context(), req.Amount)
	if err != nil {
		fail(c, err)
		return
	}

	success(c, DepositResponse{Balance: balance, State: h.machine.Snapshot().State})
}

// Spin 下注并转动
func (h *SlotHandler) Spin(c *gin.Context) {
	var req game.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.Wrap(err, errors.ErrInvalidParam, "请求体格式错误"))
		return
	}

	round, err := h.machine.Spin(c.Request.Context(), req.Lines, req.Bet)
	if err != nil {
		fail(c, err)
		return
	}

	success(c, SpinResponse{Round: round, Display: slot.FormatRows(round.Result.Grid)})
}

// GetRTP 返回理论返还率，spins>0时附带蒙特卡洛模拟结果
func (h *SlotHandler) GetRTP(c *gin.Context) {
	table := h.machine.Table()
	resp := RTPResponse{
		TheoreticalRTP:     slot.TheoreticalRTP(table, slot.Cols),
		LineHitProbability: slot.LineHitProbability(table, slot.Cols),
	}

	spins, err := queryInt(c, "spins", 0)
	if err != nil {
		fail(c, err)
		return
	}
	if spins < 0 || spins > maxSimulationSpins {
		fail(c, errors.Newf(errors.ErrInvalidParam, "spins必须在0到%d之间", maxSimulationSpins))
		return
	}
	if spins == 0 {
		success(c, resp)
		return
	}

	limits := h.machine.Snapshot().Limits
	lines, err := queryInt(c, "lines", limits.MaxLines)
	if err != nil {
		fail(c, err)
		return
	}
	if lines < 1 || lines > limits.MaxLines {
		fail(c, errors.Newf(errors.ErrInvalidLines, "线数必须在1到%d之间: %d", limits.MaxLines, lines))
		return
	}
	bet, err := queryInt(c, "bet", int(limits.MinBet))
	if err != nil {
		fail(c, err)
		return
	}
	if int64(bet) < limits.MinBet || int64(bet) > limits.MaxBet {
		fail(c, errors.Newf(errors.ErrInvalidBet, "每线投注必须在%d到%d之间: %d", limits.MinBet, limits.MaxBet, bet))
		return
	}
	seed, err := queryInt(c, "seed", 0)
	if err != nil {
		fail(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := slot.Simulate(ctx, slot.NewRandomGenerator(int64(seed)), table, spins, lines, int64(bet))
	if err != nil {
		fail(c, simulateError(err))
		return
	}

	h.logger.Info("RTP模拟完成",
		zap.Int("spins", spins),
		zap.Int("lines", lines),
		zap.Float64("rtp", result.RTP))

	resp.Simulation = result
	success(c, resp)
}

func simulateError(err error) error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(err, errors.ErrTimeout)
	case stderrors.Is(err, context.Canceled):
		return errors.Wrap(err, errors.ErrCanceled)
	case stderrors.Is(err, slot.ErrAmountOverflow):
		return errors.Wrap(err, errors.ErrInvalidBet)
	default:
		return errors.Wrap(err, errors.ErrPoolExhausted)
	}
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Newf(errors.ErrInvalidParam, "参数%s不是整数: %s", key, raw)
	}
	return v, nil
}

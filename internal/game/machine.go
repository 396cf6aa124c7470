package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wfunc/slot-machine/internal/config"
	"github.com/wfunc/slot-machine/internal/errors"
	"github.com/wfunc/slot-machine/internal/game/slot"
)

// Options 机器构造参数
type Options struct {
	Table  slot.SymbolTable
	Limits Limits
	RNG    slot.RandomGenerator
	Logger *zap.Logger
}

// Machine 单台老虎机：余额、下注校验、转动和结算
type Machine struct {
	mu       sync.Mutex
	table    slot.SymbolTable
	values   map[slot.Symbol]int64
	limits   Limits
	rng      slot.RandomGenerator
	sm       *StateMachine
	logger   *zap.Logger
	listener func(Event)

	balance   int64
	spinCount int
	totalBet  int64
	totalWin  int64
	lastRound *Round
}

// NewMachine 创建老虎机
func NewMachine(opts Options) (*Machine, error) {
	if opts.Table == nil {
		opts.Table = slot.DefaultSymbolTable()
	}
	if opts.Limits == (Limits{}) {
		opts.Limits = DefaultLimits()
	}
	opts.Limits = opts.Limits.withDefaults()
	if opts.RNG == nil {
		opts.RNG = slot.NewCryptoRandomGenerator()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	if err := validateSetup(opts.Table, opts.Limits); err != nil {
		return nil, err
	}

	m := &Machine{
		table:  opts.Table.Clone(),
		values: opts.Table.Values(),
		limits: opts.Limits,
		rng:    opts.RNG,
		sm:     NewStateMachine(opts.Logger),
		logger: opts.Logger,
	}
	return m, nil
}

// NewMachineFromConfig 根据游戏配置创建老虎机
func NewMachineFromConfig(cfg config.GameConfig, logger *zap.Logger) (*Machine, error) {
	return NewMachine(Options{
		Table:  cfg.SymbolTable(),
		Limits: LimitsFromConfig(cfg),
		RNG:    slot.NewRandomGenerator(cfg.Seed),
		Logger: logger,
	})
}

// LimitsFromConfig 从游戏配置提取下注限制
func LimitsFromConfig(cfg config.GameConfig) Limits {
	return Limits{MaxLines: cfg.MaxLines, MinBet: cfg.MinBet, MaxBet: cfg.MaxBet, MaxDeposit: cfg.MaxDeposit}
}

func validateSetup(table slot.SymbolTable, limits Limits) error {
	if err := table.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValidate)
	}
	if table.PoolSize() < slot.Rows {
		return errors.Newf(errors.ErrPoolExhausted, "符号池大小%d小于行数%d", table.PoolSize(), slot.Rows)
	}
	if limits.MaxLines < 1 || limits.MaxLines > slot.Rows {
		return errors.Newf(errors.ErrConfigValidate, "最大线数必须在1到%d之间", slot.Rows)
	}
	if limits.MinBet < 1 || limits.MaxBet < limits.MinBet {
		return errors.Newf(errors.ErrConfigValidate, "投注范围无效: [%d, %d]", limits.MinBet, limits.MaxBet)
	}
	if limits.MaxDeposit < limits.MinBet {
		return errors.Newf(errors.ErrConfigValidate, "充值上限%d小于最小投注%d", limits.MaxDeposit, limits.MinBet)
	}
	return nil
}

// OnEvent 注册事件监听，事件在机器锁释放后按顺序投递
func (m *Machine) OnEvent(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = fn
}

// Deposit 充值，仅在待充值状态下可用，金额直接作为新余额，不能超过MaxDeposit
func (m *Machine) Deposit(ctx context.Context, amount int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(err, errors.ErrCanceled)
	}
	if amount <= 0 {
		return 0, errors.Newf(errors.ErrInvalidDeposit, "充值金额必须大于0: %d", amount)
	}

	m.mu.Lock()
	if state := m.sm.GetState(); state != StateIdle {
		m.mu.Unlock()
		return 0, errors.Newf(errors.ErrAlreadyFunded, "当前状态: %s", state)
	}
	if amount > m.limits.MaxDeposit {
		m.mu.Unlock()
		return 0, errors.Newf(errors.ErrInvalidDeposit, "充值金额不能超过%d: %d", m.limits.MaxDeposit, amount)
	}
	if err := m.sm.Trigger(ctx, EventDeposit); err != nil {
		m.mu.Unlock()
		return 0, errors.Wrap(err, errors.ErrGameStateError)
	}
	m.balance = amount
	listener := m.listener
	m.mu.Unlock()

	m.logger.Info("充值成功", zap.Int64("balance", amount))
	emit(listener, EventTypeBalanceUpdate, BalanceUpdate{Balance: amount, State: StateReady, Reason: "deposit"})

	return amount, nil
}

// Spin 校验下注后转动一次并结算
func (m *Machine) Spin(ctx context.Context, lines int, betPerLine int64) (*Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCanceled)
	}

	m.mu.Lock()
	round, err := m.spinLocked(ctx, lines, betPerLine)
	listener := m.listener
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	emit(listener, EventTypeSpinResult, round)
	state := StateReady
	if round.GameOver {
		state = StateIdle
	}
	emit(listener, EventTypeBalanceUpdate, BalanceUpdate{Balance: round.Balance, State: state, Reason: "spin"})
	if round.GameOver {
		emit(listener, EventTypeGameOver, round)
	}

	return round, nil
}

func (m *Machine) spinLocked(ctx context.Context, lines int, betPerLine int64) (*Round, error) {
	switch state := m.sm.GetState(); state {
	case StateReady:
	case StateIdle:
		return nil, errors.New(errors.ErrAwaitingDeposit)
	default:
		return nil, errors.Newf(errors.ErrGameStateError, "当前状态: %s", state)
	}

	if lines < 1 || lines > m.limits.MaxLines {
		return nil, errors.Newf(errors.ErrInvalidLines, "线数必须在1到%d之间: %d", m.limits.MaxLines, lines)
	}
	if betPerLine < m.limits.MinBet || betPerLine > m.limits.MaxBet {
		return nil, errors.Newf(errors.ErrInvalidBet, "每线投注必须在%d到%d之间: %d", m.limits.MinBet, m.limits.MaxBet, betPerLine)
	}

	totalBet, err := slot.MulAmount(int64(lines), betPerLine)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidBet)
	}
	if totalBet > m.balance {
		return nil, errors.Newf(errors.ErrInsufficientBalance, "余额%d不足以支付总下注%d", m.balance, totalBet)
	}

	if err := m.sm.Trigger(ctx, EventStartSpin); err != nil {
		return nil, errors.Wrap(err, errors.ErrGameStateError)
	}
	balanceBefore := m.balance
	m.balance -= totalBet

	grid, err := slot.GenerateGrid(m.rng, slot.Rows, slot.Cols, m.table)
	if err != nil {
		return nil, m.rollback(ctx, balanceBefore, errors.Wrap(err, errors.ErrPoolExhausted))
	}

	payout, winning := slot.Evaluate(grid, lines, betPerLine, m.values)

	if err := m.sm.Trigger(ctx, EventStopSpin); err != nil {
		return nil, m.rollback(ctx, balanceBefore, err)
	}
	balance, err := slot.AddAmount(m.balance, payout)
	if err != nil {
		return nil, m.rollback(ctx, balanceBefore, errors.Wrap(err, errors.ErrBalanceOverflow))
	}
	sumBet, err := slot.AddAmount(m.totalBet, totalBet)
	if err != nil {
		return nil, m.rollback(ctx, balanceBefore, errors.Wrap(err, errors.ErrBalanceOverflow))
	}
	sumWin, err := slot.AddAmount(m.totalWin, payout)
	if err != nil {
		return nil, m.rollback(ctx, balanceBefore, errors.Wrap(err, errors.ErrBalanceOverflow))
	}

	next := EventContinue
	if balance <= 0 {
		next = EventBust
	}
	if err := m.sm.Trigger(ctx, next); err != nil {
		return nil, m.rollback(ctx, balanceBefore, err)
	}

	m.balance = balance
	m.spinCount++
	m.totalBet = sumBet
	m.totalWin = sumWin

	round := &Round{
		Result: &slot.SpinResult{
			RoundID:      uuid.New().String(),
			Lines:        lines,
			BetPerLine:   betPerLine,
			TotalBet:     totalBet,
			Grid:         grid,
			Payout:       payout,
			WinningLines: winning,
			WinPositions: slot.WinPositions(grid, winning),
			Timestamp:    time.Now(),
		},
		BalanceBefore: balanceBefore,
		Balance:       balance,
		Message:       slot.WinMessage(payout, winning),
		GameOver:      next == EventBust,
	}
	m.lastRound = round

	m.logger.Info("转动完成",
		zap.String("round_id", round.Result.RoundID),
		zap.Int("lines", lines),
		zap.Int64("bet_per_line", betPerLine),
		zap.String("grid", slot.FormatGrid(grid)),
		zap.Int64("payout", payout),
		zap.Ints("winning_lines", winning),
		zap.Int64("balance", m.balance),
		zap.Bool("game_over", round.GameOver))

	return round, nil
}

// rollback 退回下注并把状态机恢复到ready，返回原始错误
//
// 上下文已取消时错误码为ErrCanceled，否则非AppError按状态错误处理。
func (m *Machine) rollback(ctx context.Context, balanceBefore int64, cause error) error {
	m.balance = balanceBefore
	if err := m.sm.Trigger(context.Background(), EventAbort); err != nil {
		m.logger.Error("状态回退失败", zap.Error(err))
	}

	code := errors.ErrGameStateError
	if ctx.Err() != nil {
		code = errors.ErrCanceled
	}
	return errors.Wrap(cause, code)
}

// Snapshot 返回当前状态快照
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rtp float64
	if m.totalBet > 0 {
		rtp = float64(m.totalWin) / float64(m.totalBet)
	}

	return Snapshot{
		State:       m.sm.GetState(),
		Balance:     m.balance,
		Limits:      m.limits,
		SpinCount:   m.spinCount,
		TotalBet:    m.totalBet,
		TotalWin:    m.totalWin,
		RTP:         rtp,
		LastRound:   m.lastRound,
		ValidEvents: m.sm.GetValidEvents(),
		UpdatedAt:   m.sm.LastUpdate(),
	}
}

// Table 返回当前符号表副本
func (m *Machine) Table() slot.SymbolTable {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.Clone()
}

// Reload 替换符号表和下注限制，不影响余额和状态
func (m *Machine) Reload(table slot.SymbolTable, limits Limits) error {
	limits = limits.withDefaults()
	if err := validateSetup(table, limits); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.table = table.Clone()
	m.values = table.Values()
	m.limits = limits

	m.logger.Info("配置已更新",
		zap.Int("symbols", len(table)),
		zap.Int("pool_size", table.PoolSize()),
		zap.Int("max_lines", limits.MaxLines),
		zap.Int64("min_bet", limits.MinBet),
		zap.Int64("max_bet", limits.MaxBet),
		zap.Int64("max_deposit", limits.MaxDeposit))
	return nil
}

func emit(listener func(Event), eventType EventType, data interface{}) {
	if listener == nil {
		return
	}
	listener(Event{Type: eventType, Data: data, Timestamp: time.Now()})
}

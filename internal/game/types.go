package game

import (
	"time"

	"github.com/wfunc/slot-machine/internal/game/slot"
)

// Limits 下注限制
type Limits struct {
	MaxLines   int   `json:"max_lines"`   // 最大下注线数
	MinBet     int64 `json:"min_bet"`     // 每线最小下注
	MaxBet     int64 `json:"max_bet"`     // 每线最大下注
	MaxDeposit int64 `json:"max_deposit"` // 单次充值上限，0表示使用默认值
}

// DefaultLimits 默认下注限制
func DefaultLimits() Limits {
	return Limits{
		MaxLines:   slot.MaxLines,
		MinBet:     slot.MinBet,
		MaxBet:     slot.MaxBet,
		MaxDeposit: slot.MaxDeposit,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxDeposit == 0 {
		l.MaxDeposit = slot.MaxDeposit
	}
	return l
}

// Round 一次转动的完整结果
type Round struct {
	Result        *slot.SpinResult `json:"result"`
	BalanceBefore int64            `json:"balance_before"` // 下注前余额
	Balance       int64            `json:"balance"`        // 结算后余额
	Message       string           `json:"message"`        // 中奖提示
	GameOver      bool             `json:"game_over"`      // 余额耗尽
}

// Snapshot 机器状态快照
type Snapshot struct {
	State       GameState `json:"state"`
	Balance     int64     `json:"balance"`
	Limits      Limits    `json:"limits"`
	SpinCount   int       `json:"spin_count"`
	TotalBet    int64     `json:"total_bet"`
	TotalWin    int64     `json:"total_win"`
	RTP         float64   `json:"rtp"`
	LastRound   *Round    `json:"last_round,omitempty"`
	ValidEvents []string  `json:"valid_events"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventType 推送事件类型
type EventType string

const (
	EventTypeSpinResult    EventType = "spin_result"
	EventTypeBalanceUpdate EventType = "balance_update"
	EventTypeGameOver      EventType = "game_over"
)

// Event 机器对外推送的事件
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// BalanceUpdate 余额变更数据
type BalanceUpdate struct {
	Balance int64     `json:"balance"`
	State   GameState `json:"state"`
	Reason  string    `json:"reason"` // deposit / spin
}

// DepositRequest 充值请求
type DepositRequest struct {
	Amount int64 `json:"amount"`
}

// SpinRequest 转动请求
type SpinRequest struct {
	Lines int   `json:"lines"`
	Bet   int64 `json:"bet"`
}

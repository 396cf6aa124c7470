package game

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// GameState 机器状态
type GameState string

const (
	StateIdle       GameState = "idle"       // 待充值
	StateReady      GameState = "ready"      // 已充值，可下注
	StateSpinning   GameState = "spinning"   // 转动中
	StateSettlement GameState = "settlement" // 结算中
)

// 状态机事件
const (
	EventDeposit   = "deposit"    // 充值
	EventStartSpin = "start_spin" // 扣除下注并开始转动
	EventStopSpin  = "stop_spin"  // 转动结束，进入结算
	EventAbort     = "abort"      // 转动或结算失败，退回下注
	EventContinue  = "continue"   // 结算完成，余额充足
	EventBust      = "bust"       // 结算完成，余额耗尽
)

// StateTransition 状态转换定义
type StateTransition struct {
	From   GameState
	Event  string
	To     GameState
	Action func(ctx context.Context, sm *StateMachine) error
}

// StateMachine 机器状态机
type StateMachine struct {
	mu           sync.RWMutex
	currentState GameState
	transitions  map[string][]StateTransition
	logger       *zap.Logger
	lastUpdate   time.Time

	onStateChange func(from, to GameState, event string)
}

// NewStateMachine 创建新的状态机
func NewStateMachine(logger *zap.Logger) *StateMachine {
	if logger == nil {
		logger = zap.NewNop()
	}
	sm := &StateMachine{
		currentState: StateIdle,
		transitions:  make(map[string][]StateTransition),
		logger:       logger,
		lastUpdate:   time.Now(),
	}

	sm.initTransitions()

	return sm
}

// initTransitions 初始化状态转换规则
func (sm *StateMachine) initTransitions() {
	sm.addTransition(StateTransition{From: StateIdle, Event: EventDeposit, To: StateReady})
	sm.addTransition(StateTransition{From: StateReady, Event: EventStartSpin, To: StateSpinning})
	sm.addTransition(StateTransition{
		From:  StateSpinning,
		Event: EventStopSpin,
		To:    StateSettlement,
		Action: func(ctx context.Context, sm *StateMachine) error {
			// 请求已取消时不再结算
			return ctx.Err()
		},
	})

	sm.addTransition(StateTransition{
		From:  StateSpinning,
		Event: EventAbort,
		To:    StateReady,
		Action: func(ctx context.Context, sm *StateMachine) error {
			sm.logger.Warn("转动中止，下注已退回")
			return nil
		},
	})

	sm.addTransition(StateTransition{
		From:  StateSettlement,
		Event: EventAbort,
		To:    StateReady,
		Action: func(ctx context.Context, sm *StateMachine) error {
			sm.logger.Warn("结算中止，下注已退回")
			return nil
		},
	})

	sm.addTransition(StateTransition{From: StateSettlement, Event: EventContinue, To: StateReady})

	sm.addTransition(StateTransition{
		From:  StateSettlement,
		Event: EventBust,
		To:    StateIdle,
		Action: func(ctx context.Context, sm *StateMachine) error {
			sm.logger.Info("余额耗尽，游戏结束")
			return nil
		},
	})
}

// addTransition 添加状态转换
func (sm *StateMachine) addTransition(transition StateTransition) {
	key := sm.transitionKey(transition.From, transition.Event)
	sm.transitions[key] = append(sm.transitions[key], transition)
}

// transitionKey 生成转换键
func (sm *StateMachine) transitionKey(state GameState, event string) string {
	return fmt.Sprintf("%s:%s", state, event)
}

// Trigger 触发事件
func (sm *StateMachine) Trigger(ctx context.Context, event string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	key := sm.transitionKey(sm.currentState, event)
	transitions, exists := sm.transitions[key]
	if !exists || len(transitions) == 0 {
		return fmt.Errorf("无效的状态转换: 状态=%s, 事件=%s", sm.currentState, event)
	}

	transition := transitions[0]
	oldState := sm.currentState

	if transition.Action != nil {
		if err := transition.Action(ctx, sm); err != nil {
			// 转换失败，保持原状态
			return fmt.Errorf("状态转换失败: %w", err)
		}
	}

	sm.currentState = transition.To
	sm.lastUpdate = time.Now()

	if sm.onStateChange != nil {
		sm.onStateChange(oldState, sm.currentState, event)
	}

	sm.logger.Debug("状态转换",
		zap.String("from", string(oldState)),
		zap.String("to", string(sm.currentState)),
		zap.String("event", event))

	return nil
}

// GetState 获取当前状态
func (sm *StateMachine) GetState() GameState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// LastUpdate 最后一次状态变化时间
func (sm *StateMachine) LastUpdate() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastUpdate
}

// OnStateChange 设置状态变更回调，回调在状态机锁内执行
func (sm *StateMachine) OnStateChange(fn func(from, to GameState, event string)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onStateChange = fn
}

// CanTransition 检查是否可以转换
func (sm *StateMachine) CanTransition(event string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	transitions, exists := sm.transitions[sm.transitionKey(sm.currentState, event)]
	return exists && len(transitions) > 0
}

// GetValidEvents 获取当前状态下的有效事件（按名称排序）
func (sm *StateMachine) GetValidEvents() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	events := []string{}
	prefix := string(sm.currentState) + ":"
	for key := range sm.transitions {
		if strings.HasPrefix(key, prefix) {
			events = append(events, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(events)

	return events
}

// Reset 重置为待充值状态
func (sm *StateMachine) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.currentState = StateIdle
	sm.lastUpdate = time.Now()
}

package slot

import (
	"errors"
	"fmt"
)

// 固定的盘面和下注限制
const (
	Rows     = 3   // 行数
	Cols     = 3   // 列数（卷轴数）
	MaxLines = 3   // 最大下注线数
	MinBet   = 1   // 每线最小下注
	MaxBet   = 100 // 每线最大下注

	MaxDeposit = 1_000_000 // 单次充值上限
)

// 默认符号
const (
	SymbolA Symbol = "A"
	SymbolB Symbol = "B"
	SymbolC Symbol = "C"
	SymbolD Symbol = "D"
)

var (
	ErrInvalidSymbolTable = errors.New("无效的符号表")
	ErrInvalidGridSize    = errors.New("无效的盘面尺寸")
	ErrPoolExhausted      = errors.New("卷轴符号池不足")
	ErrInvalidLineCount   = errors.New("无效的下注线数")
	ErrAmountOverflow     = errors.New("金额超出范围")
)

// SymbolSpec 符号配置
type SymbolSpec struct {
	Symbol Symbol `json:"symbol"` // 符号
	Count  int    `json:"count"`  // 每列卷轴池中的数量
	Value  int64  `json:"value"`  // 每单位下注的赔率
}

// SymbolTable 符号表，顺序决定卷轴池的排列
type SymbolTable []SymbolSpec

// DefaultSymbolTable 默认符号表
func DefaultSymbolTable() SymbolTable {
	return SymbolTable{
		{Symbol: SymbolA, Count: 2, Value: 5},
		{Symbol: SymbolB, Count: 4, Value: 4},
		{Symbol: SymbolC, Count: 6, Value: 3},
		{Symbol: SymbolD, Count: 8, Value: 2},
	}
}

// Validate 验证符号表
func (t SymbolTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: 符号表为空", ErrInvalidSymbolTable)
	}
	seen := make(map[Symbol]bool, len(t))
	for _, entry := range t {
		if entry.Symbol == "" {
			return fmt.Errorf("%w: 符号名称为空", ErrInvalidSymbolTable)
		}
		if seen[entry.Symbol] {
			return fmt.Errorf("%w: 符号 %s 重复", ErrInvalidSymbolTable, entry.Symbol)
		}
		if entry.Count <= 0 {
			return fmt.Errorf("%w: 符号 %s 数量必须大于0", ErrInvalidSymbolTable, entry.Symbol)
		}
		if entry.Value < 0 {
			return fmt.Errorf("%w: 符号 %s 赔率不能为负", ErrInvalidSymbolTable, entry.Symbol)
		}
		seen[entry.Symbol] = true
	}
	return nil
}

// PoolSize 每列卷轴池大小
func (t SymbolTable) PoolSize() int {
	total := 0
	for _, entry := range t {
		total += entry.Count
	}
	return total
}

// Counts 符号数量映射
func (t SymbolTable) Counts() map[Symbol]int {
	counts := make(map[Symbol]int, len(t))
	for _, entry := range t {
		counts[entry.Symbol] = entry.Count
	}
	return counts
}

// Values 符号赔率映射
func (t SymbolTable) Values() map[Symbol]int64 {
	values := make(map[Symbol]int64, len(t))
	for _, entry := range t {
		values[entry.Symbol] = entry.Value
	}
	return values
}

// Clone 复制符号表
func (t SymbolTable) Clone() SymbolTable {
	out := make(SymbolTable, len(t))
	copy(out, t)
	return out
}

package slot

import (
	"time"
)

// Symbol 游戏符号
type Symbol string

// Grid 卷轴结果，外层为列（卷轴），内层为行
type Grid [][]Symbol

// Rows 返回行数（以第0列为准）
func (g Grid) Rows() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Row 返回指定行在所有列上的符号
func (g Grid) Row(r int) []Symbol {
	row := make([]Symbol, len(g))
	for c, column := range g {
		row[c] = column[r]
	}
	return row
}

// Position 符号位置
type Position struct {
	Reel int `json:"reel"` // 卷轴索引 (0-based)
	Row  int `json:"row"`  // 行索引 (0-based)
}

// SpinResult 旋转结果
type SpinResult struct {
	RoundID      string     `json:"round_id"`      // 回合ID
	Lines        int        `json:"lines"`         // 下注线数
	BetPerLine   int64      `json:"bet_per_line"`  // 每线下注
	TotalBet     int64      `json:"total_bet"`     // 总下注
	Grid         Grid       `json:"grid"`          // 卷轴结果
	Payout       int64      `json:"payout"`        // 赔付
	WinningLines []int      `json:"winning_lines"` // 中奖线 (1-based)
	WinPositions []Position `json:"win_positions"` // 中奖线覆盖的位置
	Timestamp    time.Time  `json:"timestamp"`     // 时间戳
}

// ToJSON 转换为JSON map
func (s *SpinResult) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"round_id":      s.RoundID,
		"lines":         s.Lines,
		"bet_per_line":  s.BetPerLine,
		"total_bet":     s.TotalBet,
		"grid":          s.Grid,
		"payout":        s.Payout,
		"winning_lines": s.WinningLines,
		"win_positions": s.WinPositions,
		"timestamp":     s.Timestamp,
	}
}

// RandomGenerator 随机数生成器接口
type RandomGenerator interface {
	// Next 生成下一个随机数 [0,1)
	Next() float64

	// NextInt 生成 [min,max) 范围内的随机整数
	NextInt(min, max int) int

	// Seed 设置种子
	Seed(seed int64)
}

package slot

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// TheoreticalRTP 计算每单位线注的理论返还率
//
// 不放回抽取下，任一格出现符号s的概率为 count_s/poolSize，列之间相互独立，
// 所以一条线以s中奖的概率为 (count_s/poolSize)^cols。
func TheoreticalRTP(table SymbolTable, cols int) decimal.Decimal {
	size := table.PoolSize()
	if size == 0 || cols < 1 {
		return decimal.Zero
	}

	numerator := decimal.Zero
	for _, entry := range table {
		numerator = numerator.Add(decimal.NewFromInt(entry.Value).Mul(intPow(int64(entry.Count), cols)))
	}
	return numerator.Div(intPow(int64(size), cols))
}

// LineHitProbability 单条线中奖的理论概率
func LineHitProbability(table SymbolTable, cols int) decimal.Decimal {
	size := table.PoolSize()
	if size == 0 || cols < 1 {
		return decimal.Zero
	}

	numerator := decimal.Zero
	for _, entry := range table {
		numerator = numerator.Add(intPow(int64(entry.Count), cols))
	}
	return numerator.Div(intPow(int64(size), cols))
}

func intPow(base int64, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	b := decimal.NewFromInt(base)
	for i := 0; i < exp; i++ {
		result = result.Mul(b)
	}
	return result
}

// SimulationResult 模拟结果
type SimulationResult struct {
	TotalSpins     int             `json:"total_spins"`
	Lines          int             `json:"lines"`
	BetPerLine     int64           `json:"bet_per_line"`
	TotalBet       int64           `json:"total_bet"`
	TotalWin       int64           `json:"total_win"`
	WinningSpins   int             `json:"winning_spins"`
	RTP            float64         `json:"rtp"`
	HitRate        float64         `json:"hit_rate"`
	LineHits       []int           `json:"line_hits"` // 下标0对应第1条线
	SymbolHits     map[Symbol]int  `json:"symbol_hits"`
	TheoreticalRTP decimal.Decimal `json:"theoretical_rtp"`
}

// 每隔多少次转动检查一次ctx
const simulateCheckInterval = 1024

// Simulate 批量模拟（用于验证RTP），ctx取消时返回ctx.Err()
//
// 开始前按最高赔率估算总下注和总赔付的上限，超出int64范围时返回ErrAmountOverflow。
func Simulate(ctx context.Context, rng RandomGenerator, table SymbolTable, spins, lines int, betPerLine int64) (*SimulationResult, error) {
	if lines < 1 || lines > Rows {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLineCount, lines)
	}
	if err := checkSimulationRange(table, spins, lines, betPerLine); err != nil {
		return nil, err
	}

	result := &SimulationResult{
		TotalSpins:     spins,
		Lines:          lines,
		BetPerLine:     betPerLine,
		LineHits:       make([]int, lines),
		SymbolHits:     make(map[Symbol]int, len(table)),
		TheoreticalRTP: TheoreticalRTP(table, Cols),
	}
	values := table.Values()
	spinBet := int64(lines) * betPerLine

	for i := 0; i < spins; i++ {
		if i%simulateCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		grid, err := GenerateGrid(rng, Rows, Cols, table)
		if err != nil {
			return nil, err
		}
		payout, winningLines := Evaluate(grid, lines, betPerLine, values)

		result.TotalBet += spinBet
		result.TotalWin += payout
		if payout > 0 {
			result.WinningSpins++
		}
		for _, line := range winningLines {
			result.LineHits[line-1]++
			result.SymbolHits[grid[0][line-1]]++
		}
	}

	result.updateRates()
	return result, nil
}

// checkSimulationRange 检查 spins*lines*bet*最高赔率 不超出int64
func checkSimulationRange(table SymbolTable, spins, lines int, betPerLine int64) error {
	if spins < 0 || betPerLine < 0 {
		return fmt.Errorf("%w: spins=%d bet=%d", ErrAmountOverflow, spins, betPerLine)
	}

	maxValue := int64(1)
	for _, entry := range table {
		if entry.Value > maxValue {
			maxValue = entry.Value
		}
	}

	total := int64(spins)
	for _, factor := range []int64{int64(lines), betPerLine, maxValue} {
		var err error
		if total, err = MulAmount(total, factor); err != nil {
			return err
		}
	}
	return nil
}

func (r *SimulationResult) updateRates() {
	r.RTP, r.HitRate = 0, 0
	if r.TotalBet > 0 {
		r.RTP = float64(r.TotalWin) / float64(r.TotalBet)
	}
	if r.TotalSpins > 0 {
		r.HitRate = float64(r.WinningSpins) / float64(r.TotalSpins)
	}
}

// Merge 合并另一批相同线数和投注的模拟结果
func (r *SimulationResult) Merge(other *SimulationResult) error {
	if other.Lines != r.Lines || other.BetPerLine != r.BetPerLine {
		return fmt.Errorf("模拟参数不一致: lines %d/%d, bet %d/%d", r.Lines, other.Lines, r.BetPerLine, other.BetPerLine)
	}

	totalBet, err := AddAmount(r.TotalBet, other.TotalBet)
	if err != nil {
		return err
	}
	totalWin, err := AddAmount(r.TotalWin, other.TotalWin)
	if err != nil {
		return err
	}

	r.TotalSpins += other.TotalSpins
	r.TotalBet = totalBet
	r.TotalWin = totalWin
	r.WinningSpins += other.WinningSpins
	for i, hits := range other.LineHits {
		r.LineHits[i] += hits
	}
	for symbol, hits := range other.SymbolHits {
		r.SymbolHits[symbol] += hits
	}

	r.updateRates()
	return nil
}

package slot

// Evaluate 计算中奖线和总赔付
//
// 检查前activeLines行，某行所有列符号相同即为中奖，赔付为 符号赔率*每线下注。
// 返回的中奖线号从1开始并按行升序。盘面行数不足activeLines属于调用方错误。
func Evaluate(grid Grid, activeLines int, betPerLine int64, values map[Symbol]int64) (int64, []int) {
	payout := int64(0)
	winningLines := []int{}
	if len(grid) == 0 {
		return payout, winningLines
	}

	for line := 0; line < activeLines; line++ {
		symbol := grid[0][line]
		if !rowMatches(grid, line, symbol) {
			continue
		}
		payout += values[symbol] * betPerLine
		winningLines = append(winningLines, line+1)
	}
	return payout, winningLines
}

// rowMatches 判断某行是否全部为同一符号
func rowMatches(grid Grid, line int, symbol Symbol) bool {
	for _, column := range grid[1:] {
		if column[line] != symbol {
			return false
		}
	}
	return true
}

// WinPositions 返回中奖线覆盖的位置，按线号和卷轴顺序排列
func WinPositions(grid Grid, winningLines []int) []Position {
	positions := make([]Position, 0, len(grid)*len(winningLines))
	for _, line := range winningLines {
		for reel := range grid {
			positions = append(positions, Position{Reel: reel, Row: line - 1})
		}
	}
	return positions
}

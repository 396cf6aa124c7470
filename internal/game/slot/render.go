package slot

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatGrid 按列输出盘面，例如 "A B C | D D A | B C D"
func FormatGrid(grid Grid) string {
	columns := make([]string, 0, len(grid))
	for _, column := range grid {
		columns = append(columns, joinSymbols(column, " "))
	}
	return strings.Join(columns, " | ")
}

// FormatRows 按行输出盘面，每行对应一条支付线
func FormatRows(grid Grid) string {
	var builder strings.Builder
	for r := 0; r < grid.Rows(); r++ {
		if r > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(joinSymbols(grid.Row(r), " | "))
	}
	return builder.String()
}

// WinMessage 中奖提示
func WinMessage(payout int64, winningLines []int) string {
	if payout <= 0 {
		return "No winning lines."
	}
	lines := make([]string, len(winningLines))
	for i, line := range winningLines {
		lines[i] = strconv.Itoa(line)
	}
	return fmt.Sprintf("You won $%d on lines: %s!", payout, strings.Join(lines, ", "))
}

func joinSymbols(symbols []Symbol, sep string) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return strings.Join(parts, sep)
}

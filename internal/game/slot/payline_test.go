package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// columns 按行描述盘面，转换为按列存储的Grid
func columns(rows ...[]Symbol) Grid {
	grid := make(Grid, len(rows[0]))
	for c := range grid {
		grid[c] = make([]Symbol, len(rows))
		for r := range rows {
			grid[c][r] = rows[r][c]
		}
	}
	return grid
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		grid        Grid
		lines       int
		bet         int64
		values      map[Symbol]int64
		wantPayout  int64
		wantWinning []int
	}{
		{
			name: "第1行中奖",
			grid: columns(
				[]Symbol{"A", "A", "A"},
				[]Symbol{"B", "C", "D"},
				[]Symbol{"D", "C", "B"},
			),
			lines:       1,
			bet:         10,
			values:      map[Symbol]int64{"A": 5},
			wantPayout:  50,
			wantWinning: []int{1},
		},
		{
			name: "第2、3行中奖",
			grid: columns(
				[]Symbol{"A", "B", "C"},
				[]Symbol{"B", "B", "B"},
				[]Symbol{"C", "C", "C"},
			),
			lines:       3,
			bet:         5,
			values:      map[Symbol]int64{"B": 4, "C": 3},
			wantPayout:  35,
			wantWinning: []int{2, 3},
		},
		{
			name: "无中奖",
			grid: columns(
				[]Symbol{"A", "B", "C"},
				[]Symbol{"B", "C", "D"},
				[]Symbol{"C", "D", "A"},
			),
			lines:       3,
			bet:         100,
			values:      DefaultSymbolTable().Values(),
			wantPayout:  0,
			wantWinning: []int{},
		},
		{
			name: "中奖行未下注",
			grid: columns(
				[]Symbol{"A", "B", "C"},
				[]Symbol{"D", "C", "B"},
				[]Symbol{"D", "D", "D"},
			),
			lines:       2,
			bet:         10,
			values:      DefaultSymbolTable().Values(),
			wantPayout:  0,
			wantWinning: []int{},
		},
		{
			name: "三行全中",
			grid: columns(
				[]Symbol{"A", "A", "A"},
				[]Symbol{"B", "B", "B"},
				[]Symbol{"D", "D", "D"},
			),
			lines:       3,
			bet:         2,
			values:      DefaultSymbolTable().Values(),
			wantPayout:  5*2 + 4*2 + 2*2,
			wantWinning: []int{1, 2, 3},
		},
		{
			name: "零条线",
			grid: columns(
				[]Symbol{"A", "A", "A"},
				[]Symbol{"A", "A", "A"},
				[]Symbol{"A", "A", "A"},
			),
			lines:       0,
			bet:         10,
			values:      map[Symbol]int64{"A": 5},
			wantPayout:  0,
			wantWinning: []int{},
		},
		{
			name: "赔率表缺少符号",
			grid: columns(
				[]Symbol{"Z", "Z", "Z"},
				[]Symbol{"A", "B", "C"},
				[]Symbol{"A", "B", "C"},
			),
			lines:       1,
			bet:         10,
			values:      map[Symbol]int64{"A": 5},
			wantPayout:  0,
			wantWinning: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payout, winning := Evaluate(tt.grid, tt.lines, tt.bet, tt.values)
			assert.Equal(t, tt.wantPayout, payout)
			assert.Equal(t, tt.wantWinning, winning)
		})
	}
}

func TestEvaluate_ZeroLinesAnyGrid(t *testing.T) {
	rng := NewSeededRandomGenerator(11)
	table := DefaultSymbolTable()
	for i := 0; i < 100; i++ {
		grid, err := GenerateGrid(rng, Rows, Cols, table)
		assert.NoError(t, err)
		payout, winning := Evaluate(grid, 0, 10, table.Values())
		assert.Zero(t, payout)
		assert.NotNil(t, winning)
		assert.Empty(t, winning)
	}
}

func TestEvaluate_Pure(t *testing.T) {
	grid := columns(
		[]Symbol{"C", "C", "C"},
		[]Symbol{"A", "B", "A"},
		[]Symbol{"D", "D", "D"},
	)
	snapshot := columns(
		[]Symbol{"C", "C", "C"},
		[]Symbol{"A", "B", "A"},
		[]Symbol{"D", "D", "D"},
	)
	values := DefaultSymbolTable().Values()

	p1, w1 := Evaluate(grid, 3, 7, values)
	p2, w2 := Evaluate(grid, 3, 7, values)

	assert.Equal(t, p1, p2)
	assert.Equal(t, w1, w2)
	assert.Equal(t, int64(3*7+2*7), p1)
	assert.Equal(t, []int{1, 3}, w1)
	assert.Equal(t, snapshot, grid)
}

func TestEvaluate_EmptyGrid(t *testing.T) {
	payout, winning := Evaluate(nil, 3, 10, nil)
	assert.Zero(t, payout)
	assert.Empty(t, winning)
}

func TestWinPositions(t *testing.T) {
	grid := columns(
		[]Symbol{"A", "A", "A"},
		[]Symbol{"B", "B", "B"},
		[]Symbol{"C", "C", "C"},
	)
	assert.Equal(t, []Position{{Reel: 0, Row: 1}, {Reel: 1, Row: 1}, {Reel: 2, Row: 1}}, WinPositions(grid, []int{2}))
	assert.Equal(t, []Position{
		{Reel: 0, Row: 0}, {Reel: 1, Row: 0}, {Reel: 2, Row: 0},
		{Reel: 0, Row: 2}, {Reel: 1, Row: 2}, {Reel: 2, Row: 2},
	}, WinPositions(grid, []int{1, 3}))
	assert.Empty(t, WinPositions(grid, []int{}))
}

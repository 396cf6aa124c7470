package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatGrid(t *testing.T) {
	grid := Grid{
		{"A", "B", "C"},
		{"D", "D", "A"},
		{"B", "C", "D"},
	}
	assert.Equal(t, "A B C | D D A | B C D", FormatGrid(grid))
	assert.Equal(t, "", FormatGrid(nil))
}

func TestFormatRows(t *testing.T) {
	grid := Grid{
		{"A", "B", "C"},
		{"D", "D", "A"},
		{"B", "C", "D"},
	}
	assert.Equal(t, "A | D | B\nB | D | C\nC | A | D", FormatRows(grid))
}

func TestWinMessage(t *testing.T) {
	assert.Equal(t, "No winning lines.", WinMessage(0, []int{}))
	assert.Equal(t, "You won $50 on lines: 1!", WinMessage(50, []int{1}))
	assert.Equal(t, "You won $35 on lines: 2, 3!", WinMessage(35, []int{2, 3}))
}

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/slot-machine/internal/game"
	"github.com/wfunc/slot-machine/internal/game/slot"
)

type firstRandom struct{}

func (firstRandom) Next() float64            { return 0 }
func (firstRandom) NextInt(min, max int) int { return min }
func (firstRandom) Seed(int64)               {}

func runCLI(t *testing.T, opts game.Options, input string) (string, *game.Machine) {
	t.Helper()
	opts.RNG = firstRandom{}
	m, err := game.NewMachine(opts)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, newCLI(m, strings.NewReader(input), &out).run(context.Background()))
	return out.String(), m
}

func TestCLI_DepositAndSpin(t *testing.T) {
	out, m := runCLI(t, game.Options{}, "100\n3\n10\nq\n")

	assert.Contains(t, out, "Welcome to Slot Machine")
	assert.Contains(t, out, "Current Balance: $100")
	assert.Contains(t, out, "A | A | A\nD | D | D\nD | D | D")
	assert.Contains(t, out, "You won $90 on lines: 1, 2, 3! Current balance: $160")
	assert.Contains(t, out, "Current Balance: $160")
	assert.True(t, strings.HasSuffix(out, "Thanks for playing!\n"))
	assert.Equal(t, int64(160), m.Snapshot().Balance)
}

func TestCLI_InputErrors(t *testing.T) {
	input := strings.Join([]string{
		"abc",     // 非数字
		"0",       // 充值必须大于0
		"2000000", // 超过充值上限
		"10",
		"4", "1", // 线数无效
		"1", "101", // 投注无效
		"3", "4", // 余额不足
		"q",
	}, "\n") + "\n"

	out, m := runCLI(t, game.Options{}, input)

	assert.Contains(t, out, "Error: Please enter a whole number.")
	assert.Contains(t, out, "Error: Deposit must be greater than zero.")
	assert.Contains(t, out, "Error: Deposit cannot exceed $1000000.")
	assert.Contains(t, out, "Error: Lines must be between 1 and 3.")
	assert.Contains(t, out, "Error: Bet must be between $1 and $100.")
	assert.Contains(t, out, "Error: Insufficient balance for this bet.")

	snap := m.Snapshot()
	assert.Equal(t, int64(10), snap.Balance)
	assert.Equal(t, 0, snap.SpinCount)
}

func TestCLI_GameOverReturnsToDeposit(t *testing.T) {
	table := slot.SymbolTable{{Symbol: "X", Count: 3, Value: 0}}
	out, m := runCLI(t, game.Options{Table: table}, "3\n3\n1\n5\n")

	assert.Contains(t, out, "No winning lines. Current balance: $0")
	assert.Contains(t, out, "Game Over! You are out of balance.")
	assert.Equal(t, 2, strings.Count(out, "Enter your initial deposit: $"))

	// 输入结束时正常退出
	assert.True(t, strings.HasSuffix(out, "Thanks for playing!\n"))
	assert.Equal(t, game.StateReady, m.Snapshot().State)
	assert.Equal(t, int64(5), m.Snapshot().Balance)
}

func TestCLI_CanceledContext(t *testing.T) {
	m, err := game.NewMachine(game.Options{RNG: firstRandom{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	require.NoError(t, newCLI(m, strings.NewReader("10\n"), &out).run(ctx))
	assert.NotContains(t, out.String(), "Enter your initial deposit")
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/wfunc/slot-machine/internal/config"
	"github.com/wfunc/slot-machine/internal/errors"
	"github.com/wfunc/slot-machine/internal/game"
	"github.com/wfunc/slot-machine/internal/game/slot"
	"github.com/wfunc/slot-machine/internal/logger"
)

// errQuit 用户输入q退出
var errQuit = fmt.Errorf("quit")

func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径（可选）")
		seed       = flag.Int64("seed", 0, "随机种子，0表示使用配置中的种子")
		verbose    = flag.Bool("v", false, "输出游戏日志")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}

	log := zap.NewNop()
	if *verbose {
		cfg.Log.Output = "stdout"
		cfg.Log.Level = "debug"
		if log, err = logger.New(&cfg.Log); err != nil {
			fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
			os.Exit(1)
		}
	}
	defer log.Sync()

	machine, err := game.NewMachineFromConfig(cfg.Game, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建老虎机失败: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCLI(machine, os.Stdin, os.Stdout).run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// cli 终端前端：充值、下注、显示结果
type cli struct {
	machine *game.Machine
	in      *bufio.Scanner
	out     io.Writer
}

func newCLI(machine *game.Machine, in io.Reader, out io.Writer) *cli {
	return &cli{machine: machine, in: bufio.NewScanner(in), out: out}
}

// run 主循环，输入q或输入结束时返回nil
func (c *cli) run(ctx context.Context) error {
	c.printf("Welcome to Slot Machine\n")

	for ctx.Err() == nil {
		var err error
		if c.machine.Snapshot().State == game.StateIdle {
			err = c.depositStep(ctx)
		} else {
			err = c.spinStep(ctx)
		}

		switch {
		case err == nil:
		case err == errQuit || err == io.EOF:
			c.printf("Thanks for playing!\n")
			return nil
		default:
			return err
		}
	}
	return nil
}

func (c *cli) depositStep(ctx context.Context) error {
	amount, err := c.promptInt("Enter your initial deposit: $")
	if err != nil {
		return c.inputError(err)
	}

	if _, err := c.machine.Deposit(ctx, int64(amount)); err != nil {
		if amount > 0 && errors.Is(err, errors.ErrInvalidDeposit) {
			c.printf("Error: Deposit cannot exceed $%d.\n", c.machine.Snapshot().Limits.MaxDeposit)
			return nil
		}
		return c.gameError(err)
	}
	return nil
}

func (c *cli) spinStep(ctx context.Context) error {
	snap := c.machine.Snapshot()
	c.printf("\nCurrent Balance: $%d\n", snap.Balance)

	lines, err := c.promptInt(fmt.Sprintf("Number of lines to bet on (1-%d): ", snap.Limits.MaxLines))
	if err != nil {
		return c.inputError(err)
	}
	bet, err := c.promptInt(fmt.Sprintf("Bet per line ($%d-$%d): ", snap.Limits.MinBet, snap.Limits.MaxBet))
	if err != nil {
		return c.inputError(err)
	}

	round, err := c.machine.Spin(ctx, lines, int64(bet))
	if err != nil {
		return c.gameError(err)
	}

	c.printf("\n%s\n\n", slot.FormatRows(round.Result.Grid))
	c.printf("%s Current balance: $%d\n", round.Message, round.Balance)
	if round.GameOver {
		c.printf("Game Over! You are out of balance.\n\n")
	}
	return nil
}

// promptInt 读取一个整数，q退出
func (c *cli) promptInt(prompt string) (int, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	text := strings.TrimSpace(c.in.Text())
	if strings.EqualFold(text, "q") {
		return 0, errQuit
	}
	return strconv.Atoi(text)
}

// inputError 非整数输入只提示，不中断
func (c *cli) inputError(err error) error {
	if _, ok := err.(*strconv.NumError); ok {
		c.printf("Error: Please enter a whole number.\n")
		return nil
	}
	return err
}

// gameError 把机器返回的错误转为提示
func (c *cli) gameError(err error) error {
	limits := c.machine.Snapshot().Limits

	switch errors.GetCode(err) {
	case errors.ErrInvalidDeposit:
		c.printf("Error: Deposit must be greater than zero.\n")
	case errors.ErrInvalidLines:
		c.printf("Error: Lines must be between 1 and %d.\n", limits.MaxLines)
	case errors.ErrInvalidBet:
		c.printf("Error: Bet must be between $%d and $%d.\n", limits.MinBet, limits.MaxBet)
	case errors.ErrInsufficientBalance:
		c.printf("Error: Insufficient balance for this bet.\n")
	case errors.ErrBalanceOverflow:
		c.printf("Error: Balance limit reached, bet returned.\n")
	case errors.ErrCanceled:
		return errQuit
	default:
		return err
	}
	return nil
}

func (c *cli) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "go.uber.org/automaxprocs"

	"github.com/wfunc/slot-machine/internal/config"
	"github.com/wfunc/slot-machine/internal/game/slot"
)

func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径（读取符号表，默认使用内置符号表）")
		spins      = flag.Int("spins", 1_000_000, "模拟次数")
		lines      = flag.Int("lines", slot.MaxLines, "下注线数")
		bet        = flag.Int64("bet", 1, "每线下注")
		seed       = flag.Int64("seed", 0, "随机种子，0表示使用加密随机源")
		workers    = flag.Int("workers", runtime.GOMAXPROCS(0), "并发模拟协程数")
		asJSON     = flag.Bool("json", false, "以JSON格式输出")
	)
	flag.Parse()

	table := slot.DefaultSymbolTable()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
			os.Exit(1)
		}
		table = cfg.Game.SymbolTable()
	}

	if *spins < 1 || *workers < 1 {
		fmt.Fprintln(os.Stderr, "spins和workers必须大于0")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	result, err := run(ctx, table, *spins, *lines, *bet, *seed, *workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "模拟失败: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	if *asJSON {
		out, err := jsoniter.MarshalToString(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "序列化失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	printReport(table, result, elapsed)
}

// run 把模拟次数分给多个协程，每个协程使用独立的随机源
func run(ctx context.Context, table slot.SymbolTable, spins, lines int, bet, seed int64, workers int) (*slot.SimulationResult, error) {
	if workers > spins {
		workers = spins
	}

	results := make([]*slot.SimulationResult, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		n := spins / workers
		if i < spins%workers {
			n++
		}

		var rng slot.RandomGenerator = slot.NewCryptoRandomGenerator()
		if seed != 0 {
			rng = slot.NewSeededRandomGenerator(seed + int64(i))
		}

		wg.Add(1)
		go func(i, n int, rng slot.RandomGenerator) {
			defer wg.Done()
			results[i], errs[i] = slot.Simulate(ctx, rng, table, n, lines, bet)
		}(i, n, rng)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	total := results[0]
	for _, r := range results[1:] {
		if err := total.Merge(r); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func printReport(table slot.SymbolTable, r *slot.SimulationResult, elapsed time.Duration) {
	fmt.Printf("符号表 (卷轴池大小 %d):\n", table.PoolSize())
	for _, s := range table {
		fmt.Printf("  %-6s 数量 %-3d 赔率 x%d\n", s.Symbol, s.Count, s.Value)
	}
	fmt.Println()
	fmt.Printf("模拟次数:   %d (%s)\n", r.TotalSpins, elapsed.Round(time.Millisecond))
	fmt.Printf("下注:       %d 线 x %d\n", r.Lines, r.BetPerLine)
	fmt.Printf("总下注:     %d\n", r.TotalBet)
	fmt.Printf("总赔付:     %d\n", r.TotalWin)
	fmt.Printf("中奖率:     %.4f%%\n", r.HitRate*100)
	fmt.Printf("理论RTP:    %s%%\n", r.TheoreticalRTP.Shift(2).StringFixed(4))
	fmt.Printf("模拟RTP:    %.4f%%\n", r.RTP*100)
	fmt.Println()

	for i, hits := range r.LineHits {
		fmt.Printf("第%d条线:   %d 次 (%.4f%%)\n", i+1, hits, float64(hits)/float64(r.TotalSpins)*100)
	}

	symbols := make([]string, 0, len(r.SymbolHits))
	for s := range r.SymbolHits {
		symbols = append(symbols, string(s))
	}
	sort.Strings(symbols)
	for _, s := range symbols {
		fmt.Printf("符号 %-6s %d 次\n", s, r.SymbolHits[slot.Symbol(s)])
	}
}

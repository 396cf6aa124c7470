package slot

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"sync"
)

// CryptoRandomGenerator 加密安全的随机数生成器
type CryptoRandomGenerator struct{}

// NewCryptoRandomGenerator 创建加密随机数生成器
func NewCryptoRandomGenerator() *CryptoRandomGenerator {
	return &CryptoRandomGenerator{}
}

// Next 生成下一个随机数 (0-1)
func (g *CryptoRandomGenerator) Next() float64 {
	max := big.NewInt(1000000)
	n, _ := rand.Int(rand.Reader, max)
	return float64(n.Int64()) / 1000000.0
}

// NextInt 生成指定范围内的随机整数
func (g *CryptoRandomGenerator) NextInt(min, max int) int {
	if min >= max {
		return min
	}
	diff := big.NewInt(int64(max - min))
	n, _ := rand.Int(rand.Reader, diff)
	return min + int(n.Int64())
}

// Seed 设置种子（加密随机数不需要种子）
func (g *CryptoRandomGenerator) Seed(seed int64) {}

// SeededRandomGenerator 可复现的随机数生成器，用于测试和模拟
type SeededRandomGenerator struct {
	mu  sync.Mutex
	rnd *mrand.Rand
}

// NewSeededRandomGenerator 创建带种子的随机数生成器
func NewSeededRandomGenerator(seed int64) *SeededRandomGenerator {
	return &SeededRandomGenerator{
		rnd: mrand.New(mrand.NewSource(seed)),
	}
}

// Next 生成下一个随机数 [0,1)
func (g *SeededRandomGenerator) Next() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Float64()
}

// NextInt 生成指定范围内的随机整数
func (g *SeededRandomGenerator) NextInt(min, max int) int {
	if min >= max {
		return min
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return min + g.rnd.Intn(max-min)
}

// Seed 重置种子
func (g *SeededRandomGenerator) Seed(seed int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rnd.Seed(seed)
}

// NewRandomGenerator 根据种子选择生成器，seed为0时使用加密随机数
func NewRandomGenerator(seed int64) RandomGenerator {
	if seed == 0 {
		return NewCryptoRandomGenerator()
	}
	return NewSeededRandomGenerator(seed)
}

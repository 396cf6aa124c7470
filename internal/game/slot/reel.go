package slot

import "fmt"

// GenerateGrid 生成卷轴结果
//
// 每一列都从符号表重新构建自己的卷轴池，然后不放回地抽取rows个符号。
// 列与列之间不共享卷轴池。rows超过卷轴池大小时返回ErrPoolExhausted。
func GenerateGrid(rng RandomGenerator, rows, cols int, table SymbolTable) (Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: rows=%d cols=%d", ErrInvalidGridSize, rows, cols)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if size := table.PoolSize(); rows > size {
		return nil, fmt.Errorf("%w: 需要%d个符号，卷轴池仅有%d个", ErrPoolExhausted, rows, size)
	}

	grid := make(Grid, cols)
	for c := range grid {
		grid[c] = drawColumn(rng, rows, buildPool(table))
	}
	return grid, nil
}

// buildPool 按符号表顺序构建卷轴池
func buildPool(table SymbolTable) []Symbol {
	pool := make([]Symbol, 0, table.PoolSize())
	for _, spec := range table {
		for i := 0; i < spec.Count; i++ {
			pool = append(pool, spec.Symbol)
		}
	}
	return pool
}

// drawColumn 不放回抽取，pool会被修改
func drawColumn(rng RandomGenerator, rows int, pool []Symbol) []Symbol {
	column := make([]Symbol, rows)
	for r := range column {
		i := rng.NextInt(0, len(pool))
		column[r] = pool[i]
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return column
}

package slot

import (
	"fmt"
	"math"
)

// AddAmount 金额相加，超出int64范围时返回ErrAmountOverflow
func AddAmount(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, fmt.Errorf("%w: %d + %d", ErrAmountOverflow, a, b)
	}
	return a + b, nil
}

// MulAmount 金额相乘，仅用于非负金额
func MulAmount(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: 负数金额 %d * %d", ErrAmountOverflow, a, b)
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, fmt.Errorf("%w: %d * %d", ErrAmountOverflow, a, b)
	}
	return a * b, nil
}

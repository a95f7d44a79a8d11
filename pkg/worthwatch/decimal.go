package worthwatch

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DecimalPrecision is the total digit budget for every decimal column.
const DecimalPrecision = 18

// maxUnscaled is the largest unscaled magnitude representable in 18 digits.
const maxUnscaled = int64(999999999999999999)

// Fit quantizes d to the given scale (rounding half away from zero) and
// returns the unscaled value. Values wider than 18 total digits are rejected.
func Fit(d decimal.Decimal, scale int32) (int64, error) {
	q := d.Round(scale)
	bi := q.Shift(scale).BigInt()
	if !bi.IsInt64() {
		return 0, fmt.Errorf("decimal %s exceeds %d digits at scale %d", d, DecimalPrecision, scale)
	}
	u := bi.Int64()
	if u > maxUnscaled || u < -maxUnscaled {
		return 0, fmt.Errorf("decimal %s exceeds %d digits at scale %d", d, DecimalPrecision, scale)
	}
	return u, nil
}

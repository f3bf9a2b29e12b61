package operation

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/vietddude/tokenctl/internal/core/domain"
)

// ParseAmount converts a human-entered decimal amount into base units for a
// token with the given decimals. Amounts must be positive and representable
// without rounding.
func ParseAmount(amount string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", domain.ErrAmountFormat, amount)
	}
	if d.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("%w: %q has more than %d decimal places", domain.ErrAmountFormat, amount, decimals)
	}
	raw := shifted.BigInt()
	if raw.BitLen() > 256 {
		return nil, fmt.Errorf("%w: %q does not fit a uint256", domain.ErrAmountFormat, amount)
	}
	return raw, nil
}

// FormatUnits renders a base-unit quantity as a decimal string.
func FormatUnits(raw *big.Int, decimals uint8) string {
	return decimal.NewFromBigInt(raw, -int32(decimals)).String()
}

package eth

import (
	"fmt"
	"math/big"
	"strings"
)

// Fixed function selectors for the token and oracle contracts:
//
//	balanceOf(address)      → 0x70a08231
//	transfer(address,u256)  → 0xa9059cbb
//	mint(address,u256)      → 0x40c10f19
//	burn(address,u256)      → 0x9dc29fac
//	latestAnswer()          → 0x50d25bcd
const (
	selBalanceOf    = "0x70a08231"
	selTransfer     = "0xa9059cbb"
	selMint         = "0x40c10f19"
	selBurn         = "0x9dc29fac"
	selLatestAnswer = "0x50d25bcd"
)

// ValidAddress reports whether s is a 0x-prefixed 20-byte hex address.
func ValidAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// addressWord left-pads an address to a 32-byte ABI word.
func addressWord(addr string) (string, error) {
	if !ValidAddress(addr) {
		return "", fmt.Errorf("invalid address: %q", addr)
	}
	return strings.Repeat("0", 24) + strings.ToLower(addr[2:]), nil
}

// amountWord encodes a non-negative integer as a 32-byte ABI word. Values
// that do not fit a uint256 are rejected.
func amountWord(v *big.Int) (string, error) {
	if v.Sign() < 0 || v.BitLen() > 256 {
		return "", fmt.Errorf("amount out of uint256 range: %s", v)
	}
	hex := v.Text(16)
	return strings.Repeat("0", 64-len(hex)) + hex, nil
}

// BalanceOfData builds calldata for balanceOf(owner).
func BalanceOfData(owner string) (string, error) {
	w, err := addressWord(owner)
	if err != nil {
		return "", err
	}
	return selBalanceOf + w, nil
}

// TransferData builds calldata for transfer(to, amount).
func TransferData(to string, amount *big.Int) (string, error) {
	w, err := addressWord(to)
	if err != nil {
		return "", err
	}
	a, err := amountWord(amount)
	if err != nil {
		return "", err
	}
	return selTransfer + w + a, nil
}

// MintData builds calldata for mint(to, amount).
func MintData(to string, amount *big.Int) (string, error) {
	w, err := addressWord(to)
	if err != nil {
		return "", err
	}
	a, err := amountWord(amount)
	if err != nil {
		return "", err
	}
	return selMint + w + a, nil
}

// BurnData builds calldata for burn(from, amount).
func BurnData(from string, amount *big.Int) (string, error) {
	w, err := addressWord(from)
	if err != nil {
		return "", err
	}
	a, err := amountWord(amount)
	if err != nil {
		return "", err
	}
	return selBurn + w + a, nil
}

// LatestAnswerData builds calldata for latestAnswer().
func LatestAnswerData() string {
	return selLatestAnswer
}

// ParseQuantity decodes a 0x-prefixed hex quantity into an unsigned integer.
func ParseQuantity(s string) (*big.Int, error) {
	hex := strings.TrimPrefix(s, "0x")
	if hex == "" {
		return nil, fmt.Errorf("empty quantity")
	}
	v, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity: %q", s)
	}
	return v, nil
}

// ParseInt256 decodes a 32-byte ABI return word as a signed int256.
// Oracle answers use this encoding.
func ParseInt256(s string) (*big.Int, error) {
	v, err := ParseQuantity(s)
	if err != nil {
		return nil, err
	}
	// Two's complement when the sign bit of a full word is set.
	if v.BitLen() == 256 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 256))
	}
	return v, nil
}

// ParseUint64 decodes a 0x-prefixed hex quantity into a uint64.
func ParseUint64(s string) (uint64, error) {
	v, err := ParseQuantity(s)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("quantity out of uint64 range: %q", s)
	}
	return v.Uint64(), nil
}

package units

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDecimals 是 uint256 能容纳的最大小数位（10^77 < 2^256 < 10^78）。
const MaxDecimals = 77

// maxAmountLen：78 位整数 + 小数点 + 77 位小数，再留一点余量。
const maxAmountLen = 160

var (
	ErrInvalidAmount = errors.New("amount is not a decimal number")
	ErrNonPositive   = errors.New("amount must be greater than zero")
	ErrTooManyDigits = errors.New("amount has more fractional digits than the asset supports")
	ErrTooLarge      = errors.New("amount does not fit in uint256")
	ErrDecimalsRange = fmt.Errorf("decimals must be within 0..%d", MaxDecimals)
)

// 只接受普通十进制写法："10"、"1.5"、".5"、"1."；不接受科学计数法。
var plainDecimal = regexp.MustCompile(`^-?([0-9]+\.?[0-9]*|\.[0-9]+)$`)

// maxUint256 = 2^256 - 1
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ParseAmount 把人类单位的十进制字符串解析为 decimal，且必须 > 0。
// 全程不经过 float，避免精度丢失。
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxAmountLen || !plainDecimal.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrNonPositive
	}
	return d, nil
}

// ParseUnits 把十进制字符串按 decimals 换算为链上整数（base units）。
// 小数位超过 decimals 时报错而不是截断。
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	if decimals > MaxDecimals {
		return nil, ErrDecimalsRange
	}
	d, err := ParseAmount(s)
	if err != nil {
		return nil, err
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, ErrTooManyDigits
	}
	n := scaled.BigInt()
	if n.Cmp(maxUint256) > 0 {
		return nil, ErrTooLarge
	}
	return n, nil
}

// FormatUnits 把链上整数按 decimals 输出为可读小数字符串（去掉末尾 0）。
// decimals=0 则直接输出整数。
func FormatUnits(n *big.Int, decimals uint8) string {
	if n == nil || n.Sign() == 0 {
		return "0"
	}
	if decimals == 0 {
		return n.String()
	}
	return decimal.NewFromBigInt(n, -int32(decimals)).String()
}

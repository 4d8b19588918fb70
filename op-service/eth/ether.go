package eth

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/params"
)

// EtherDecimals is the number of decimals of one ether, denominated in wei.
const EtherDecimals = 18

var (
	MaxU256Wei          = ETH(uint256.Int{0: ^uint64(0), 1: ^uint64(0), 2: ^uint64(0), 3: ^uint64(0)})
	MaxU64Wei           = ETH(uint256.Int{0: ^uint64(0), 1: 0, 2: 0, 3: 0})
	ThousandEther       = Ether(1000)
	HundredEther        = Ether(100)
	TenEther            = Ether(10)
	FiveEther           = Ether(5)
	OneEther            = Ether(1)
	HalfEther           = GWei(500_000_000)
	TwoTenthsEther      = GWei(200_000_000)
	OneTenthEther       = GWei(100_000_000)
	FiveHundredthsEther = GWei(50_000_000)
	OneHundredthEther   = GWei(10_000_000)
	OneGWei             = GWei(1)
	OneWei              = WeiU64(1)
	ZeroWei             = WeiU64(0)
)

var (
	weiPerGWei = uint256.NewInt(params.GWei)
	weiPerEth  = uint256.NewInt(params.Ether)
)

var (
	ErrEmptyAmount     = errors.New("empty amount")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("too many decimals")
	ErrAmountOverflow  = errors.New("amount does not fit in 256 bits")
)

// ETH is a typed ETH currency integer, expressed in number of wei.
// Methods take and return flat values, and never mutate the receiver.
type ETH uint256.Int

// String prints the amount of ETH, with thousands comma-separators, and unit.
// Amounts divisible by 1 ether print in ether, amounts divisible by 1 gwei print in gwei,
// everything else prints in wei. No precision is lost.
func (e ETH) String() string {
	vWei := (*uint256.Int)(&e)
	if vWei.Sign() == 0 {
		return "0 wei"
	}
	var vGWei uint256.Int
	var remainder uint256.Int
	vGWei.DivMod(vWei, weiPerGWei, &remainder)
	if remainder.Sign() == 0 {
		var vEth uint256.Int
		vEth.DivMod(vWei, weiPerEth, &remainder)
		if remainder.Sign() == 0 {
			return vEth.PrettyDec(',') + " ether"
		}
		return vGWei.PrettyDec(',') + " gwei"
	}
	return vWei.PrettyDec(',') + " wei"
}

// Format implements fmt.Formatter
func (e ETH) Format(s fmt.State, ch rune) {
	(*uint256.Int)(&e).Format(s, ch)
}

// WeiFloat returns the amount as floating point number, in wei (approximate).
func (e ETH) WeiFloat() float64 {
	return (*uint256.Int)(&e).Float64()
}

// EtherString returns the amount forced in ether units, without unit suffix and without trailing zeroes.
// This is the inverse of ParseEther.
func (e ETH) EtherString() string {
	return e.FormatUnits(EtherDecimals)
}

// FormatUnits returns the amount divided by 10^decimals, without trailing zeroes.
// This is the inverse of ParseUnits.
func (e ETH) FormatUnits(decimals int) string {
	var whole, remainder uint256.Int
	divisor := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
	whole.DivMod((*uint256.Int)(&e), divisor, &remainder)
	if remainder.Sign() == 0 {
		return whole.Dec()
	}
	suffix := strings.TrimRight(fmt.Sprintf("%0*d", decimals, &remainder), "0")
	return whole.Dec() + "." + suffix
}

// ToBig converts to *big.Int, in wei.
func (e ETH) ToBig() *big.Int {
	return (*uint256.Int)(&e).ToBig()
}

// Add adds v and returns the result. Add panics if the computation overflows uint256.
func (e ETH) Add(v ETH) (out ETH) {
	var overflow bool
	out, overflow = e.AddOverflow(v)
	if overflow {
		panic(fmt.Errorf("add overflow: %s + %s != %s", e, v, out))
	}
	return
}

// AddOverflow adds v and returns the result, and whether the computation overflowed.
func (e ETH) AddOverflow(v ETH) (out ETH, overflow bool) {
	_, overflow = (*uint256.Int)(&out).AddOverflow((*uint256.Int)(&e), (*uint256.Int)(&v))
	return
}

// Sub subtracts v and returns the result. Sub panics if the computation underflows.
func (e ETH) Sub(v ETH) (out ETH) {
	var underflow bool
	out, underflow = e.SubUnderflow(v)
	if underflow {
		panic(fmt.Errorf("sub underflow: %s - %s != %s", e, v, out))
	}
	return
}

// SubUnderflow subtracts v and returns the result, and whether the computation underflowed.
func (e ETH) SubUnderflow(v ETH) (out ETH, underflow bool) {
	_, underflow = (*uint256.Int)(&out).SubOverflow((*uint256.Int)(&e), (*uint256.Int)(&v))
	return
}

// Mul multiplies by the given scalar. Mul panics if the computation overflows uint256.
func (e ETH) Mul(scalar uint64) (out ETH) {
	var overflow bool
	out, overflow = e.MulOverflow(scalar)
	if overflow {
		panic(fmt.Errorf("overflow on ETH mul: %s * %d != %s", e, scalar, out))
	}
	return
}

// MulOverflow multiplies by the given scalar, and returns whether the result overflowed.
func (e ETH) MulOverflow(scalar uint64) (out ETH, overflow bool) {
	_, overflow = (*uint256.Int)(&out).MulOverflow((*uint256.Int)(&e), uint256.NewInt(scalar))
	return
}

// Lt returns if this is less than the given ETH value.
func (e ETH) Lt(v ETH) bool {
	return (*uint256.Int)(&e).Lt((*uint256.Int)(&v))
}

// Gt returns if this is greater than the given ETH value.
func (e ETH) Gt(v ETH) bool {
	return (*uint256.Int)(&e).Gt((*uint256.Int)(&v))
}

// IsZero returns if this equals 0.
func (e ETH) IsZero() bool {
	return (*uint256.Int)(&e).IsZero()
}

// UnmarshalText supports hexadecimal (0x prefix) and decimal wei amounts.
func (e *ETH) UnmarshalText(data []byte) error {
	return (*uint256.Int)(e).UnmarshalText(data)
}

// UnmarshalJSON accepts quoted hexadecimal or decimal, or unquoted decimal wei amounts.
func (e *ETH) UnmarshalJSON(data []byte) error {
	return (*uint256.Int)(e).UnmarshalJSON(data)
}

// MarshalText marshals as decimal number of wei, without comma separators or unit.
func (e ETH) MarshalText() ([]byte, error) {
	return (*uint256.Int)(&e).MarshalText()
}

// WeiBig turns the given big.Int amount of wei into ETH-typed wei.
// This panics if the amount does not fit in 256 bits, or if it is negative.
func WeiBig(wei *big.Int) (out ETH) {
	if wei == nil {
		panic("nil *big.Int input to ETH constructor")
	}
	if wei.Sign() < 0 {
		panic("negative amounts are not supported")
	}
	if overflow := (*uint256.Int)(&out).SetFromBig(wei); overflow {
		panic("*big.Int input does not fit in uint256")
	}
	return
}

// WeiU64 turns the given uint64 amount of wei into ETH-typed wei.
func WeiU64(wei uint64) (out ETH) {
	(*uint256.Int)(&out).SetUint64(wei)
	return
}

// GWei turns the given amount of gwei into ETH-typed wei.
func GWei(gwei uint64) ETH {
	var x uint256.Int
	x.SetUint64(gwei)
	x.Mul(&x, weiPerGWei)
	return ETH(x)
}

// Ether turns the given amount of ether into ETH-typed wei.
func Ether(ether uint64) ETH {
	var x uint256.Int
	x.SetUint64(ether)
	x.Mul(&x, weiPerEth)
	return ETH(x)
}

// ParseEther parses a decimal ether amount, like "5" or ".05", into ETH-typed wei.
func ParseEther(s string) (ETH, error) {
	return ParseUnits(s, EtherDecimals)
}

// ParseUnits parses a decimal amount with at most the given number of fractional digits,
// and scales it by 10^decimals. Exponents, signs and separators are not accepted.
func ParseUnits(s string, decimals int) (ETH, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ETH{}, ErrEmptyAmount
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return ETH{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > decimals {
		return ETH{}, fmt.Errorf("%w: %q has more than %d decimals", ErrTooManyDecimals, s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return ETH{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return ZeroWei, nil
	}
	var out uint256.Int
	if err := out.SetFromDecimal(digits); err != nil {
		return ETH{}, fmt.Errorf("%w: %q", ErrAmountOverflow, s)
	}
	return ETH(out), nil
}

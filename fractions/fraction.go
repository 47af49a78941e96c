package fractions

import (
	"fmt"
	"math/big"
	"strings"
)

// Rounding selects the direction used when a Fraction is collapsed to a
// fixed number of digits. Arithmetic on fractions is always exact; rounding
// only ever happens at an explicit ToSignificant/ToFixed conversion.
type Rounding int

const (
	// RoundDown truncates toward zero. This is the default everywhere a
	// quotient is taken, matching integer division semantics.
	RoundDown Rounding = iota
	// RoundHalfUp rounds to nearest, ties away from zero.
	RoundHalfUp
	// RoundUp rounds away from zero.
	RoundUp
)

var (
	one = big.NewInt(1)
	ten = big.NewInt(10)

	// precomputed 10^n for the scales that show up in display conversions
	precomputedScales [19]*big.Int
)

func init() {
	precomputedScales[0] = big.NewInt(1)
	for i := 1; i < len(precomputedScales); i++ {
		precomputedScales[i] = new(big.Int).Mul(precomputedScales[i-1], ten)
	}
}

// PowerOfTen returns 10^n. The returned *big.Int MUST NOT be modified.
func PowerOfTen(n int) *big.Int {
	if n >= 0 && n < len(precomputedScales) {
		return precomputedScales[n]
	}
	return new(big.Int).Exp(ten, big.NewInt(int64(n)), nil)
}

// Fraction is an exact rational number backed by arbitrary-precision
// integers. It is immutable: every operation returns a new Fraction and the
// operands are never touched. The fraction is deliberately not reduced to
// lowest terms; comparisons cross-multiply so reduction is unnecessary.
type Fraction struct {
	numerator   *big.Int
	denominator *big.Int
}

// NewFraction builds a fraction from copies of numerator and denominator.
// A zero denominator is a programmer error and panics.
func NewFraction(numerator, denominator *big.Int) *Fraction {
	if denominator.Sign() == 0 {
		panic("fractions: zero denominator")
	}
	return &Fraction{
		numerator:   new(big.Int).Set(numerator),
		denominator: new(big.Int).Set(denominator),
	}
}

// NewInt builds the fraction n/1.
func NewInt(n int64) *Fraction {
	return &Fraction{numerator: big.NewInt(n), denominator: big.NewInt(1)}
}

// FromBig builds the fraction n/1 from a copy of n.
func FromBig(n *big.Int) *Fraction {
	return &Fraction{numerator: new(big.Int).Set(n), denominator: big.NewInt(1)}
}

// Numerator returns the fraction's numerator. MUST NOT be modified.
func (f *Fraction) Numerator() *big.Int { return f.numerator }

// Denominator returns the fraction's denominator. MUST NOT be modified.
func (f *Fraction) Denominator() *big.Int { return f.denominator }

// Quotient returns numerator/denominator truncated toward zero.
func (f *Fraction) Quotient() *big.Int {
	return new(big.Int).Quo(f.numerator, f.denominator)
}

// Remainder returns the fraction left over after Quotient is removed.
func (f *Fraction) Remainder() *Fraction {
	rem := new(big.Int).Rem(f.numerator, f.denominator)
	return &Fraction{numerator: rem, denominator: new(big.Int).Set(f.denominator)}
}

// Invert returns denominator/numerator. Panics if the fraction is zero.
func (f *Fraction) Invert() *Fraction {
	return NewFraction(f.denominator, f.numerator)
}

// Add returns f + other, cross-multiplied, exact.
func (f *Fraction) Add(other *Fraction) *Fraction {
	if f.denominator.Cmp(other.denominator) == 0 {
		return &Fraction{
			numerator:   new(big.Int).Add(f.numerator, other.numerator),
			denominator: new(big.Int).Set(f.denominator),
		}
	}
	left := new(big.Int).Mul(f.numerator, other.denominator)
	right := new(big.Int).Mul(other.numerator, f.denominator)
	return &Fraction{
		numerator:   left.Add(left, right),
		denominator: new(big.Int).Mul(f.denominator, other.denominator),
	}
}

// Subtract returns f - other, cross-multiplied, exact.
func (f *Fraction) Subtract(other *Fraction) *Fraction {
	if f.denominator.Cmp(other.denominator) == 0 {
		return &Fraction{
			numerator:   new(big.Int).Sub(f.numerator, other.numerator),
			denominator: new(big.Int).Set(f.denominator),
		}
	}
	left := new(big.Int).Mul(f.numerator, other.denominator)
	right := new(big.Int).Mul(other.numerator, f.denominator)
	return &Fraction{
		numerator:   left.Sub(left, right),
		denominator: new(big.Int).Mul(f.denominator, other.denominator),
	}
}

// Multiply returns f * other.
func (f *Fraction) Multiply(other *Fraction) *Fraction {
	return &Fraction{
		numerator:   new(big.Int).Mul(f.numerator, other.numerator),
		denominator: new(big.Int).Mul(f.denominator, other.denominator),
	}
}

// Divide returns f / other. Panics if other is zero.
func (f *Fraction) Divide(other *Fraction) *Fraction {
	if other.numerator.Sign() == 0 {
		panic("fractions: division by zero")
	}
	return &Fraction{
		numerator:   new(big.Int).Mul(f.numerator, other.denominator),
		denominator: new(big.Int).Mul(f.denominator, other.numerator),
	}
}

// Cmp compares f against other by cross-multiplication, never through
// floating point. It returns -1, 0 or +1.
func (f *Fraction) Cmp(other *Fraction) int {
	left := new(big.Int).Mul(f.numerator, other.denominator)
	right := new(big.Int).Mul(other.numerator, f.denominator)
	// a negative denominator flips the comparison twice, once per side
	if f.denominator.Sign()*other.denominator.Sign() < 0 {
		return -left.Cmp(right)
	}
	return left.Cmp(right)
}

// LessThan reports f < other.
func (f *Fraction) LessThan(other *Fraction) bool { return f.Cmp(other) < 0 }

// EqualTo reports f == other.
func (f *Fraction) EqualTo(other *Fraction) bool { return f.Cmp(other) == 0 }

// GreaterThan reports f > other.
func (f *Fraction) GreaterThan(other *Fraction) bool { return f.Cmp(other) > 0 }

// Sign returns the sign of the fraction.
func (f *Fraction) Sign() int {
	return f.numerator.Sign() * f.denominator.Sign()
}

// roundedQuo returns a/b rounded per r. Truncation is toward zero, RoundUp
// is away from zero and RoundHalfUp resolves ties away from zero.
func roundedQuo(a, b *big.Int, r Rounding) *big.Int {
	q, rem := new(big.Int).QuoRem(a, b, new(big.Int))
	if rem.Sign() == 0 {
		return q
	}
	bump := func() {
		if (a.Sign() < 0) != (b.Sign() < 0) {
			q.Sub(q, one)
		} else {
			q.Add(q, one)
		}
	}
	switch r {
	case RoundDown:
	case RoundUp:
		bump()
	case RoundHalfUp:
		twice := new(big.Int).Abs(rem)
		twice.Lsh(twice, 1)
		if twice.Cmp(new(big.Int).Abs(b)) >= 0 {
			bump()
		}
	}
	return q
}

// ToFixed renders the fraction with exactly places digits after the decimal
// point, rounded per r.
func (f *Fraction) ToFixed(places int, r Rounding) string {
	if places < 0 {
		panic(fmt.Sprintf("fractions: negative places %d", places))
	}
	scaled := new(big.Int).Mul(f.numerator, PowerOfTen(places))
	q := roundedQuo(scaled, f.denominator, r)
	return formatScaled(q, places, false)
}

// ToSignificant renders the fraction with at most significant digits,
// rounded per r, trailing zeros trimmed.
func (f *Fraction) ToSignificant(significant int, r Rounding) string {
	if significant <= 0 {
		panic(fmt.Sprintf("fractions: significant digits must be positive, got %d", significant))
	}
	if f.numerator.Sign() == 0 {
		return "0"
	}

	absNum := new(big.Int).Abs(f.numerator)
	absDen := new(big.Int).Abs(f.denominator)

	// shift is the count of decimal places needed so the scaled quotient
	// carries exactly `significant` digits
	var shift int
	intPart := new(big.Int).Quo(absNum, absDen)
	if intPart.Sign() > 0 {
		shift = significant - len(intPart.String())
	} else {
		// |f| < 1: walk out past the leading zeros
		m := 0
		probe := new(big.Int).Set(absNum)
		for probe.Cmp(absDen) < 0 {
			probe.Mul(probe, ten)
			m++
		}
		shift = significant + m - 1
	}

	var q *big.Int
	if shift >= 0 {
		q = roundedQuo(new(big.Int).Mul(f.numerator, PowerOfTen(shift)), f.denominator, r)
	} else {
		q = roundedQuo(f.numerator, new(big.Int).Mul(f.denominator, PowerOfTen(-shift)), r)
		return formatScaled(q, 0, false) + strings.Repeat("0", -shift)
	}
	return formatScaled(q, shift, true)
}

// String implements fmt.Stringer as numerator/denominator.
func (f *Fraction) String() string {
	return f.numerator.String() + "/" + f.denominator.String()
}

// formatScaled renders value * 10^-places as a decimal string. When trim is
// set, trailing fractional zeros (and a bare trailing point) are removed.
func formatScaled(value *big.Int, places int, trim bool) string {
	digits := new(big.Int).Abs(value).String()
	neg := value.Sign() < 0

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	if places == 0 {
		sb.WriteString(digits)
		return sb.String()
	}
	if len(digits) <= places {
		sb.WriteString("0.")
		sb.WriteString(strings.Repeat("0", places-len(digits)))
		sb.WriteString(digits)
	} else {
		sb.WriteString(digits[:len(digits)-places])
		sb.WriteByte('.')
		sb.WriteString(digits[len(digits)-places:])
	}
	out := sb.String()
	if trim && strings.Contains(out, ".") {
		out = strings.TrimRight(out, "0")
		out = strings.TrimSuffix(out, ".")
	}
	return out
}

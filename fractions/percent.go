package fractions

import "math/big"

var oneHundred = NewInt(100)

// Percent is a Fraction read as a share of one: 5/1000 is 0.5%. There is no
// implicit division by 100 anywhere; only the display conversions scale.
type Percent struct {
	Fraction
}

// NewPercent builds a percent from numerator/denominator.
func NewPercent(numerator, denominator *big.Int) *Percent {
	return &Percent{Fraction: *NewFraction(numerator, denominator)}
}

// NewPercentFromBps builds a percent from basis points (1 bps = 0.01%).
func NewPercentFromBps(bps int64) *Percent {
	return &Percent{Fraction: *NewFraction(big.NewInt(bps), big.NewInt(10_000))}
}

// Add returns p + other as a Percent.
func (p *Percent) Add(other *Percent) *Percent {
	return &Percent{Fraction: *p.Fraction.Add(&other.Fraction)}
}

// Subtract returns p - other as a Percent.
func (p *Percent) Subtract(other *Percent) *Percent {
	return &Percent{Fraction: *p.Fraction.Subtract(&other.Fraction)}
}

// ToSignificant renders the percent scaled by 100, e.g. "0.3" for 3/1000.
func (p *Percent) ToSignificant(significant int, r Rounding) string {
	return p.Fraction.Multiply(oneHundred).ToSignificant(significant, r)
}

// ToFixed renders the percent scaled by 100 with a fixed number of places.
func (p *Percent) ToFixed(places int, r Rounding) string {
	return p.Fraction.Multiply(oneHundred).ToFixed(places, r)
}

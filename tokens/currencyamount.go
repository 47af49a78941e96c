package tokens

import (
	"fmt"
	"math/big"

	"github.com/defistate/clmm-sdk-go/fractions"
)

// CurrencyAmount is an amount of a specific currency held as an exact
// fraction of raw (smallest-denomination) units. The currency is fixed at
// construction; arithmetic between two amounts requires equal currencies.
type CurrencyAmount struct {
	currency Currency
	fractions.Fraction
}

// FromRawAmount builds an amount from raw units, e.g. wei.
func FromRawAmount(currency Currency, raw *big.Int) *CurrencyAmount {
	return &CurrencyAmount{
		currency: currency,
		Fraction: *fractions.FromBig(raw),
	}
}

// FromFractionalAmount builds an amount from a raw-unit fraction. This keeps
// intermediate results of quoting exact instead of truncating early.
func FromFractionalAmount(currency Currency, numerator, denominator *big.Int) *CurrencyAmount {
	return &CurrencyAmount{
		currency: currency,
		Fraction: *fractions.NewFraction(numerator, denominator),
	}
}

// Currency returns the amount's currency.
func (a *CurrencyAmount) Currency() Currency { return a.currency }

// Add returns a + other. The currencies must match.
func (a *CurrencyAmount) Add(other *CurrencyAmount) (*CurrencyAmount, error) {
	if !a.currency.Equal(other.currency) {
		return nil, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, a.currency.Symbol(), other.currency.Symbol())
	}
	return &CurrencyAmount{currency: a.currency, Fraction: *a.Fraction.Add(&other.Fraction)}, nil
}

// Subtract returns a - other. The currencies must match.
func (a *CurrencyAmount) Subtract(other *CurrencyAmount) (*CurrencyAmount, error) {
	if !a.currency.Equal(other.currency) {
		return nil, fmt.Errorf("%w: %s - %s", ErrCurrencyMismatch, a.currency.Symbol(), other.currency.Symbol())
	}
	return &CurrencyAmount{currency: a.currency, Fraction: *a.Fraction.Subtract(&other.Fraction)}, nil
}

// Multiply scales the amount by an exact fraction.
func (a *CurrencyAmount) Multiply(f *fractions.Fraction) *CurrencyAmount {
	return &CurrencyAmount{currency: a.currency, Fraction: *a.Fraction.Multiply(f)}
}

// Divide divides the amount by an exact fraction.
func (a *CurrencyAmount) Divide(f *fractions.Fraction) *CurrencyAmount {
	return &CurrencyAmount{currency: a.currency, Fraction: *a.Fraction.Divide(f)}
}

// decimalScale returns the fraction 1/10^decimals used for display.
func (a *CurrencyAmount) decimalScale() *fractions.Fraction {
	return fractions.FromBig(fractions.PowerOfTen(int(a.currency.Decimals())))
}

// ToSignificant renders the amount in whole-currency units.
func (a *CurrencyAmount) ToSignificant(significant int, r fractions.Rounding) string {
	return a.Fraction.Divide(a.decimalScale()).ToSignificant(significant, r)
}

// ToFixed renders the amount in whole-currency units with fixed places.
func (a *CurrencyAmount) ToFixed(places int, r fractions.Rounding) string {
	return a.Fraction.Divide(a.decimalScale()).ToFixed(places, r)
}

// ToExact renders the amount with full precision up to the currency's
// decimal count, truncating anything beyond it.
func (a *CurrencyAmount) ToExact() string {
	return a.ToFixed(int(a.currency.Decimals()), fractions.RoundDown)
}

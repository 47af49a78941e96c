package tokens

import (
	"fmt"
	"math/big"

	"github.com/defistate/clmm-sdk-go/fractions"
)

// Price is an exchange rate between two currencies, held as the exact raw
// ratio quote-units per base-unit. Display conversions rescale by the
// decimal difference between the two currencies.
type Price struct {
	base  Currency
	quote Currency
	fractions.Fraction // raw quote units / raw base units
}

// NewPrice builds a price from a base amount (denominator) and the quote
// amount it exchanges for (numerator), both in raw units.
func NewPrice(base, quote Currency, denominator, numerator *big.Int) *Price {
	return &Price{
		base:  base,
		quote: quote,
		Fraction: *fractions.NewFraction(numerator, denominator),
	}
}

// Base returns the currency the price is quoted against.
func (p *Price) Base() Currency { return p.base }

// QuoteCurrency returns the currency the price is denominated in.
func (p *Price) QuoteCurrency() Currency { return p.quote }

// Invert flips the price to base-per-quote.
func (p *Price) Invert() *Price {
	return &Price{base: p.quote, quote: p.base, Fraction: *p.Fraction.Invert()}
}

// Multiply chains two prices: p (A->B) times other (B->C) yields A->C.
// The intermediate currencies must line up.
func (p *Price) Multiply(other *Price) (*Price, error) {
	if !p.quote.Equal(other.base) {
		return nil, fmt.Errorf("%w: cannot chain %s/%s price into %s/%s",
			ErrCurrencyMismatch, p.quote.Symbol(), p.base.Symbol(), other.quote.Symbol(), other.base.Symbol())
	}
	return &Price{base: p.base, quote: other.quote, Fraction: *p.Fraction.Multiply(&other.Fraction)}, nil
}

// Quote converts an amount of the base currency into the quote currency at
// this price, exactly (no truncation).
func (p *Price) Quote(amount *CurrencyAmount) (*CurrencyAmount, error) {
	if !amount.Currency().Equal(p.base) {
		return nil, fmt.Errorf("%w: quoting %s with a %s/%s price",
			ErrCurrencyMismatch, amount.Currency().Symbol(), p.quote.Symbol(), p.base.Symbol())
	}
	scaled := p.Fraction.Multiply(&amount.Fraction)
	return &CurrencyAmount{currency: p.quote, Fraction: *scaled}, nil
}

// adjustedForDecimals rescales the raw ratio into whole-unit terms.
func (p *Price) adjustedForDecimals() *fractions.Fraction {
	scale := fractions.NewFraction(
		fractions.PowerOfTen(int(p.base.Decimals())),
		fractions.PowerOfTen(int(p.quote.Decimals())),
	)
	return p.Fraction.Multiply(scale)
}

// ToSignificant renders the price in whole-unit terms.
func (p *Price) ToSignificant(significant int, r fractions.Rounding) string {
	return p.adjustedForDecimals().ToSignificant(significant, r)
}

// ToFixed renders the price in whole-unit terms with fixed places.
func (p *Price) ToFixed(places int, r fractions.Rounding) string {
	return p.adjustedForDecimals().ToFixed(places, r)
}

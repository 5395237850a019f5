package catalog

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// OutOfStockToken is the price field value that marks a listing as unavailable.
const OutOfStockToken = "out-of-stock"

const priceDecimals = 2

// Non-zero prices must fit a float64: at most maxIntegerDigits digits before
// the point and an exponent no lower than minExponent.
const (
	maxIntegerDigits = 309
	minExponent      = -330
)

// Price is either an in-stock amount or out of stock. The zero value is out of stock.
type Price struct {
	amount  decimal.Decimal
	inStock bool
}

func InStock(amount decimal.Decimal) Price {
	return Price{amount: amount, inStock: true}
}

func OutOfStock() Price {
	return Price{}
}

// ParsePrice reads a price field: OutOfStockToken or a non-negative decimal literal.
func ParsePrice(text string) (Price, error) {
	if text == OutOfStockToken {
		return OutOfStock(), nil
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	if d.IsNegative() {
		return Price{}, fmt.Errorf("%w: %q is negative", ErrInvalidPrice, text)
	}
	if d.IsZero() {
		// drop the exponent of literals like 0e-99999999
		return InStock(decimal.Zero), nil
	}
	if !finite(d) {
		return Price{}, fmt.Errorf("%w: %q is out of range", ErrInvalidPrice, text)
	}
	return InStock(d), nil
}

func finite(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp < minExponent || d.NumDigits()+exp > maxIntegerDigits {
		return false
	}
	f, _ := d.Float64()
	return !math.IsInf(f, 0)
}

func (p Price) Available() bool { return p.inStock }

// Amount returns the price and true, or zero and false when out of stock.
func (p Price) Amount() (decimal.Decimal, bool) {
	return p.amount, p.inStock
}

func (p Price) Equal(o Price) bool {
	if p.inStock != o.inStock {
		return false
	}
	return !p.inStock || p.amount.Equal(o.amount)
}

func (p Price) String() string {
	if !p.inStock {
		return "out of stock"
	}
	return p.amount.StringFixed(priceDecimals)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.inStock {
		return []byte("null"), nil
	}
	return json.Marshal(p.amount.StringFixed(priceDecimals))
}

package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type CheapestStatus int

const (
	NotFound CheapestStatus = iota
	OutOfStockEverywhere
	Found
)

func (s CheapestStatus) String() string {
	switch s {
	case Found:
		return "found"
	case OutOfStockEverywhere:
		return "out_of_stock"
	default:
		return "not_found"
	}
}

// Cheapest is the result of a cheapest-price lookup. Price and Locations are
// set only when Status is Found.
type Cheapest struct {
	Status    CheapestStatus
	Price     decimal.Decimal
	Locations []Location
}

func (r Cheapest) MarshalJSON() ([]byte, error) {
	out := struct {
		Status    string     `json:"status"`
		Price     string     `json:"price,omitempty"`
		Locations []Location `json:"locations,omitempty"`
	}{Status: r.Status.String()}

	if r.Status == Found {
		out.Price = r.PriceString()
		out.Locations = r.Locations
	}
	return json.Marshal(out)
}

// PriceString formats Price the way listings are formatted.
func (r Cheapest) PriceString() string {
	return InStock(r.Price).String()
}

// Cheapest finds the lowest in-stock price of product across all stores.
// Ties compare exactly; tied locations are reported in catalog order
// (chains, then stores, in insertion order).
func (c *Catalog) Cheapest(product string) Cheapest {
	var (
		seen    bool
		inStock bool
		lowest  decimal.Decimal
		locs    []Location
	)

	for _, ch := range c.chains {
		for _, s := range ch.stores {
			i, ok := s.byName[product]
			if !ok {
				continue
			}
			seen = true

			amount, ok := s.listings[i].Price.Amount()
			if !ok {
				continue
			}

			switch {
			case !inStock || amount.LessThan(lowest):
				inStock = true
				lowest = amount
				locs = append(locs[:0], Location{Chain: ch.name, Store: s.name})
			case amount.Equal(lowest):
				locs = append(locs, Location{Chain: ch.name, Store: s.name})
			}
		}
	}

	switch {
	case !seen:
		return Cheapest{Status: NotFound}
	case !inStock:
		return Cheapest{Status: OutOfStockEverywhere}
	default:
		return Cheapest{Status: Found, Price: lowest, Locations: locs}
	}
}

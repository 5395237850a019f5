// Package catalog indexes product prices by retail chain and store location
// and answers the read-only queries served by the shell and the HTTP API.
package catalog

import (
	"errors"
	"fmt"
	"iter"
	"sort"
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrInvalidPrice    = errors.New("invalid price format")
	ErrUnknownChain    = errors.New("unknown chain name")
	ErrUnknownStore    = errors.New("unknown store")
)

// RecordFields is the number of fields in a record: chain, store, product, price.
const RecordFields = 4

// Catalog maps chain -> store -> ordered listings. Chains and stores keep
// first-insertion order. A Catalog is not safe for concurrent mutation;
// read methods never mutate.
type Catalog struct {
	chains []*chain
	byName map[string]*chain
}

type Stats struct {
	Chains   int `json:"chains"`
	Stores   int `json:"stores"`
	Listings int `json:"listings"`
}

func New() *Catalog {
	return &Catalog{byName: map[string]*chain{}}
}

// Load upserts records in order. The first malformed record aborts the load
// with ErrMalformedRecord; records before it have already been applied, so
// callers must treat the catalog as unusable after an error.
func (c *Catalog) Load(records []Record) error {
	for _, rec := range records {
		if len(rec.Fields) != RecordFields {
			return fmt.Errorf("%w: line %d: want %d fields, got %d",
				ErrMalformedRecord, rec.Line, RecordFields, len(rec.Fields))
		}

		p, err := ParsePrice(rec.Fields[3])
		if err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrMalformedRecord, rec.Line, err)
		}

		c.upsert(rec.Fields[0], rec.Fields[1], rec.Fields[2], p)
	}
	return nil
}

// AddProduct upserts a single listing, creating the chain and store if needed.
// On ErrInvalidPrice the catalog is left unchanged.
func (c *Catalog) AddProduct(chainName, storeName, product, priceField string) error {
	p, err := ParsePrice(priceField)
	if err != nil {
		return err
	}
	c.upsert(chainName, storeName, product, p)
	return nil
}

func (c *Catalog) upsert(chainName, storeName, product string, p Price) {
	ch, ok := c.byName[chainName]
	if !ok {
		ch = newChain(chainName)
		c.byName[chainName] = ch
		c.chains = append(c.chains, ch)
	}
	ch.store(storeName).upsert(product, p)
}

// Chains yields chain names in first-insertion order.
func (c *Catalog) Chains() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, ch := range c.chains {
			if !yield(ch.name) {
				return
			}
		}
	}
}

func (c *Catalog) Stores(chainName string) ([]string, error) {
	ch, ok := c.byName[chainName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChain, chainName)
	}

	out := make([]string, 0, len(ch.stores))
	for _, s := range ch.stores {
		out = append(out, s.name)
	}
	return out, nil
}

// Selection returns a copy of the listings of one store in first-seen order.
func (c *Catalog) Selection(chainName, storeName string) ([]Listing, error) {
	ch, ok := c.byName[chainName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChain, chainName)
	}
	s, ok := ch.byName[storeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q in chain %q", ErrUnknownStore, storeName, chainName)
	}

	out := make([]Listing, len(s.listings))
	copy(out, s.listings)
	return out, nil
}

// Products returns every distinct product name, sorted ascending.
func (c *Catalog) Products() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 16)

	for _, ch := range c.chains {
		for _, s := range ch.stores {
			for _, l := range s.listings {
				if _, dup := seen[l.Name]; dup {
					continue
				}
				seen[l.Name] = struct{}{}
				out = append(out, l.Name)
			}
		}
	}

	sort.Strings(out)
	return out
}

func (c *Catalog) Stats() Stats {
	st := Stats{Chains: len(c.chains)}
	for _, ch := range c.chains {
		st.Stores += len(ch.stores)
		for _, s := range ch.stores {
			st.Listings += len(s.listings)
		}
	}
	return st
}

package catalog

import "encoding/json"

// Record is one raw input record: the fields of a single dataset line.
// Line is 1-based, or 0 when the source has no line numbers.
type Record struct {
	Line   int
	Fields []string
}

type Listing struct {
	Name  string
	Price Price
}

func (l Listing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string `json:"name"`
		Price   Price  `json:"price"`
		InStock bool   `json:"in_stock"`
	}{l.Name, l.Price, l.Price.Available()})
}

// Location identifies one store of one chain.
type Location struct {
	Chain string `json:"chain"`
	Store string `json:"store"`
}

// store keeps listings in first-seen order; byName indexes into listings.
type store struct {
	name     string
	listings []Listing
	byName   map[string]int
}

func newStore(name string) *store {
	return &store{name: name, byName: map[string]int{}}
}

func (s *store) upsert(product string, p Price) {
	if i, ok := s.byName[product]; ok {
		s.listings[i].Price = p
		return
	}
	s.byName[product] = len(s.listings)
	s.listings = append(s.listings, Listing{Name: product, Price: p})
}

type chain struct {
	name   string
	stores []*store
	byName map[string]*store
}

func newChain(name string) *chain {
	return &chain{name: name, byName: map[string]*store{}}
}

func (c *chain) store(name string) *store {
	if s, ok := c.byName[name]; ok {
		return s
	}
	s := newStore(name)
	c.byName[name] = s
	c.stores = append(c.stores, s)
	return s
}

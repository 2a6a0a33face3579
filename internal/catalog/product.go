package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
}

// UnmarshalJSON also accepts price and quantity stored as numeric strings,
// as older data files hold them ("12.5", "3").
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	var raw struct {
		plain
		Price    json.Number `json:"price"`
		Quantity json.Number `json:"quantity"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*p = Product(raw.plain)

	if raw.Price != "" {
		price, ok := asNumber(raw.Price)
		if !ok {
			return fmt.Errorf("product %d: price %q is not a number", p.ID, raw.Price.String())
		}
		p.Price = price
	}
	if raw.Quantity != "" {
		qty, ok := asInteger(raw.Quantity)
		if !ok {
			return fmt.Errorf("product %d: quantity %q is not an integer", p.ID, raw.Quantity.String())
		}
		p.Quantity = qty
	}
	return nil
}

// Catalog is the whole product collection keyed by id.
type Catalog map[int]Product

// NextID returns the id the next created product gets. It is derived from
// the collection size, not from the largest id in use.
func (c Catalog) NextID() int {
	return len(c) + 1
}

func (c Catalog) IDs() []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// MarshalJSON writes the catalog as an object ordered by numeric id, so
// "10" follows "9" instead of "1".
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, id := range c.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(id)))
		buf.WriteByte(':')

		b, err := json.Marshal(c[id])
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Fields is a validated set of product fields. Nil pointers are fields the
// caller did not send. Description is tracked separately because an
// explicit null is a value.
type Fields struct {
	Name           *string
	Description    *string
	HasDescription bool
	Price          *float64
	Quantity       *int64
}

// Apply overwrites the fields present in f and leaves the rest of p alone.
func (f Fields) Apply(p Product) Product {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.HasDescription {
		p.Description = f.Description
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Quantity != nil {
		p.Quantity = *f.Quantity
	}
	return p
}

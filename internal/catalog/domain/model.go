package domain

// ProductSpec is a purchasable variant of a Product (size, flavor, ...).
// It is owned exclusively by its Product.
type ProductSpec struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Product is a catalog entry. Price is the default unit price when the buyer
// names no spec. The JSON shape is the exchange contract shared with the
// backup document, so tags stay camelCase.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Price       float64       `json:"price"`
	Specs       []ProductSpec `json:"specs"`
	Image       string        `json:"image,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Normalize repairs a product slice decoded from an external blob: nil
// slices become empty, negative prices are clamped to zero, and specs with
// duplicate ids within one product are dropped (first wins).
func Normalize(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Price < 0 {
			p.Price = 0
		}
		specs := make([]ProductSpec, 0, len(p.Specs))
		seen := make(map[string]struct{}, len(p.Specs))
		for _, spec := range p.Specs {
			if spec.ID != "" {
				if _, dup := seen[spec.ID]; dup {
					continue
				}
				seen[spec.ID] = struct{}{}
			}
			if spec.Price < 0 {
				spec.Price = 0
			}
			specs = append(specs, spec)
		}
		p.Specs = specs
		out = append(out, p)
	}
	return out
}

package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Professional Difficulty = "Professional"
)

// Difficulties lists the difficulty levels in the order they are offered
// to the user.
var Difficulties = []Difficulty{Beginner, Intermediate, Professional}

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Professional:
		return true
	}
	return false
}

type Product struct {
	ID          int
	Name        string
	Price       int // minor currency units
	Image       string
	Category    string
	Material    string
	Difficulty  Difficulty
	Technique   string
	Description string
	Features    []string
	InStock     bool
}

// A Catalog is the fixed list of products loaded once at start.
type Catalog struct {
	products []Product
}

func NewCatalog(ps []Product) Catalog {
	products := make([]Product, len(ps))
	copy(products, ps)
	return Catalog{products}
}

// Products returns a copy of the catalog in catalog order.
func (c Catalog) Products() []Product {
	ps := make([]Product, len(c.products))
	copy(ps, c.products)
	return ps
}

func (c Catalog) Len() int {
	return len(c.products)
}

func (c Catalog) Product(id int) (Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

const maxRelated = 3

// Related returns up to three other products of the same category.
func (c Catalog) Related(id int) ([]Product, error) {
	p, err := c.Product(id)
	if err != nil {
		return nil, err
	}

	var related []Product
	for _, v := range c.products {
		if len(related) == maxRelated {
			break
		}
		if v.Category == p.Category && v.ID != p.ID {
			related = append(related, v)
		}
	}
	return related, nil
}

// Materials returns the distinct materials in catalog order.
func (c Catalog) Materials() []string {
	return c.distinct(func(p Product) string { return p.Material })
}

// Techniques returns the distinct techniques in catalog order.
func (c Catalog) Techniques() []string {
	return c.distinct(func(p Product) string { return p.Technique })
}

func (c Catalog) distinct(value func(Product) string) []string {
	seen := make(map[string]struct{}, len(c.products))
	var vs []string
	for _, p := range c.products {
		v := value(p)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		vs = append(vs, v)
	}
	return vs
}

package catalog

import (
	"context"

	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/port"
)

var _ port.CatalogLoader = (*StaticLoader)(nil)

const (
	imageYarn  = "https://cdn.poehali.dev/projects/4cfb1d4b-4e27-4c8f-8e6a-3c36017e202d/files/467d5ab2-1d42-4212-955a-ec2658bd77ab.jpg"
	imageFloss = "https://cdn.poehali.dev/projects/4cfb1d4b-4e27-4c8f-8e6a-3c36017e202d/files/77fcd852-ed40-4235-b338-2393a2e155e1.jpg"
	imageTools = "https://cdn.poehali.dev/projects/4cfb1d4b-4e27-4c8f-8e6a-3c36017e202d/files/2d43fdc1-78d3-417c-8275-43cb238965fd.jpg"
)

// A StaticLoader serves the built-in catalog.
type StaticLoader struct{}

func NewStaticLoader() StaticLoader {
	return StaticLoader{}
}

func (StaticLoader) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Builtin(), nil
}

// Builtin returns the six products the store ships with.
func Builtin() []domain.Product {
	return []domain.Product{
		{
			ID:         1,
			Name:       `Yarn set "Rainbow"`,
			Price:      1299,
			Image:      imageYarn,
			Category:   "Knitting",
			Material:   "Yarn",
			Difficulty: domain.Beginner,
			Technique:  "Knitting",
			Description: "A bright set of soft acrylic yarn in 10 rainbow colours. " +
				"Ideal for kids' clothes, blankets and toys.",
			Features: []string{
				"10 skeins, 50 g each",
				"100% acrylic",
				"150 m per skein",
				"Recommended needles: 3-4 mm",
			},
			InStock: true,
		},
		{
			ID:         2,
			Name:       `Embroidery kit "Flowers"`,
			Price:      899,
			Image:      imageFloss,
			Category:   "Embroidery",
			Material:   "Floss",
			Difficulty: domain.Intermediate,
			Technique:  "Cross-stitch",
			Description: "A complete cross-stitch kit with a floral pattern. " +
				"Includes canvas, chart, threads and needles.",
			Features: []string{
				"Aida 14 canvas",
				"25 floss colours",
				"Colour chart",
				"Finished size: 30x40 cm",
			},
			InStock: true,
		},
		{
			ID:         3,
			Name:       "Professional tool kit",
			Price:      2499,
			Image:      imageTools,
			Category:   "Tools",
			Material:   "Assorted",
			Difficulty: domain.Professional,
			Technique:  "Universal",
			Description: "A professional tool kit for every kind of needlework. " +
				"Quality materials and handy storage.",
			Features: []string{
				"3 kinds of scissors",
				"Needles for different techniques",
				"Pins and thimble",
				"Organiser case",
			},
			InStock: true,
		},
		{
			ID:         4,
			Name:       "Patchwork fabric, 10 colours",
			Price:      1599,
			Image:      imageTools,
			Category:   "Sewing",
			Material:   "Fabric",
			Difficulty: domain.Intermediate,
			Technique:  "Patchwork",
			Description: "10 cuts of cotton fabric with coordinated prints " +
				"for beautiful patchwork.",
			Features: []string{
				"100% cotton",
				"10 cuts of 50x50 cm",
				"Matched colour combinations",
				"Colourfast",
			},
			InStock: true,
		},
		{
			ID:          5,
			Name:        `Japanese seed beads "Pastel"`,
			Price:       799,
			Image:       imageTools,
			Category:    "Beadwork",
			Material:    "Beads",
			Difficulty:  domain.Beginner,
			Technique:   "Beadwork",
			Description: "Premium Japanese seed beads in 8 pastel shades.",
			Features: []string{
				"Size 11/0",
				"8 pastel colours",
				"10 g of each colour",
				"Even calibre",
			},
			InStock: true,
		},
		{
			ID:          6,
			Name:        "Crochet hooks, set of 12",
			Price:       599,
			Image:       imageYarn,
			Category:    "Knitting",
			Material:    "Assorted",
			Difficulty:  domain.Beginner,
			Technique:   "Crochet",
			Description: "A set of 12 crochet hooks from 2 to 8 mm with ergonomic handles.",
			Features: []string{
				"Sizes 2 mm to 8 mm",
				"Ergonomic handles",
				"Aluminium hooks",
				"Carry case",
			},
			InStock: false,
		},
	}
}

package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	prodex "github.com/kailas-cloud/prodex/pkg/sdk"
)

var categories = []string{
	"Electronics", "Clothing", "Books", "Home & Garden", "Sports",
	"Toys", "Beauty", "Health", "Automotive", "Jewelry",
}

var locations = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
	"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose",
}

var allTags = []string{
	"new", "sale", "popular", "trending", "limited",
	"exclusive", "premium", "budget", "featured", "best-seller",
	"discounted", "outlet", "clearance", "seasonal", "holiday",
}

var adjectives = []string{
	"Ergonomic", "Rustic", "Sleek", "Handcrafted", "Refined", "Practical",
	"Gorgeous", "Tasty", "Incredible", "Luxurious", "Compact", "Durable",
}

var materials = []string{
	"Wooden", "Steel", "Cotton", "Granite", "Bamboo", "Leather",
	"Plastic", "Ceramic", "Rubber", "Frozen", "Fresh", "Bronze",
}

var nouns = []string{
	"Chair", "Lamp", "Keyboard", "Shirt", "Gloves", "Table", "Shoes",
	"Ball", "Bike", "Watch", "Headphones", "Backpack", "Mug", "Blender",
}

var descriptions = []string{
	"Built for everyday use with a focus on comfort and reliability.",
	"A versatile companion for work, travel and weekends alike.",
	"Carefully designed to last, with materials that age gracefully.",
	"Lightweight and easy to clean, made for busy households.",
	"Our best-selling design, refreshed with improved finishing.",
	"Engineered for performance without compromising on style.",
}

// Generator produces random catalog products from fixed word lists.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a generator. The same seed yields the same products.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Product returns one random product: price in [10, 1000] with two decimals,
// stock in [0, 100] and two to five distinct tags.
func (g *Generator) Product() prodex.ProductInput {
	return prodex.ProductInput{
		Name:        fmt.Sprintf("%s %s %s", pick(g.rnd, adjectives), pick(g.rnd, materials), pick(g.rnd, nouns)),
		Description: pick(g.rnd, descriptions),
		Category:    pick(g.rnd, categories),
		Location:    pick(g.rnd, locations),
		Price:       math.Round((10+g.rnd.Float64()*990)*100) / 100,
		Stock:       g.rnd.IntN(101),
		Tags:        g.tags(2 + g.rnd.IntN(4)),
	}
}

// Products returns n random products.
func (g *Generator) Products(n int) []prodex.ProductInput {
	out := make([]prodex.ProductInput, n)
	for i := range out {
		out[i] = g.Product()
	}
	return out
}

func (g *Generator) tags(n int) []string {
	idx := g.rnd.Perm(len(allTags))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = allTags[j]
	}
	return out
}

func pick(r *rand.Rand, from []string) string {
	return from[r.IntN(len(from))]
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	prodex "github.com/kailas-cloud/prodex/pkg/sdk"
)

// fixtureFile is the YAML layout accepted by the load command.
type fixtureFile struct {
	Products []fixtureProduct `yaml:"products"`
}

type fixtureProduct struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Location    string   `yaml:"location"`
	Price       float64  `yaml:"price"`
	Stock       int      `yaml:"stock"`
	Tags        []string `yaml:"tags"`
}

// LoadFixtures reads products from a YAML file.
func LoadFixtures(path string) ([]prodex.ProductInput, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}

	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	if len(f.Products) == 0 {
		return nil, fmt.Errorf("fixtures %s: no products", path)
	}

	out := make([]prodex.ProductInput, len(f.Products))
	for i, p := range f.Products {
		out[i] = prodex.ProductInput{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Location:    p.Location,
			Price:       p.Price,
			Stock:       p.Stock,
			Tags:        p.Tags,
		}
	}
	return out, nil
}

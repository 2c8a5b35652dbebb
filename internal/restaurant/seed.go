package restaurant

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Restaurants []seedRestaurant `yaml:"restaurants"`
}

type seedRestaurant struct {
	Name       string  `yaml:"name"`
	City       string  `yaml:"city"`
	Cuisine    string  `yaml:"cuisine"`
	Latitude   float64 `yaml:"latitude"`
	Longitude  float64 `yaml:"longitude"`
	Rating     float64 `yaml:"rating"`
	PriceRange int     `yaml:"price_range"`
}

// ReadSeed decodes a YAML restaurant list.
func ReadSeed(r io.Reader) ([]Restaurant, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	out := make([]Restaurant, 0, len(f.Restaurants))
	for _, s := range f.Restaurants {
		price := s.PriceRange
		if price == 0 {
			price = 2
		}
		out = append(out, Restaurant{
			Name:        s.Name,
			City:        s.City,
			CuisineType: s.Cuisine,
			Latitude:    s.Latitude,
			Longitude:   s.Longitude,
			Rating:      s.Rating,
			PriceRange:  price,
		})
	}
	return out, nil
}

func ReadSeedFile(path string) ([]Restaurant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSeed(f)
}

// Seed imports every restaurant and returns how many were stored.
func (s *Service) Seed(ctx context.Context, restaurants []Restaurant) (int, error) {
	for i := range restaurants {
		if err := s.Import(ctx, &restaurants[i]); err != nil {
			return i, fmt.Errorf("seed %q: %w", restaurants[i].Name, err)
		}
	}
	return len(restaurants), nil
}

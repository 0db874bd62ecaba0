package domain

import (
	"errors"
	"slices"
)

var ErrUnknownDimension = errors.New("unknown filter dimension")

type Dimension string

const (
	DimensionMaterial   Dimension = "material"
	DimensionDifficulty Dimension = "difficulty"
	DimensionTechnique  Dimension = "technique"
)

func ParseDimension(s string) (Dimension, error) {
	d := Dimension(s)
	switch d {
	case DimensionMaterial, DimensionDifficulty, DimensionTechnique:
		return d, nil
	}
	return "", ErrUnknownDimension
}

// A FilterSelection holds the active values per dimension.
// An empty dimension imposes no constraint.
//
// FilterSelection is a value: Toggle and Clear return a new selection and
// never touch the receiver's slices.
type FilterSelection struct {
	Materials    []string
	Difficulties []string
	Techniques   []string
}

func (s FilterSelection) Toggle(d Dimension, value string) (FilterSelection, error) {
	switch d {
	case DimensionMaterial:
		s.Materials = toggle(s.Materials, value)
	case DimensionDifficulty:
		s.Difficulties = toggle(s.Difficulties, value)
	case DimensionTechnique:
		s.Techniques = toggle(s.Techniques, value)
	default:
		return s, ErrUnknownDimension
	}
	return s, nil
}

func (FilterSelection) Clear() FilterSelection {
	return FilterSelection{}
}

func (s FilterSelection) Empty() bool {
	return len(s.Materials) == 0 &&
		len(s.Difficulties) == 0 &&
		len(s.Techniques) == 0
}

// Match reports whether p satisfies every non-empty dimension.
func (s FilterSelection) Match(p Product) bool {
	return matchDimension(s.Materials, p.Material) &&
		matchDimension(s.Difficulties, string(p.Difficulty)) &&
		matchDimension(s.Techniques, p.Technique)
}

// VisibleProducts returns the catalog products matching s in catalog order.
func VisibleProducts(c Catalog, s FilterSelection) []Product {
	var vs []Product
	for _, p := range c.products {
		if s.Match(p) {
			vs = append(vs, p)
		}
	}
	return vs
}

func matchDimension(selected []string, value string) bool {
	return len(selected) == 0 || slices.Contains(selected, value)
}

func toggle(vs []string, value string) []string {
	if i := slices.Index(vs, value); i >= 0 {
		return slices.Delete(slices.Clone(vs), i, i+1)
	}
	return append(slices.Clone(vs), value)
}

package dataset

import (
	"errors"
	"fmt"
	"sort"
)

// Category names a family of measurement workbooks stored under data/<year>/<category>.
type Category string

const (
	CategoryHeavyMetal Category = "HM"
	CategoryPesticide  Category = "Pesticides"
)

// ErrInvalidCategory is returned for any category other than HM or Pesticides.
var ErrInvalidCategory = errors.New("category can only be HM or Pesticides")

// ParseCategory validates a category name. Matching is exact.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryHeavyMetal, CategoryPesticide:
		return Category(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidCategory)
}

// Unknown labels substances with no recorded type or family.
const Unknown = "UNKNOWN"

// Surface is the absolute area of one land-cover class around a site.
type Surface struct {
	Site string
	CLC  int
	Area float64
}

// Substance is a pesticide with its regulatory limit and label sets.
type Substance struct {
	Name     string
	LMR      float64
	HasLMR   bool
	Types    []string
	Families []string
}

// LandCover is one entry of the CLC nomenclature.
type LandCover struct {
	Code  int
	Level int
	Label string
}

// PolygonDistance is one land parcel near a hive with its distance metrics.
type PolygonDistance struct {
	Site   string
	PolyID string
	CLC    int
	Values map[string]float64
}

// DistanceTable holds every polygon row; Metrics lists the value columns in sheet order.
type DistanceTable struct {
	Metrics []string
	Rows    []PolygonDistance
}

// Observation is one (Site, Period) row of a measurement workbook.
// Levels only holds cells that parsed as numbers.
type Observation struct {
	Site   string
	Period string
	Source string
	Levels map[string]float64
}

// PeriodTable is the concatenation of every workbook of one category.
type PeriodTable struct {
	Category   Category
	Substances []string
	Rows       []Observation
	Files      []string
	// Skipped lists non-blank level cells that did not parse as numbers.
	Skipped []SkippedCell
}

// SkippedCell is a level cell read as "not measured" because its text is not a number.
type SkippedCell struct {
	Site      string
	Period    string
	Source    string
	Substance string
	Raw       string
}

// PeriodKey identifies a sampling batch at a site.
type PeriodKey struct {
	Site   string
	Period string
}

// Duplicate is a (Site, Period) pair reported by more than one row.
type Duplicate struct {
	PeriodKey
	Sources []string
}

// Duplicates reports (Site, Period) keys that occur in more than one row,
// sorted by site then period. Rows are never merged or dropped.
func (p *PeriodTable) Duplicates() []Duplicate {
	seen := map[PeriodKey][]string{}
	for _, o := range p.Rows {
		k := PeriodKey{Site: o.Site, Period: o.Period}
		seen[k] = append(seen[k], o.Source)
	}
	var out []Duplicate
	for k, src := range seen {
		if len(src) > 1 {
			out = append(out, Duplicate{PeriodKey: k, Sources: src})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Site == out[j].Site {
			return out[i].Period < out[j].Period
		}
		return out[i].Site < out[j].Site
	})
	return out
}

// Sites returns the distinct sites of the table in sorted order.
func (p *PeriodTable) Sites() []string {
	set := map[string]struct{}{}
	for _, o := range p.Rows {
		set[o.Site] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

package pipeline

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/hivetox-cli/internal/dataset"
	"github.com/go-gota/gota/dataframe"
)

// Level is the worst-case value of one substance at one site. Measured is
// false when no period ever reported a numeric value; Value is then 0.
type Level struct {
	Value    float64
	Measured bool
}

// Matrix holds worst-case levels for every (site, substance) of one domain.
type Matrix struct {
	Sites      []string
	Substances []string
	cells      map[string]map[string]Level
}

// Level returns the worst-case level; unknown cells are unmeasured zeros.
func (m *Matrix) Level(site, substance string) Level {
	return m.cells[site][substance]
}

// WorstCase is the per-site maximum over all periods for both domains.
type WorstCase struct {
	Sites       []string
	Pesticides  *Matrix
	HeavyMetals *Matrix
}

// ReduceWorstCase keeps, per site and substance, the maximum level over all
// periods and files. Duplicate (site, period) rows take part like any other
// row, so the larger value wins. The site set is the union of both tables.
func ReduceWorstCase(pesticides, heavyMetals *dataset.PeriodTable) (*WorstCase, error) {
	sites := map[string]struct{}{}
	for _, t := range []*dataset.PeriodTable{pesticides, heavyMetals} {
		if t == nil {
			continue
		}
		for _, o := range t.Rows {
			sites[o.Site] = struct{}{}
		}
	}
	wc := &WorstCase{Sites: make([]string, 0, len(sites))}
	for s := range sites {
		wc.Sites = append(wc.Sites, s)
	}
	sort.Strings(wc.Sites)
	var err error
	if wc.Pesticides, err = reduce(pesticides, wc.Sites); err != nil {
		return nil, err
	}
	if wc.HeavyMetals, err = reduce(heavyMetals, wc.Sites); err != nil {
		return nil, err
	}
	return wc, nil
}

// observations is the long (Site, name, level) table of every numeric cell.
func observations(t *dataset.PeriodTable, keys *keyCodec) dataframe.DataFrame {
	var sites, names []string
	var levels []float64
	for _, o := range t.Rows {
		for name, v := range o.Levels {
			sites = append(sites, keys.token(o.Site))
			names = append(names, keys.token(name))
			levels = append(levels, v)
		}
	}
	return dataframe.New(strs(sites, colSite), strs(names, colName), floats(levels, colLevel))
}

func reduce(t *dataset.PeriodTable, sites []string) (*Matrix, error) {
	m := &Matrix{Sites: sites, cells: map[string]map[string]Level{}}
	if t == nil {
		return m, nil
	}
	m.Substances = append([]string(nil), t.Substances...)
	keys := newKeyCodec()
	long := observations(t, keys)
	if long.Nrow() == 0 {
		return m, nil
	}
	agg, err := groupAggregate(long, []string{colSite, colName}, dataframe.Aggregation_MAX, colLevel)
	if err != nil {
		return nil, fmt.Errorf("worst case %s: %w", t.Category, err)
	}
	aggSites, err := keys.column(agg, colSite)
	if err != nil {
		return nil, fmt.Errorf("worst case %s: %w", t.Category, err)
	}
	names, err := keys.column(agg, colName)
	if err != nil {
		return nil, fmt.Errorf("worst case %s: %w", t.Category, err)
	}
	levels, err := aggregated(agg, colLevel, dataframe.Aggregation_MAX)
	if err != nil {
		return nil, fmt.Errorf("worst case %s: %w", t.Category, err)
	}
	for i, site := range aggSites {
		row := m.cells[site]
		if row == nil {
			row = map[string]Level{}
			m.cells[site] = row
		}
		row[names[i]] = Level{Value: levels[i], Measured: true}
	}
	return m, nil
}

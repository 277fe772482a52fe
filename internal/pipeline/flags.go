package pipeline

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/hivetox-cli/internal/dataset"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// LabelField selects which label set of a substance to explode.
type LabelField int

const (
	Types LabelField = iota
	Families
)

// Membership links a substance to one of its labels.
type Membership struct {
	Substance string
	Label     string
}

// Explode returns one membership per (substance, label), ordered by substance.
// Substances with no label carry dataset.Unknown.
func Explode(substances map[string]dataset.Substance, field LabelField) []Membership {
	names := make([]string, 0, len(substances))
	for n := range substances {
		names = append(names, n)
	}
	sort.Strings(names)
	var out []Membership
	for _, n := range names {
		labels := substances[n].Types
		if field == Families {
			labels = substances[n].Families
		}
		if len(labels) == 0 {
			labels = []string{dataset.Unknown}
		}
		for _, l := range labels {
			out = append(out, Membership{Substance: n, Label: l})
		}
	}
	return out
}

// Limit is the LMR of a substance. Known is false when the limits table
// lists the substance without a value.
type Limit struct {
	Value float64
	Known bool
}

// PesticideLimits keys the pesticide metadata by name.
func PesticideLimits(substances map[string]dataset.Substance) map[string]Limit {
	out := make(map[string]Limit, len(substances))
	for n, s := range substances {
		out[n] = Limit{Value: s.LMR, Known: s.HasLMR}
	}
	return out
}

// HeavyMetalLimits wraps the heavy-metal LMR table.
func HeavyMetalLimits(limits map[string]float64) map[string]Limit {
	out := make(map[string]Limit, len(limits))
	for n, v := range limits {
		out[n] = Limit{Value: v, Known: true}
	}
	return out
}

// Flag is the worst-case state of one substance or group at one site.
type Flag struct {
	Site     string
	Name     string
	Level    float64
	AboveLMR bool
	Present  bool
	Measured bool
}

// SubstanceFlags inner-joins the matrix with limits on substance name and
// derives above_LMR (level > LMR, false without a limit) and present
// (level > 0). Substances missing from limits are returned in dropped.
func SubstanceFlags(m *Matrix, limits map[string]Limit) (flags []Flag, dropped []string, err error) {
	if len(m.Substances) == 0 {
		return nil, nil, nil
	}
	names := make([]string, 0, len(limits))
	for n := range limits {
		names = append(names, n)
	}
	sort.Strings(names)
	values := make([]float64, len(names))
	known := make([]bool, len(names))
	for i, n := range names {
		values[i] = limits[n].Value
		known[i] = limits[n].Known
	}

	matched := map[string]Limit{}
	if len(names) > 0 {
		keys := newKeyCodec()
		measured := dataframe.New(strs(keys.tokens(m.Substances), colName))
		table := dataframe.New(
			strs(keys.tokens(names), colName),
			floats(values, colLMR),
			series.New(known, series.Bool, colKnown),
		)
		joined := measured.InnerJoin(table, colName)
		if joined.Err != nil {
			return nil, nil, fmt.Errorf("join limits: %w", joined.Err)
		}
		jNames, err := keys.column(joined, colName)
		if err != nil {
			return nil, nil, fmt.Errorf("join limits: %w", err)
		}
		jLMR := joined.Col(colLMR).Float()
		jKnown, err := joined.Col(colKnown).Bool()
		if err != nil {
			return nil, nil, fmt.Errorf("join limits: %w", err)
		}
		for i, n := range jNames {
			matched[n] = Limit{Value: jLMR[i], Known: jKnown[i]}
		}
	}

	for _, name := range m.Substances {
		lim, ok := matched[name]
		if !ok {
			dropped = append(dropped, name)
			continue
		}
		for _, site := range m.Sites {
			lv := m.Level(site, name)
			flags = append(flags, Flag{
				Site:     site,
				Name:     name,
				Level:    lv.Value,
				AboveLMR: lim.Known && lv.Value > lim.Value,
				Present:  lv.Value > 0,
				Measured: lv.Measured,
			})
		}
	}
	return flags, dropped, nil
}

// GroupFlags aggregates substance flags per (site, label): the maximum level
// and the logical OR of every boolean. Substances without a membership are
// ignored; the result is ordered by site then label.
func GroupFlags(flags []Flag, memberships []Membership) ([]Flag, error) {
	if len(flags) == 0 || len(memberships) == 0 {
		return nil, nil
	}
	keys := newKeyCodec()
	n := len(flags)
	sites, names := make([]string, n), make([]string, n)
	levels, above, present, measured := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i, f := range flags {
		sites[i] = keys.token(f.Site)
		names[i] = keys.token(f.Name)
		levels[i] = f.Level
		above[i] = flag(f.AboveLMR)
		present[i] = flag(f.Present)
		measured[i] = flag(f.Measured)
	}
	subs, labels := make([]string, len(memberships)), make([]string, len(memberships))
	for i, m := range memberships {
		subs[i] = keys.token(m.Substance)
		labels[i] = keys.token(m.Label)
	}
	flagged := dataframe.New(
		strs(sites, colSite), strs(names, colName), floats(levels, colLevel),
		floats(above, colAbove), floats(present, colPresent), floats(measured, colMeasured),
	)
	exploded := flagged.InnerJoin(dataframe.New(strs(subs, colName), strs(labels, colLabel)), colName)
	if exploded.Err != nil {
		return nil, fmt.Errorf("join memberships: %w", exploded.Err)
	}
	if exploded.Nrow() == 0 {
		return nil, nil
	}

	// MAX over 0/1 columns is a logical OR.
	agg, err := groupAggregate(exploded, []string{colSite, colLabel}, dataframe.Aggregation_MAX,
		colLevel, colAbove, colPresent, colMeasured)
	if err != nil {
		return nil, fmt.Errorf("group flags: %w", err)
	}
	gSites, err := keys.column(agg, colSite)
	if err != nil {
		return nil, fmt.Errorf("group flags: %w", err)
	}
	gLabels, err := keys.column(agg, colLabel)
	if err != nil {
		return nil, fmt.Errorf("group flags: %w", err)
	}
	cols := map[string][]float64{}
	for _, c := range []string{colLevel, colAbove, colPresent, colMeasured} {
		if cols[c], err = aggregated(agg, c, dataframe.Aggregation_MAX); err != nil {
			return nil, fmt.Errorf("group flags: %w", err)
		}
	}

	out := make([]Flag, len(gSites))
	for i := range gSites {
		out[i] = Flag{
			Site:     gSites[i],
			Name:     gLabels[i],
			Level:    cols[colLevel][i],
			AboveLMR: cols[colAbove][i] > 0,
			Present:  cols[colPresent][i] > 0,
			Measured: cols[colMeasured][i] > 0,
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Site == out[j].Site {
			return out[i].Name < out[j].Name
		}
		return out[i].Site < out[j].Site
	})
	return out, nil
}

package pipeline

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/hivetox-cli/internal/frame"
)

// Domains of the to_predict frame, in column order.
const (
	DomainPesticide       = "pesticide"
	DomainPesticideCat    = "pesticide_cat"
	DomainPesticideFamily = "pesticide_family"
	DomainHeavyMetal      = "heavymetal"
)

// Metrics of the to_predict frame, in column order.
const (
	MetricLevel    = "level"
	MetricAboveLMR = "above_LMR"
	MetricPresent  = "present"
	MetricMeasured = "measured"
)

// Options tune the assembled frames.
type Options struct {
	// WithMeasured adds a measured column per substance and group, telling a
	// never-measured zero apart from a measured one.
	WithMeasured bool
}

// Block is one domain of flags.
type Block struct {
	Domain string
	Flags  []Flag
}

// TargetBlocks derives the four flag domains from the worst-case levels.
// Measured substances missing from their limits table are returned in dropped.
func TargetBlocks(wc *WorstCase, in *Inputs) (blocks []Block, dropped []string, err error) {
	pest, d1, err := SubstanceFlags(wc.Pesticides, PesticideLimits(in.Substances))
	if err != nil {
		return nil, nil, fmt.Errorf("pesticide flags: %w", err)
	}
	hm, d2, err := SubstanceFlags(wc.HeavyMetals, HeavyMetalLimits(in.HeavyMetalLimits))
	if err != nil {
		return nil, nil, fmt.Errorf("heavy metal flags: %w", err)
	}
	cats, err := GroupFlags(pest, Explode(in.Substances, Types))
	if err != nil {
		return nil, nil, fmt.Errorf("pesticide categories: %w", err)
	}
	families, err := GroupFlags(pest, Explode(in.Substances, Families))
	if err != nil {
		return nil, nil, fmt.Errorf("pesticide families: %w", err)
	}
	blocks = []Block{
		{Domain: DomainPesticide, Flags: pest},
		{Domain: DomainPesticideCat, Flags: cats},
		{Domain: DomainPesticideFamily, Flags: families},
		{Domain: DomainHeavyMetal, Flags: hm},
	}
	return blocks, append(d1, d2...), nil
}

// BuildTargets assembles the to_predict frame from the worst-case levels.
func BuildTargets(wc *WorstCase, in *Inputs, opt Options) (*frame.Frame, error) {
	blocks, _, err := TargetBlocks(wc, in)
	if err != nil {
		return nil, err
	}
	return AssembleTargets(blocks, opt), nil
}

// AssembleTargets lays flag blocks out with columns (domain, metric, name).
// Within a domain, columns are grouped by metric and names are sorted. The
// LMR itself is not a column.
func AssembleTargets(blocks []Block, opt Options) *frame.Frame {
	f := frame.New("to_predict", "Site", "domain", "metric", "name")
	metrics := []string{MetricLevel, MetricAboveLMR, MetricPresent}
	if opt.WithMeasured {
		metrics = append(metrics, MetricMeasured)
	}
	for _, b := range blocks {
		names := uniqueNames(b.Flags)
		for _, m := range metrics {
			kind := frame.Bool
			if m == MetricLevel {
				kind = frame.Number
			}
			for _, n := range names {
				f.AddColumn(kind, b.Domain, m, n)
			}
		}
		for _, fl := range b.Flags {
			f.Set(fl.Site, []string{b.Domain, MetricLevel, fl.Name}, fl.Level)
			f.SetBool(fl.Site, []string{b.Domain, MetricAboveLMR, fl.Name}, fl.AboveLMR)
			f.SetBool(fl.Site, []string{b.Domain, MetricPresent, fl.Name}, fl.Present)
			if opt.WithMeasured {
				f.SetBool(fl.Site, []string{b.Domain, MetricMeasured, fl.Name}, fl.Measured)
			}
		}
	}
	f.SortRows()
	return f
}

func uniqueNames(flags []Flag) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, f := range flags {
		if _, ok := seen[f.Name]; ok {
			continue
		}
		seen[f.Name] = struct{}{}
		out = append(out, f.Name)
	}
	sort.Strings(out)
	return out
}

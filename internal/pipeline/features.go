package pipeline

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/hivetox-cli/internal/dataset"
	"github.com/KaramelBytes/hivetox-cli/internal/frame"
	"github.com/go-gota/gota/dataframe"
)

// MetricSurface is the feature column holding the absolute class surface.
const MetricSurface = "surface"

// BuildFeatures averages each distance metric over the polygons of a
// (site, CLC) pair, keeps only pairs that also have a surface, and pivots to
// one row per site with (metric, CLC) columns. Absent pairs are 0.
func BuildFeatures(d *dataset.DistanceTable, surfaces []dataset.Surface) (*frame.Frame, error) {
	f := frame.New("features", "Site", "metric", "CLC")
	if d == nil || len(d.Rows) == 0 || len(surfaces) == 0 {
		return f, nil
	}
	keys := newKeyCodec()

	var pSites, pCodes []string
	var pCount []float64
	var lSites, lCodes, lMetrics []string
	var lValues []float64
	for _, p := range d.Rows {
		site, clc := keys.token(p.Site), keys.token(strconv.Itoa(p.CLC))
		pSites, pCodes, pCount = append(pSites, site), append(pCodes, clc), append(pCount, 1)
		for metric, v := range p.Values {
			lSites, lCodes = append(lSites, site), append(lCodes, clc)
			lMetrics, lValues = append(lMetrics, keys.token(metric)), append(lValues, v)
		}
	}
	polygons := dataframe.New(strs(pSites, colSite), strs(pCodes, colCLC), floats(pCount, colPolygons))
	pairs, err := groupAggregate(polygons, []string{colSite, colCLC}, dataframe.Aggregation_SUM, colPolygons)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	sSites, sCodes := make([]string, len(surfaces)), make([]string, len(surfaces))
	areas := make([]float64, len(surfaces))
	for i, s := range surfaces {
		sSites[i], sCodes[i], areas[i] = keys.token(s.Site), keys.token(strconv.Itoa(s.CLC)), s.Area
	}
	surf := dataframe.New(strs(sSites, colSite), strs(sCodes, colCLC), floats(areas, colArea))
	kept := pairs.InnerJoin(surf, colSite, colCLC)
	if kept.Err != nil {
		return nil, fmt.Errorf("features: join surfaces: %w", kept.Err)
	}
	if kept.Nrow() == 0 {
		return f, nil
	}
	kSites, err := keys.column(kept, colSite)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	kCodes, err := keys.column(kept, colCLC)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	kAreas := kept.Col(colArea).Float()

	type siteClass struct{ site, clc string }
	keep := map[siteClass]struct{}{}
	codes := map[int]struct{}{}
	for i := range kSites {
		keep[siteClass{kSites[i], kCodes[i]}] = struct{}{}
		c, err := strconv.Atoi(kCodes[i])
		if err != nil {
			return nil, fmt.Errorf("features: CLC %q: %w", kCodes[i], err)
		}
		codes[c] = struct{}{}
	}
	sorted := make([]int, 0, len(codes))
	for c := range codes {
		sorted = append(sorted, c)
	}
	sort.Ints(sorted)
	metrics := append(append([]string(nil), d.Metrics...), MetricSurface)
	for _, m := range metrics {
		for _, c := range sorted {
			f.AddColumn(frame.Number, m, strconv.Itoa(c))
		}
	}
	for i := range kSites {
		f.Set(kSites[i], []string{MetricSurface, kCodes[i]}, kAreas[i])
	}

	if len(lValues) > 0 {
		long := dataframe.New(strs(lSites, colSite), strs(lCodes, colCLC), strs(lMetrics, colMetric), floats(lValues, colValue))
		means, err := groupAggregate(long, []string{colSite, colCLC, colMetric}, dataframe.Aggregation_MEAN, colValue)
		if err != nil {
			return nil, fmt.Errorf("features: %w", err)
		}
		mSites, err := keys.column(means, colSite)
		if err != nil {
			return nil, fmt.Errorf("features: %w", err)
		}
		mCodes, err := keys.column(means, colCLC)
		if err != nil {
			return nil, fmt.Errorf("features: %w", err)
		}
		mMetrics, err := keys.column(means, colMetric)
		if err != nil {
			return nil, fmt.Errorf("features: %w", err)
		}
		mValues, err := aggregated(means, colValue, dataframe.Aggregation_MEAN)
		if err != nil {
			return nil, fmt.Errorf("features: %w", err)
		}
		for i := range mSites {
			if _, ok := keep[siteClass{mSites[i], mCodes[i]}]; ok {
				f.Set(mSites[i], []string{mMetrics[i], mCodes[i]}, mValues[i])
			}
		}
	}
	f.FillMissing(0)
	f.SortRows()
	return f, nil
}

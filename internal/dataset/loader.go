package dataset

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/hivetox-cli/internal/config"
	"github.com/KaramelBytes/hivetox-cli/internal/sheet"
	"go.uber.org/zap"
)

// Loader reads the raw input files described by a configuration and
// renames their source headers to canonical names.
type Loader struct {
	Config *config.Global
	Log    *zap.Logger
	// OnFile, if set, is called before each measurement workbook is read.
	OnFile func(done, total int, path string)
}

// NewLoader returns a Loader; a nil logger is replaced by a no-op logger.
func NewLoader(cfg *config.Global, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{Config: cfg, Log: log}
}

// Surfaces loads the absolute surface sheet: one row per site, one column per CLC code.
func (l *Loader) Surfaces() ([]Surface, error) {
	path := l.Config.Path(l.Config.SurfacesFile)
	t, err := sheet.Open(path, "")
	if err != nil {
		return nil, fmt.Errorf("load surfaces: %w", err)
	}
	siteCol, err := t.Col(l.Config.SiteColumn)
	if err != nil {
		return nil, fmt.Errorf("load surfaces: %w", err)
	}
	codes := map[int]int{}
	for j, h := range t.Header {
		if j == siteCol || h == "" {
			continue
		}
		code, ok := sheet.ParseCode(h)
		if !ok {
			return nil, fmt.Errorf("load surfaces: header %q is not a CLC code", h)
		}
		codes[j] = code
	}
	var out []Surface
	for i := range t.Rows {
		site := t.Cell(i, siteCol)
		if site == "" {
			continue
		}
		for j := range t.Header {
			code, ok := codes[j]
			if !ok {
				continue
			}
			raw := t.Cell(i, j)
			if raw == "" {
				continue
			}
			area, ok := sheet.ParseNumber(raw)
			if !ok {
				return nil, fmt.Errorf("load surfaces: site %s CLC %d: %q is not numeric", site, code, raw)
			}
			out = append(out, Surface{Site: site, CLC: code, Area: area})
		}
	}
	l.Log.Debug("loaded surfaces", zap.String("file", filepath.Base(path)), zap.Int("cells", len(out)))
	return out, nil
}

// Substances loads pesticide metadata keyed by substance name.
func (l *Loader) Substances() (map[string]Substance, error) {
	c := l.Config
	path := c.Path(c.PesticidesFile)
	t, err := sheet.Open(path, "")
	if err != nil {
		return nil, fmt.Errorf("load pesticides: %w", err)
	}
	cols, err := t.Cols(c.PesticideNameColumn, c.PesticideTypeColumn, c.PesticideFamilyColumn, c.LMRColumn)
	if err != nil {
		return nil, fmt.Errorf("load pesticides: %w", err)
	}
	out := make(map[string]Substance, len(t.Rows))
	for i := range t.Rows {
		name := t.Cell(i, cols[0])
		if name == "" {
			continue
		}
		if _, dup := out[name]; dup {
			l.Log.Warn("duplicate pesticide name, keeping first row", zap.String("pesticide", name))
			continue
		}
		s := Substance{
			Name:     name,
			Types:    NormalizeTypes(t.Cell(i, cols[1])),
			Families: NormalizeFamilies(t.Cell(i, cols[2])),
		}
		if v, ok := sheet.ParseNumber(t.Cell(i, cols[3])); ok {
			s.LMR, s.HasLMR = v, true
		}
		out[name] = s
	}
	l.Log.Debug("loaded pesticides", zap.Int("count", len(out)))
	return out, nil
}

// Nomenclature loads the CLC label sheets. The Nth configured sheet holds
// level N codes in the column named prefix+N.
func (l *Loader) Nomenclature() (map[int]LandCover, error) {
	c := l.Config
	path := c.Path(c.NomenclatureFile)
	out := map[int]LandCover{}
	for n, name := range c.NomenclatureSheets {
		level := n + 1
		t, err := sheet.Open(path, name)
		if err != nil {
			return nil, fmt.Errorf("load nomenclature: %w", err)
		}
		codeCol, err := t.Col(c.NomenclatureCodePrefix + strconv.Itoa(level))
		if err != nil {
			return nil, fmt.Errorf("load nomenclature: %w", err)
		}
		labelCol := -1
		if c.NomenclatureLabelColumn != "" {
			if labelCol, err = t.Col(c.NomenclatureLabelColumn); err != nil {
				return nil, fmt.Errorf("load nomenclature: %w", err)
			}
		} else {
			for j, h := range t.Header {
				if j != codeCol && h != "" {
					labelCol = j
					break
				}
			}
		}
		for i := range t.Rows {
			raw := t.Cell(i, codeCol)
			if raw == "" {
				continue
			}
			code, ok := sheet.ParseCode(raw)
			if !ok {
				return nil, fmt.Errorf("load nomenclature: sheet %s: %q is not a CLC code", name, raw)
			}
			out[code] = LandCover{Code: code, Level: level, Label: t.Cell(i, labelCol)}
		}
	}
	l.Log.Debug("loaded nomenclature", zap.Int("classes", len(out)))
	return out, nil
}

// Distances loads hive-to-polygon distances. Every column other than the
// site, polygon and class columns is a distance metric.
func (l *Loader) Distances() (*DistanceTable, error) {
	c := l.Config
	path := c.Path(c.DistancesFile)
	t, err := sheet.Open(path, "")
	if err != nil {
		return nil, fmt.Errorf("load distances: %w", err)
	}
	keys, err := t.Cols(c.SiteColumn, c.PolygonColumn, c.DistanceCLCColumn)
	if err != nil {
		return nil, fmt.Errorf("load distances: %w", err)
	}
	isKey := map[int]bool{keys[0]: true, keys[1]: true, keys[2]: true}
	out := &DistanceTable{}
	var metricCols []int
	for j, h := range t.Header {
		if isKey[j] || h == "" {
			continue
		}
		out.Metrics = append(out.Metrics, h)
		metricCols = append(metricCols, j)
	}
	for i := range t.Rows {
		site := t.Cell(i, keys[0])
		if site == "" {
			continue
		}
		raw := t.Cell(i, keys[2])
		code, ok := sheet.ParseCode(raw)
		if !ok {
			return nil, fmt.Errorf("load distances: site %s: %q is not a CLC code", site, raw)
		}
		pd := PolygonDistance{Site: site, PolyID: t.Cell(i, keys[1]), CLC: code, Values: map[string]float64{}}
		for k, j := range metricCols {
			if v, ok := sheet.ParseNumber(t.Cell(i, j)); ok {
				pd.Values[out.Metrics[k]] = v
			}
		}
		out.Rows = append(out.Rows, pd)
	}
	l.Log.Debug("loaded distances", zap.Int("polygons", len(out.Rows)), zap.Strings("metrics", out.Metrics))
	return out, nil
}

// HeavyMetalLimits loads the tab-separated LMR file: a header row of metal
// names and one or more value rows. Blank headers and blank cells are dropped.
func (l *Loader) HeavyMetalLimits() (map[string]float64, error) {
	path := l.Config.Path(l.Config.HeavyMetalLMRFile)
	t, err := sheet.Open(path, "")
	if err != nil {
		return nil, fmt.Errorf("load heavy metal LMR: %w", err)
	}
	out := map[string]float64{}
	for i := range t.Rows {
		for j, metal := range t.Header {
			raw := t.Cell(i, j)
			if metal == "" || raw == "" {
				continue
			}
			v, ok := sheet.ParseNumber(raw)
			if !ok {
				return nil, fmt.Errorf("load heavy metal LMR: %s: %q is not numeric", metal, raw)
			}
			out[metal] = v
		}
	}
	l.Log.Debug("loaded heavy metal LMR", zap.Int("metals", len(out)))
	return out, nil
}

// Periods concatenates every measurement workbook of a category across the
// configured years. Lock files ('~' prefix) are skipped. Rows are not
// deduplicated; see PeriodTable.Duplicates.
func (l *Loader) Periods(category string) (*PeriodTable, error) {
	cat, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}
	c := l.Config
	var files []string
	for _, year := range c.Years {
		found, err := sheet.ListWorkbooks(c.PeriodDir(year, string(cat)))
		if err != nil {
			return nil, fmt.Errorf("load %s periods: %w", cat, err)
		}
		files = append(files, found...)
	}
	out := &PeriodTable{Category: cat, Files: files}
	known := map[string]struct{}{}
	for i, path := range files {
		if l.OnFile != nil {
			l.OnFile(i+1, len(files), path)
		}
		n, err := l.appendPeriodFile(out, known, path)
		if err != nil {
			return nil, fmt.Errorf("load %s periods: %w", cat, err)
		}
		l.Log.Debug("loaded period file", zap.String("category", string(cat)), zap.String("file", path), zap.Int("rows", n))
	}
	if len(out.Skipped) > 0 {
		l.Log.Debug("non-numeric levels treated as not measured", zap.String("category", string(cat)), zap.Int("cells", len(out.Skipped)))
	}
	if dups := out.Duplicates(); len(dups) > 0 {
		l.Log.Warn("duplicate (site, period) rows retained", zap.String("category", string(cat)), zap.Int("keys", len(dups)))
	}
	return out, nil
}

func (l *Loader) appendPeriodFile(out *PeriodTable, known map[string]struct{}, path string) (int, error) {
	t, err := sheet.Open(path, "")
	if err != nil {
		return 0, err
	}
	keys, err := t.Cols(l.Config.PeriodSiteColumn, l.Config.PeriodColumn)
	if err != nil {
		return 0, err
	}
	substCols := map[int]string{}
	for j, h := range t.Header {
		if j == keys[0] || j == keys[1] || h == "" {
			continue
		}
		substCols[j] = h
		if _, ok := known[h]; !ok {
			known[h] = struct{}{}
			out.Substances = append(out.Substances, h)
		}
	}
	source := relativeSource(l.Config.DataDir, path)
	n := 0
	for i := range t.Rows {
		site := t.Cell(i, keys[0])
		if site == "" {
			continue
		}
		o := Observation{Site: site, Period: t.Cell(i, keys[1]), Source: source, Levels: map[string]float64{}}
		for j := range t.Header {
			name, ok := substCols[j]
			if !ok {
				continue
			}
			raw := t.Cell(i, j)
			if v, ok := sheet.ParseNumber(raw); ok {
				o.Levels[name] = v
			} else if strings.TrimSpace(raw) != "" {
				out.Skipped = append(out.Skipped, SkippedCell{Site: site, Period: o.Period, Source: source, Substance: name, Raw: raw})
				l.Log.Debug("non-numeric level treated as not measured",
					zap.String("file", source), zap.String("site", site), zap.String("substance", name), zap.String("value", raw))
			}
		}
		out.Rows = append(out.Rows, o)
		n++
	}
	return n, nil
}

func relativeSource(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.Base(path)
}

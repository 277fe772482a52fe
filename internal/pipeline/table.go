package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the long tables built during a run.
const (
	colSite     = "Site"
	colName     = "name"
	colLabel    = "label"
	colCLC      = "CLC"
	colPolygons = "polygons"
	colMetric   = "metric"
	colValue    = "value"
	colArea     = "surface"
	colLevel    = "level"
	colLMR      = "LMR"
	colKnown    = "known"
	colAbove    = "above_LMR"
	colPresent  = "present"
	colMeasured = "measured"
)

// keyCodec maps string keys to opaque tokens. Aggregated gota frames are
// rebuilt with type inference, which would turn a site "007" into 7, and a
// string element "NaN" never compares equal in a join.
type keyCodec struct {
	ids    map[string]string
	values []string
}

func newKeyCodec() *keyCodec { return &keyCodec{ids: map[string]string{}} }

func (k *keyCodec) token(v string) string {
	if t, ok := k.ids[v]; ok {
		return t
	}
	t := "k" + strconv.Itoa(len(k.values))
	k.ids[v] = t
	k.values = append(k.values, v)
	return t
}

func (k *keyCodec) tokens(vs []string) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = k.token(v)
	}
	return out
}

func (k *keyCodec) value(token string) (string, error) {
	i, err := strconv.Atoi(strings.TrimPrefix(token, "k"))
	if err != nil || i < 0 || i >= len(k.values) {
		return "", fmt.Errorf("unknown key token %q", token)
	}
	return k.values[i], nil
}

func (k *keyCodec) column(df dataframe.DataFrame, name string) ([]string, error) {
	s := df.Col(name)
	if s.Err != nil {
		return nil, s.Err
	}
	recs := s.Records()
	out := make([]string, len(recs))
	for i, r := range recs {
		v, err := k.value(r)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		out[i] = v
	}
	return out, nil
}

// groupAggregate groups df by keys and applies typ to every column of cols.
func groupAggregate(df dataframe.DataFrame, keys []string, typ dataframe.AggregationType, cols ...string) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return df, df.Err
	}
	typs := make([]dataframe.AggregationType, len(cols))
	for i := range typs {
		typs[i] = typ
	}
	out := df.GroupBy(keys...).Aggregation(typs, cols)
	if out.Err != nil {
		return out, fmt.Errorf("aggregate %s by %s: %w", strings.Join(cols, ","), strings.Join(keys, ","), out.Err)
	}
	return out, nil
}

// aggregated returns the values gota produced for col under typ (column "<col>_<TYP>").
func aggregated(df dataframe.DataFrame, col string, typ dataframe.AggregationType) ([]float64, error) {
	name := col + "_" + typ.String()
	s := df.Col(name)
	if s.Err != nil {
		return nil, fmt.Errorf("aggregated column %s: %w", name, s.Err)
	}
	return s.Float(), nil
}

func strs(vals []string, name string) series.Series { return series.New(vals, series.String, name) }

func floats(vals []float64, name string) series.Series { return series.New(vals, series.Float, name) }

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

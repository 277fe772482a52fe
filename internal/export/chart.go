package export

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/hivetox-cli/internal/pipeline"
	"github.com/KaramelBytes/hivetox-cli/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Exceedance is the number of sites whose worst case is above the LMR of one
// substance or group.
type Exceedance struct {
	Name  string
	Sites int
}

// Exceedances counts above_LMR sites per name of one to_predict domain,
// most exceeded first.
func Exceedances(res *pipeline.Result, domain string) []Exceedance {
	var out []Exceedance
	for _, c := range res.ToPredict.Columns() {
		if c.Key[0] != domain || c.Key[1] != pipeline.MetricAboveLMR {
			continue
		}
		e := Exceedance{Name: c.Key[2]}
		for _, site := range res.ToPredict.Rows() {
			if v, ok := res.ToPredict.GetBool(site, c.Key...); ok && v {
				e.Sites++
			}
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sites > out[j].Sites })
	return out
}

// WriteExceedanceChart renders Exceedances of domain as a PNG bar chart.
func WriteExceedanceChart(path string, res *pipeline.Result, domain string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".png") {
		return fmt.Errorf("chart %s: output must be a .png file", path)
	}
	ex := Exceedances(res, domain)
	if len(ex) == 0 {
		return fmt.Errorf("chart: domain %q has no above_LMR columns", domain)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Sites above LMR per %s", domain)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Sites"

	values := make(plotter.Values, len(ex))
	labels := make([]string, len(ex))
	for i, e := range ex {
		values[i] = float64(e.Sites)
		labels[i] = e.Name
	}
	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	bars.Color = color.RGBA{R: 196, G: 120, B: 20, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(plotter.NewGrid(), bars)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0
	p.Y.Max = math.Max(1, float64(len(res.ToPredict.Rows())))

	width := vg.Length(math.Max(6, 0.3*float64(len(ex)))) * vg.Inch
	w, err := p.WriterTo(width, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	return nil
}

package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/hivetox-cli/internal/dataset"
	"github.com/KaramelBytes/hivetox-cli/internal/frame"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result holds the two terminal frames of a run.
type Result struct {
	RunID     uuid.UUID
	CreatedAt time.Time
	DataDir   string
	Features  *frame.Frame
	ToPredict *frame.Frame
	// Legend maps the CLC codes of the features frame to their nomenclature entry.
	Legend   []dataset.LandCover
	Warnings []string
}

// Build derives both frames from loaded inputs.
func Build(in *Inputs, opt Options, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	res := &Result{RunID: uuid.New(), CreatedAt: time.Now().UTC()}
	log = log.With(zap.String("run_id", res.RunID.String()))

	for _, t := range []*dataset.PeriodTable{in.Pesticides, in.HeavyMetals} {
		if t == nil {
			continue
		}
		for _, d := range t.Duplicates() {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: site %s period %s reported %d times (%s); the maximum is kept",
				t.Category, d.Site, d.Period, len(d.Sources), strings.Join(d.Sources, ", ")))
		}
		if len(t.Skipped) > 0 {
			log.Debug("non-numeric levels treated as not measured", zap.String("category", string(t.Category)), zap.Int("cells", len(t.Skipped)))
		}
	}

	wc, err := ReduceWorstCase(in.Pesticides, in.HeavyMetals)
	if err != nil {
		return nil, err
	}
	log.Debug("reduced worst case",
		zap.Int("sites", len(wc.Sites)),
		zap.Int("pesticides", len(wc.Pesticides.Substances)),
		zap.Int("heavy_metals", len(wc.HeavyMetals.Substances)))

	blocks, dropped, err := TargetBlocks(wc, in)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		log.Debug("substances without limits entry dropped", zap.Int("count", len(dropped)), zap.Strings("names", dropped))
	}
	res.ToPredict = AssembleTargets(blocks, opt)
	if res.Features, err = BuildFeatures(in.Distances, in.Surfaces); err != nil {
		return nil, err
	}
	res.Legend = legend(res.Features, in.Nomenclature)

	rows, cols := res.ToPredict.Shape()
	frows, fcols := res.Features.Shape()
	log.Info("built frames",
		zap.Int("to_predict_rows", rows), zap.Int("to_predict_cols", cols),
		zap.Int("features_rows", frows), zap.Int("features_cols", fcols),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}

// Run loads the data directory of env and builds both frames.
func Run(env Env, opt Options) (*Result, error) {
	in, err := Load(env)
	if err != nil {
		return nil, err
	}
	res, err := Build(in, opt, env.logger())
	if err != nil {
		return nil, err
	}
	res.DataDir = env.Config.DataDir
	return res, nil
}

func legend(features *frame.Frame, nomenclature map[int]dataset.LandCover) []dataset.LandCover {
	var out []dataset.LandCover
	if len(features.Levels) < 2 {
		return out
	}
	for _, v := range features.LevelValues(1) {
		code, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		lc, ok := nomenclature[code]
		if !ok {
			lc = dataset.LandCover{Code: code}
		}
		out = append(out, lc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

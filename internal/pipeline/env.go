// Package pipeline turns the loaded monitoring tables into the features and
// to_predict frames. Every step takes its inputs explicitly; nothing is kept
// in package state.
package pipeline

import (
	"fmt"

	"github.com/KaramelBytes/hivetox-cli/internal/config"
	"github.com/KaramelBytes/hivetox-cli/internal/dataset"
	"go.uber.org/zap"
)

// Env carries the configuration and logger through a run.
type Env struct {
	Config *config.Global
	Log    *zap.Logger
	// Progress, if set, is called before each measurement workbook is read.
	Progress func(category dataset.Category, done, total int, path string)
}

func (e Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// Inputs are the raw tables of one data directory.
type Inputs struct {
	Surfaces         []dataset.Surface
	Substances       map[string]dataset.Substance
	Nomenclature     map[int]dataset.LandCover
	Distances        *dataset.DistanceTable
	HeavyMetalLimits map[string]float64
	Pesticides       *dataset.PeriodTable
	HeavyMetals      *dataset.PeriodTable
}

// Load runs every loader once, in the order the inputs are needed.
func Load(env Env) (*Inputs, error) {
	if env.Config == nil {
		return nil, fmt.Errorf("load inputs: no configuration")
	}
	l := dataset.NewLoader(env.Config, env.logger())
	in := &Inputs{}
	var err error
	if in.HeavyMetalLimits, err = l.HeavyMetalLimits(); err != nil {
		return nil, err
	}
	if in.Surfaces, err = l.Surfaces(); err != nil {
		return nil, err
	}
	if in.Substances, err = l.Substances(); err != nil {
		return nil, err
	}
	if in.Nomenclature, err = l.Nomenclature(); err != nil {
		return nil, err
	}
	if in.Distances, err = l.Distances(); err != nil {
		return nil, err
	}
	periods := func(cat dataset.Category) (*dataset.PeriodTable, error) {
		if env.Progress != nil {
			l.OnFile = func(done, total int, path string) { env.Progress(cat, done, total, path) }
		}
		return l.Periods(string(cat))
	}
	if in.HeavyMetals, err = periods(dataset.CategoryHeavyMetal); err != nil {
		return nil, err
	}
	if in.Pesticides, err = periods(dataset.CategoryPesticide); err != nil {
		return nil, err
	}
	return in, nil
}

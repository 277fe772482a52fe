package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	Years   []int  `mapstructure:"years" yaml:"years"`

	// Input files, relative to DataDir unless absolute.
	SurfacesFile       string   `mapstructure:"surfaces_file" yaml:"surfaces_file"`
	PesticidesFile     string   `mapstructure:"pesticides_file" yaml:"pesticides_file"`
	NomenclatureFile   string   `mapstructure:"nomenclature_file" yaml:"nomenclature_file"`
	NomenclatureSheets []string `mapstructure:"nomenclature_sheets" yaml:"nomenclature_sheets"`
	DistancesFile      string   `mapstructure:"distances_file" yaml:"distances_file"`
	HeavyMetalLMRFile  string   `mapstructure:"heavy_metal_lmr_file" yaml:"heavy_metal_lmr_file"`

	// Source column headers, matched exactly.
	SiteColumn              string `mapstructure:"site_column" yaml:"site_column"`
	PesticideNameColumn     string `mapstructure:"pesticide_name_column" yaml:"pesticide_name_column"`
	PesticideTypeColumn     string `mapstructure:"pesticide_type_column" yaml:"pesticide_type_column"`
	PesticideFamilyColumn   string `mapstructure:"pesticide_family_column" yaml:"pesticide_family_column"`
	LMRColumn               string `mapstructure:"lmr_column" yaml:"lmr_column"`
	PolygonColumn           string `mapstructure:"polygon_column" yaml:"polygon_column"`
	DistanceCLCColumn       string `mapstructure:"distance_clc_column" yaml:"distance_clc_column"`
	PeriodSiteColumn        string `mapstructure:"period_site_column" yaml:"period_site_column"`
	PeriodColumn            string `mapstructure:"period_column" yaml:"period_column"`
	NomenclatureCodePrefix  string `mapstructure:"nomenclature_code_prefix" yaml:"nomenclature_code_prefix"`
	NomenclatureLabelColumn string `mapstructure:"nomenclature_label_column" yaml:"nomenclature_label_column"`

	// Console display
	MaxRows int `mapstructure:"max_rows" yaml:"max_rows"`
	MaxCols int `mapstructure:"max_cols" yaml:"max_cols"`
}

// Path resolves an input file name against DataDir.
func (c *Global) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// PeriodDir returns the directory holding one year's measurement workbooks
// for a category, e.g. data/2018/Pesticides.
func (c *Global) PeriodDir(year int, category string) string {
	return filepath.Join(c.DataDir, strconv.Itoa(year), category)
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.hivetox/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".hivetox")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Defaults returns the built-in configuration without consulting env or files.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("years", []int{2017, 2018, 2019, 2020})
	v.SetDefault("surfaces_file", "absSurfs.xlsx")
	v.SetDefault("pesticides_file", "pesticides.xlsx")
	v.SetDefault("nomenclature_file", "clc-nomenclature-c.xlsx")
	v.SetDefault("nomenclature_sheets", []string{"nomenclature_clc_1", "nomenclature_clc_2", "nomenclature_clc_3"})
	v.SetDefault("distances_file", "distsOneSheet.xlsx")
	v.SetDefault("heavy_metal_lmr_file", "LMR.txt")
	// Source headers
	v.SetDefault("site_column", "Site")
	v.SetDefault("pesticide_name_column", "importName")
	v.SetDefault("pesticide_type_column", "typeEN")
	v.SetDefault("pesticide_family_column", "familyEN")
	v.SetDefault("lmr_column", "LMR")
	v.SetDefault("polygon_column", "polyID")
	v.SetDefault("distance_clc_column", "classCLC")
	v.SetDefault("period_site_column", "REF....SUBSTANCE")
	v.SetDefault("period_column", "PERIOD")
	v.SetDefault("nomenclature_code_prefix", "code_clc_")
	v.SetDefault("nomenclature_label_column", "")
	// Display
	v.SetDefault("max_rows", 20)
	v.SetDefault("max_cols", 12)
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("HIVETOX")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".hivetox"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config that cannot be read is an error; a missing default file is not
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Years) == 0 {
		return nil, fmt.Errorf("config: years must not be empty")
	}
	return &c, nil
}

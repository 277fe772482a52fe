package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/hivetox-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set hivetox configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, kv := range configEntries(c) {
			fmt.Fprintf(out, "%s: %s\n", kv[0], kv[1])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Persist the file as it is on disk; flag overrides apply to this run only
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func configEntries(c *cfgpkg.Global) [][2]string {
	years := make([]string, len(c.Years))
	for i, y := range c.Years {
		years[i] = strconv.Itoa(y)
	}
	return [][2]string{
		{"data_dir", c.DataDir},
		{"years", strings.Join(years, ",")},
		{"surfaces_file", c.SurfacesFile},
		{"pesticides_file", c.PesticidesFile},
		{"nomenclature_file", c.NomenclatureFile},
		{"nomenclature_sheets", strings.Join(c.NomenclatureSheets, ",")},
		{"distances_file", c.DistancesFile},
		{"heavy_metal_lmr_file", c.HeavyMetalLMRFile},
		{"site_column", c.SiteColumn},
		{"pesticide_name_column", c.PesticideNameColumn},
		{"pesticide_type_column", c.PesticideTypeColumn},
		{"pesticide_family_column", c.PesticideFamilyColumn},
		{"lmr_column", c.LMRColumn},
		{"polygon_column", c.PolygonColumn},
		{"distance_clc_column", c.DistanceCLCColumn},
		{"period_site_column", c.PeriodSiteColumn},
		{"period_column", c.PeriodColumn},
		{"nomenclature_code_prefix", c.NomenclatureCodePrefix},
		{"nomenclature_label_column", c.NomenclatureLabelColumn},
		{"max_rows", strconv.Itoa(c.MaxRows)},
		{"max_cols", strconv.Itoa(c.MaxCols)},
	}
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	strs := map[string]*string{
		"data_dir":                  &c.DataDir,
		"surfaces_file":             &c.SurfacesFile,
		"pesticides_file":           &c.PesticidesFile,
		"nomenclature_file":         &c.NomenclatureFile,
		"distances_file":            &c.DistancesFile,
		"heavy_metal_lmr_file":      &c.HeavyMetalLMRFile,
		"site_column":               &c.SiteColumn,
		"pesticide_name_column":     &c.PesticideNameColumn,
		"pesticide_type_column":     &c.PesticideTypeColumn,
		"pesticide_family_column":   &c.PesticideFamilyColumn,
		"lmr_column":                &c.LMRColumn,
		"polygon_column":            &c.PolygonColumn,
		"distance_clc_column":       &c.DistanceCLCColumn,
		"period_site_column":        &c.PeriodSiteColumn,
		"period_column":             &c.PeriodColumn,
		"nomenclature_code_prefix":  &c.NomenclatureCodePrefix,
		"nomenclature_label_column": &c.NomenclatureLabelColumn,
	}
	if p, ok := strs[key]; ok {
		*p = val
		return nil
	}
	switch key {
	case "years":
		var years []int
		for _, part := range strings.Split(val, ",") {
			y, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return fmt.Errorf("invalid year list for years: %v", val)
			}
			years = append(years, y)
		}
		c.Years = years
	case "nomenclature_sheets":
		var sheets []string
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				sheets = append(sheets, s)
			}
		}
		if len(sheets) == 0 {
			return fmt.Errorf("nomenclature_sheets must not be empty")
		}
		c.NomenclatureSheets = sheets
	case "max_rows", "max_cols":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		if key == "max_rows" {
			c.MaxRows = i
		} else {
			c.MaxCols = i
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

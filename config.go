package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// tuning holds every threshold and factor the pipeline uses. The defaults are
// the values the plots have always been drawn with; a --config file may
// override any subset of them.
type tuning struct {
	NoiseFloor     float64 `yaml:"noise_floor"`     // rows below this %time are dropped at parse time (inclusive)
	LabelThreshold float64 `yaml:"label_threshold"` // points above this %time get a label (strict)
	MarkerBase     float64 `yaml:"marker_base"`
	MarkerScale    float64 `yaml:"marker_scale"`
	LeftFactor     float64 `yaml:"left_factor"`  // anchor multiplier for points right of the midpoint
	RightFactor    float64 `yaml:"right_factor"` // anchor multiplier for points left of the midpoint
	NameMax        int     `yaml:"name_max"`
	NameKeep       int     `yaml:"name_keep"`
	XMargin        float64 `yaml:"x_margin"` // fraction of the log10 x span added on each side
	LabelFontSize  float64 `yaml:"label_font_size"`
}

func defaultTuning() tuning {
	return tuning{
		NoiseFloor:     0.5,
		LabelThreshold: 2.0,
		MarkerBase:     50,
		MarkerScale:    400,
		LeftFactor:     0.75,
		RightFactor:    1.25,
		NameMax:        40,
		NameKeep:       37,
		XMargin:        0.05,
		LabelFontSize:  10,
	}
}

func (t tuning) validate() error {
	switch {
	case t.NoiseFloor < 0:
		return errors.Errorf("noise_floor must be >= 0, got %g", t.NoiseFloor)
	case t.LabelThreshold < 0:
		return errors.Errorf("label_threshold must be >= 0, got %g", t.LabelThreshold)
	case t.MarkerBase < 0 || t.MarkerScale < 0:
		return errors.Errorf("marker_base and marker_scale must be >= 0, got %g/%g", t.MarkerBase, t.MarkerScale)
	case t.LeftFactor <= 0 || t.RightFactor <= 0:
		return errors.Errorf("left_factor and right_factor must be > 0, got %g/%g", t.LeftFactor, t.RightFactor)
	case t.NameKeep <= 0 || t.NameKeep >= t.NameMax:
		return errors.Errorf("name_keep must be in (0, name_max), got %d/%d", t.NameKeep, t.NameMax)
	case t.XMargin < 0:
		return errors.Errorf("x_margin must be >= 0, got %g", t.XMargin)
	case t.LabelFontSize <= 0:
		return errors.Errorf("label_font_size must be > 0, got %g", t.LabelFontSize)
	}
	return nil
}

// loadTuning returns the defaults overlaid with the YAML file at path. An
// empty path means defaults only.
func loadTuning(path string) (tuning, error) {
	t := defaultTuning()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, errors.Wrapf(err, "parse config %s", path)
	}
	if err := t.validate(); err != nil {
		return t, errors.Wrapf(err, "config %s", path)
	}
	return t, nil
}

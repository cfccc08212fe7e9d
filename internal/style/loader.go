package style

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/capmotion/internal/anim"
)

// Defaults applied when the style file omits a value.
const (
	defaultFontSize = 72.0
	defaultWeight   = 400
)

type wireConfig struct {
	GlobalStyles wireStyles      `yaml:"globalStyles"`
	Animations   []wireAnimation `yaml:"animations"`
}

type wireStyles struct {
	FontFamily      string        `yaml:"fontFamily"`
	FontFile        string        `yaml:"fontFile"`
	FontSize        float64       `yaml:"fontSize"`
	FontWeight      any           `yaml:"fontWeight"`
	Color           any           `yaml:"color"`
	ActiveColor     any           `yaml:"activeColor"`
	BackgroundColor any           `yaml:"backgroundColor"`
	Gradient        *wireGradient `yaml:"gradient"`
	Padding         any           `yaml:"padding"`
	WordSpacing     float64       `yaml:"wordSpacing"`
	BorderRadius    float64       `yaml:"borderRadius"`
	Resolution      []int         `yaml:"resolution"`
	FPS             int           `yaml:"fps"`
}

type wireGradient struct {
	From any `yaml:"from"`
	To   any `yaml:"to"`
}

type wireAnimation struct {
	Selector  string        `yaml:"selector"`
	Duration  float64       `yaml:"duration"`
	Easing    string        `yaml:"easing"`
	Delay     float64       `yaml:"delay"`
	Stagger   float64       `yaml:"stagger"`
	Keyframes wireKeyframes `yaml:"keyframes"`
}

// wireKeyframes accepts either the percentage-map form
//
//	keyframes: {"0%": {opacity: 0}, "100%": {opacity: 1}}
//
// or a list form where entries carry an optional "time" in [0,1] and any
// remaining keys are properties. Untimed list entries get times inferred from
// position.
type wireKeyframes []anim.Keyframe

func (w *wireKeyframes) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var m map[string]map[string]any
		if err := node.Decode(&m); err != nil {
			return err
		}
		for key, props := range m {
			t, err := parsePercent(key)
			if err != nil {
				return err
			}
			*w = append(*w, anim.Keyframe{Time: t, HasTime: true, Properties: props})
		}
		sort.SliceStable(*w, func(a, b int) bool { return (*w)[a].Time < (*w)[b].Time })
		return nil
	case yaml.SequenceNode:
		var entries []map[string]any
		if err := node.Decode(&entries); err != nil {
			return err
		}
		for _, entry := range entries {
			kf := anim.Keyframe{Properties: make(map[string]any, len(entry))}
			for k, v := range entry {
				if k == "time" {
					if t, ok := anim.Numeric(v); ok {
						kf.Time = t
						kf.HasTime = true
						continue
					}
				}
				kf.Properties[k] = v
			}
			*w = append(*w, kf)
		}
		anim.InferTimes(*w)
		sort.SliceStable(*w, func(a, b int) bool { return (*w)[a].Time < (*w)[b].Time })
		return nil
	}
	return fmt.Errorf("keyframes must be a map or a list")
}

func parsePercent(key string) (float64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(key), "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid keyframe key %q", key)
	}
	if strings.HasSuffix(strings.TrimSpace(key), "%") {
		v /= 100
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("keyframe key %q outside [0%%, 100%%]", key)
	}
	return v, nil
}

// Load reads and resolves a style configuration file. The file may be YAML
// or JSON (yaml.v3 parses both). Unknown easing names degrade to linear with
// a warning; structural problems are errors.
func Load(path string, logger *slog.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("style: read %q: %w", path, err)
	}
	cfg, err := Decode(data, logger)
	if err != nil {
		return nil, fmt.Errorf("style: parse %q: %w", path, err)
	}
	return cfg, nil
}

// Decode resolves style configuration from raw YAML/JSON bytes.
func Decode(data []byte, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var wire wireConfig
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	cfg := &Config{
		Style: Style{
			FontFamily: wire.GlobalStyles.FontFamily,
			FontFile:   wire.GlobalStyles.FontFile,
			FontSize:   wire.GlobalStyles.FontSize,
			FontWeight: parseWeight(wire.GlobalStyles.FontWeight),
			Color:      Color{R: 255, G: 255, B: 255, A: 255},
			Background: Color{A: 160},
		},
		Animations: make(map[string]anim.Animation),
		FPS:        wire.GlobalStyles.FPS,
	}
	if cfg.Style.FontSize == 0 {
		cfg.Style.FontSize = defaultFontSize
	}
	if len(wire.GlobalStyles.Resolution) == 2 {
		cfg.Width = wire.GlobalStyles.Resolution[0]
		cfg.Height = wire.GlobalStyles.Resolution[1]
	}

	var errs []error

	if wire.GlobalStyles.Color != nil {
		c, err := parseColor(wire.GlobalStyles.Color)
		if err != nil {
			errs = append(errs, fmt.Errorf("color: %w", err))
		} else {
			cfg.Style.Color = c
		}
	}
	cfg.Style.ActiveColor = cfg.Style.Color
	if wire.GlobalStyles.ActiveColor != nil {
		c, err := parseColor(wire.GlobalStyles.ActiveColor)
		if err != nil {
			errs = append(errs, fmt.Errorf("activeColor: %w", err))
		} else {
			cfg.Style.ActiveColor = c
		}
	}
	if wire.GlobalStyles.BackgroundColor != nil {
		c, err := parseColor(wire.GlobalStyles.BackgroundColor)
		if err != nil {
			errs = append(errs, fmt.Errorf("backgroundColor: %w", err))
		} else {
			cfg.Style.Background = c
		}
	}
	if wire.GlobalStyles.Gradient != nil {
		from, err1 := parseColor(wire.GlobalStyles.Gradient.From)
		to, err2 := parseColor(wire.GlobalStyles.Gradient.To)
		if err1 != nil || err2 != nil {
			errs = append(errs, fmt.Errorf("gradient: %w", errors.Join(err1, err2)))
		} else {
			cfg.Style.Gradient = &Gradient{From: from, To: to}
		}
	}

	px, py, err := parsePadding(wire.GlobalStyles.Padding)
	if err != nil {
		errs = append(errs, fmt.Errorf("padding: %w", err))
	}
	cfg.Style.PaddingX, cfg.Style.PaddingY = px, py
	cfg.Style.WordSpacing = wire.GlobalStyles.WordSpacing
	cfg.Style.BorderRadius = wire.GlobalStyles.BorderRadius

	for i, wa := range wire.Animations {
		name := wa.Selector
		if name == "" {
			errs = append(errs, fmt.Errorf("animations[%d]: missing selector", i))
			continue
		}
		if wa.Duration <= 0 {
			errs = append(errs, fmt.Errorf("animations[%d] (%s): duration must be positive", i, name))
			continue
		}
		if len(wa.Keyframes) == 0 {
			errs = append(errs, fmt.Errorf("animations[%d] (%s): at least one keyframe required", i, name))
			continue
		}

		easing, ok := anim.Easing(wa.Easing)
		if !ok {
			logger.Warn("unknown easing, falling back to linear",
				"animation", name, "easing", wa.Easing)
		}

		cfg.Animations[name] = anim.Animation{
			Duration:  wa.Duration,
			Delay:     wa.Delay,
			Stagger:   wa.Stagger,
			Keyframes: wa.Keyframes,
			Easing:    easing,
		}
	}

	if cfg.Style.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("fontSize must be positive"))
	}
	if cfg.FPS < 0 {
		errs = append(errs, fmt.Errorf("fps must not be negative"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func parseWeight(v any) int {
	switch w := v.(type) {
	case string:
		if strings.EqualFold(w, "bold") {
			return 700
		}
	default:
		if n, ok := anim.Numeric(v); ok && n > 0 {
			return int(n)
		}
	}
	return defaultWeight
}

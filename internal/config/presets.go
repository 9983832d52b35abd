package config

// Presets are named solver parameter sets for common design-time
// conventions. "human-design" is the classical 88-degree solar arc.
var Presets = map[string]SolverConfig{
	"human-design": {
		OffsetDeg: 88.0, WindowMin: 70.0, WindowMax: 110.0,
		ToleranceDeg: 0.01, MaxIter: 80,
	},
	"human-design-tight": {
		OffsetDeg: 88.0, WindowMin: 80.0, WindowMax: 96.0,
		ToleranceDeg: 0.001, MaxIter: 120,
	},
	"quarter-arc": {
		OffsetDeg: 90.0, WindowMin: 70.0, WindowMax: 110.0,
		ToleranceDeg: 0.01, MaxIter: 80,
	},
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *SolverConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

// ListPresets returns preset names in no particular order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

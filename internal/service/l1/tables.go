package l1_service

import (
	"time"

	"streamalloc/internal/util"
)

// VendorEstimate is the per-vendor slice of the "trained model" lookup. The
// values are curated offline and shipped with the binary; nothing in the
// engine ever writes to them.
type VendorEstimate struct {
	Reliability  float64
	Accuracy     float64
	Utilization  float64
	ResponseTime float64
}

var neutralVendorEstimate = VendorEstimate{
	Reliability:  0.8,
	Accuracy:     0.85,
	Utilization:  0.5,
	ResponseTime: 24,
}

// EngineTables holds every static lookup the engine consults: genre affinity,
// seasonal multipliers, market competitiveness, and vendor estimates. It is
// immutable after construction, so concurrent callers can share one instance.
type EngineTables struct {
	genreAffinity   map[string][]string
	seasonal        map[string]map[time.Month]float64
	competitiveness map[string]float64
	vendorEstimates map[string]VendorEstimate
}

func (t *EngineTables) RelatedGenres(genre string) []string {
	return t.genreAffinity[util.NormalizeGenre(genre)]
}

func (t *EngineTables) SeasonalMultiplier(genre string, month time.Month) (float64, bool) {
	table, ok := t.seasonal[util.NormalizeGenre(genre)]
	if !ok {
		return 0, false
	}
	m, ok := table[month]
	return m, ok
}

// Competitiveness returns how crowded the market for a genre is, in [0,1].
// Unknown genres read as a middling 0.5.
func (t *EngineTables) Competitiveness(genre string) float64 {
	if v, ok := t.competitiveness[util.NormalizeGenre(genre)]; ok {
		return v
	}
	return 0.5
}

func (t *EngineTables) VendorEstimate(vendorID string) VendorEstimate {
	if e, ok := t.vendorEstimates[vendorID]; ok {
		return e
	}
	return neutralVendorEstimate
}

func (t *EngineTables) NeutralVendorEstimate() VendorEstimate {
	return neutralVendorEstimate
}

// NewEngineTables builds tables with optional per-vendor estimate overrides
// on top of the built-in genre data.
func NewEngineTables(vendorEstimates map[string]VendorEstimate) *EngineTables {
	estimates := map[string]VendorEstimate{}
	for id, e := range vendorEstimates {
		estimates[id] = e
	}
	return &EngineTables{
		genreAffinity:   genreAffinity,
		seasonal:        seasonalMultipliers,
		competitiveness: genreCompetitiveness,
		vendorEstimates: estimates,
	}
}

func DefaultEngineTables() *EngineTables {
	return NewEngineTables(nil)
}

// curated by the marketing team; keys and values are pre-normalized
var genreAffinity = map[string][]string{
	"techno":     {"house", "electronic", "edm", "minimal", "detroit techno"},
	"house":      {"techno", "deep house", "electronic", "edm", "disco"},
	"electronic": {"techno", "house", "edm", "ambient", "synthwave", "idm"},
	"edm":        {"electronic", "house", "dance", "dubstep", "trap"},
	"hip hop":    {"rap", "trap", "r&b", "drill", "boom bap"},
	"rap":        {"hip hop", "trap", "drill", "grime"},
	"trap":       {"hip hop", "rap", "edm", "drill"},
	"r&b":        {"soul", "hip hop", "neo soul", "funk"},
	"pop":        {"dance", "indie pop", "synth pop", "electropop"},
	"indie":      {"indie rock", "indie pop", "alternative", "lo-fi"},
	"rock":       {"indie rock", "alternative", "classic rock", "punk", "metal"},
	"metal":      {"rock", "hardcore", "death metal", "metalcore"},
	"jazz":       {"soul", "funk", "blues", "fusion", "bossa nova"},
	"classical":  {"orchestral", "piano", "instrumental", "ambient"},
	"country":    {"folk", "americana", "bluegrass"},
	"folk":       {"country", "americana", "acoustic", "singer-songwriter"},
	"latin":      {"reggaeton", "salsa", "bachata", "latin pop"},
	"reggaeton":  {"latin", "latin pop", "dancehall", "trap"},
	"ambient":    {"electronic", "classical", "chillout", "downtempo", "lo-fi"},
	"lo-fi":      {"chillhop", "ambient", "indie", "downtempo"},
	"afrobeats":  {"afropop", "dancehall", "amapiano", "highlife"},
	"christmas":  {"holiday", "classical", "pop"},
}

var seasonalMultipliers = map[string]map[time.Month]float64{
	"christmas": {
		time.November: 1.3,
		time.December: 1.5,
		time.January:  0.6,
	},
	"holiday": {
		time.November: 1.2,
		time.December: 1.4,
	},
	"summer": {
		time.June:   1.2,
		time.July:   1.3,
		time.August: 1.2,
	},
	"reggaeton": {
		time.June:   1.15,
		time.July:   1.2,
		time.August: 1.15,
	},
	"ambient": {
		time.January:  1.1,
		time.February: 1.1,
	},
	"folk": {
		time.September: 1.1,
		time.October:   1.15,
	},
}

var genreCompetitiveness = map[string]float64{
	"pop":        0.9,
	"hip hop":    0.85,
	"rap":        0.85,
	"edm":        0.8,
	"r&b":        0.75,
	"rock":       0.7,
	"latin":      0.7,
	"reggaeton":  0.75,
	"house":      0.65,
	"techno":     0.6,
	"electronic": 0.65,
	"indie":      0.55,
	"country":    0.6,
	"metal":      0.5,
	"jazz":       0.4,
	"classical":  0.35,
	"ambient":    0.45,
	"lo-fi":      0.5,
	"folk":       0.45,
	"afrobeats":  0.6,
}

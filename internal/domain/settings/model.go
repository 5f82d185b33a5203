package settings

// Mode selects between low-latency and extended-reasoning conversation calls
type Mode string

const (
	ModeFast      Mode = "fast"
	ModePrecision Mode = "precision"
)

// ParseMode maps user input to a Mode, defaulting to ModeFast.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFast:
		return ModeFast, nil
	case ModePrecision:
		return ModePrecision, nil
	}
	return "", ErrInvalidMode
}

// SystemConfig holds one model identifier per conceptual role
type SystemConfig struct {
	ConductorModel string `json:"conductor_model" yaml:"conductor_model"`
	ResearchModel  string `json:"research_model" yaml:"research_model"`
	CoderModel     string `json:"coder_model" yaml:"coder_model"`
	ValidatorModel string `json:"validator_model" yaml:"validator_model"`
	SearchEngineID string `json:"search_engine_id,omitempty" yaml:"search_engine_id"`
}

// Defaults used when neither config nor the user have chosen models.
func Defaults() SystemConfig {
	return SystemConfig{
		ConductorModel: "gemini-2.5-flash",
		ResearchModel:  "gemini-2.5-flash",
		CoderModel:     "gemini-2.5-pro",
		ValidatorModel: "gemini-2.5-flash",
	}
}

package config

// Default paths and data settings shared by the commands.
const (
	DefaultDataRoot   = "data"
	DefaultExchange   = "bybit"
	DefaultInterval   = "60"
	DefaultMatrixFile = "close_matrix.csv"
)

// PairConfig is the root configuration for the pairs commands. Every section
// can be set in YAML and overridden by flags.
type PairConfig struct {
	Data       DataConfig       `yaml:"data" json:"data"`
	Pair       PairSelection    `yaml:"pair" json:"pair"`
	Estimator  EstimatorConfig  `yaml:"estimator" json:"estimator"`
	Signal     SignalConfig     `yaml:"signal" json:"signal"`
	Execution  ExecutionConfig  `yaml:"execution" json:"execution"`
	Grid       GridConfig       `yaml:"grid" json:"grid"`
	Screen     ScreenConfig     `yaml:"screen" json:"screen"`
	Journal    JournalConfig    `yaml:"journal" json:"journal"`
	Monitoring MonitoringConfig `yaml:"monitoring" json:"monitoring"`
}

// DataConfig locates kline files and the close matrix.
type DataConfig struct {
	Root       string `yaml:"root" json:"root"`
	Exchange   string `yaml:"exchange" json:"exchange"`
	Interval   string `yaml:"interval" json:"interval"`
	MatrixFile string `yaml:"matrix_file" json:"matrix_file"`
}

// PairSelection names the two legs under test.
type PairSelection struct {
	SymbolA string `yaml:"symbol_a" json:"symbol_a"`
	SymbolB string `yaml:"symbol_b" json:"symbol_b"`
}

// EstimatorConfig selects and tunes the hedge-ratio estimator.
type EstimatorConfig struct {
	Mode              string  `yaml:"mode" json:"mode"` // static | kalman
	TrainingBars      int     `yaml:"training_bars" json:"training_bars"`
	ProcessNoise      float64 `yaml:"process_noise" json:"process_noise"`
	ObservationNoise  float64 `yaml:"observation_noise" json:"observation_noise"`
	InitialRatio      float64 `yaml:"initial_ratio" json:"initial_ratio"`
	InitialCovariance float64 `yaml:"initial_covariance" json:"initial_covariance"`
	WarmStartBars     int     `yaml:"warm_start_bars" json:"warm_start_bars"`
}

// SignalConfig tunes the rolling z-score thresholds.
type SignalConfig struct {
	Window         int     `yaml:"window" json:"window"`
	EntryThreshold float64 `yaml:"entry_threshold" json:"entry_threshold"`
	ExitThreshold  float64 `yaml:"exit_threshold" json:"exit_threshold"`
}

// ExecutionConfig covers costs and capital.
type ExecutionConfig struct {
	Commission     float64 `yaml:"commission" json:"commission"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	PeriodsPerYear float64 `yaml:"periods_per_year" json:"periods_per_year"`
}

// GridConfig spans the parameter sweep.
type GridConfig struct {
	WindowMin  int     `yaml:"window_min" json:"window_min"`
	WindowMax  int     `yaml:"window_max" json:"window_max"`
	WindowStep int     `yaml:"window_step" json:"window_step"`
	EntryMin   float64 `yaml:"entry_min" json:"entry_min"`
	EntryMax   float64 `yaml:"entry_max" json:"entry_max"`
	EntryStep  float64 `yaml:"entry_step" json:"entry_step"`
	Workers    int     `yaml:"workers" json:"workers"`
}

// ScreenConfig tunes the pair screen.
type ScreenConfig struct {
	MinCorrelation float64 `yaml:"min_correlation" json:"min_correlation"`
	MaxHalfLife    float64 `yaml:"max_half_life" json:"max_half_life"`
	TopN           int     `yaml:"top_n" json:"top_n"`
}

// JournalConfig points at the optional SQLite run journal.
type JournalConfig struct {
	Path string `yaml:"path" json:"path"`
}

// MonitoringConfig controls the optional metrics endpoint during sweeps.
type MonitoringConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Port    int  `yaml:"port" json:"port"`
}

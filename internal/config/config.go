package config

import (
	"fmt"
	"strings"

	"github.com/23skdu/arbalest/internal/ov"
)

// Config carries everything the inference CLI needs to drive the bridge:
// where the model lives, which device compiles it, and how the input and
// output tensors are prepared.
type Config struct {
	// Model reference: either a local topology/weights pair or a gs://
	// prefix resolved through the model store.
	ModelXML string
	ModelBin string

	Device      string
	BatchSize   int
	PluginsPath string // engine plugin registry; empty means native default discovery

	InputLayout     string
	InputPrecision  string
	OutputPrecision string
	ResizeInput     bool

	CacheDir    string // download cache for remote model references
	MetricsAddr string
	FlightAddr  string // optional Arrow Flight target for output tensors

	LogLevel  string
	LogFormat string
}

func (c *Config) Validate() error {
	if c.ModelXML == "" {
		return fmt.Errorf("missing model topology path")
	}
	if c.ModelBin == "" {
		return fmt.Errorf("missing model weights path")
	}
	if c.Device == "" {
		return fmt.Errorf("missing device selector")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("invalid batch_size: %d (must be positive)", c.BatchSize)
	}
	if _, err := ov.ParseLayout(c.InputLayout); err != nil {
		return fmt.Errorf("invalid input_layout: %w", err)
	}
	if _, err := ov.ParsePrecision(c.InputPrecision); err != nil {
		return fmt.Errorf("invalid input_precision: %w", err)
	}
	if _, err := ov.ParsePrecision(c.OutputPrecision); err != nil {
		return fmt.Errorf("invalid output_precision: %w", err)
	}
	return nil
}

// IsRemoteModel reports whether the model reference needs the model store.
func (c *Config) IsRemoteModel() bool {
	return strings.HasPrefix(c.ModelXML, "gs://") || strings.HasPrefix(c.ModelBin, "gs://")
}

func Default() Config {
	return Config{
		Device:          "CPU",
		BatchSize:       1,
		InputLayout:     "NHWC",
		InputPrecision:  "U8",
		OutputPrecision: "FP32",
		ResizeInput:     true,
		MetricsAddr:     ":9090",
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

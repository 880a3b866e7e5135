package config

import (
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Device != "CPU" {
		t.Errorf("expected Device CPU, got %s", cfg.Device)
	}
	if cfg.BatchSize != 1 {
		t.Errorf("expected BatchSize 1, got %d", cfg.BatchSize)
	}
	if cfg.InputLayout != "NHWC" {
		t.Errorf("expected InputLayout NHWC, got %s", cfg.InputLayout)
	}
	if cfg.InputPrecision != "U8" {
		t.Errorf("expected InputPrecision U8, got %s", cfg.InputPrecision)
	}
	if cfg.OutputPrecision != "FP32" {
		t.Errorf("expected OutputPrecision FP32, got %s", cfg.OutputPrecision)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}
	if !cfg.ResizeInput {
		t.Error("expected ResizeInput to be true")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.ModelXML = "model.xml"
	valid.ModelBin = "model.bin"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"missing topology", func(c *Config) { c.ModelXML = "" }, true},
		{"missing weights", func(c *Config) { c.ModelBin = "" }, true},
		{"missing device", func(c *Config) { c.Device = "" }, true},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }, true},
		{"negative batch", func(c *Config) { c.BatchSize = -2 }, true},
		{"bad layout", func(c *Config) { c.InputLayout = "NWHC" }, true},
		{"bad input precision", func(c *Config) { c.InputPrecision = "FP64" }, true},
		{"bad output precision", func(c *Config) { c.OutputPrecision = "??" }, true},
		{"lowercase layout accepted", func(c *Config) { c.InputLayout = "nchw" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsRemoteModel(t *testing.T) {
	cfg := Default()
	cfg.ModelXML = "/models/net.xml"
	cfg.ModelBin = "/models/net.bin"
	if cfg.IsRemoteModel() {
		t.Error("local pair reported as remote")
	}

	cfg.ModelXML = "gs://bucket/net.xml"
	if !cfg.IsRemoteModel() {
		t.Error("gs:// topology not reported as remote")
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"

	"github.com/mattiekat/cgraph/internal/codec"
)

// Config is the on-disk description of an amplify-pcm pipeline run.
type Config struct {
	// Input directory holding one PCM file per channel.
	InputDir string `yaml:"input_dir"`
	// Channels is the number of channel files expected in InputDir.
	Channels int `yaml:"channels"`
	// Pattern selects channel files within InputDir.
	Pattern string `yaml:"pattern"`
	// InputEncoding and OutputEncoding name the sample format on each
	// side of the pipeline ("int16" or "float32").
	InputEncoding  string `yaml:"input_encoding"`
	OutputEncoding string `yaml:"output_encoding"`
	// AmplificationDB is the gain applied to every sample, in decibels.
	AmplificationDB float32 `yaml:"amplification_db"`
	// OutputPath is where the interleaved, compressed result is written.
	// Empty means stdout.
	OutputPath string `yaml:"output_path"`
	// OutputCodec names the compressor applied to the output stream
	// ("none", "snappy", "lz4", "zstd").
	OutputCodec string `yaml:"output_codec"`
	// BufferBound is the depth, in packets, of the mpmc channels that
	// runPipeline creates: each amplifier's output and the interleaved
	// stream. The reader's per-channel outputs use pcm.DefaultBufferDepth
	// instead. The field is parsed as a datasize.ByteSize, so a plain
	// number such as "128" is taken as is and a suffixed size such as "4KB"
	// becomes the corresponding byte count, used directly as the packet
	// count.
	BufferBound datasize.ByteSize `yaml:"buffer_bound"`
}

// DefaultConfig returns the baseline settings used when a config file
// leaves a field unset.
func DefaultConfig() *Config {
	return &Config{
		Pattern:         "*.pcm",
		InputEncoding:   "int16",
		OutputEncoding:  "int16",
		AmplificationDB: 0,
		OutputCodec:     string(codec.KindNone),
		BufferBound:     128,
	}
}

// LoadConfig reads and parses a YAML config file, starting from
// DefaultConfig so unspecified fields keep sane values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}
	if cfg.InputDir == "" {
		return nil, fmt.Errorf("config: input_dir is required")
	}
	if cfg.Channels < 1 {
		return nil, fmt.Errorf("config: channels must be >= 1")
	}
	return cfg, nil
}

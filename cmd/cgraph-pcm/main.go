// Command cgraph-pcm wires together the pkg/pcm example nodes into a
// runnable pipeline: read a directory of per-channel PCM files, amplify
// each channel, interleave them back together, and write the result out —
// compressed and checksummed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mattiekat/cgraph/internal/codec"
	"github.com/mattiekat/cgraph/pkg/cgraph"
	"github.com/mattiekat/cgraph/pkg/mpmc"
	"github.com/mattiekat/cgraph/pkg/pcm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cgraph-pcm",
	Short: "Run an amplify-interleave-write PCM compute graph",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load the configured pipeline and run it to completion",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		return runPipeline(cfg)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Parse the config file and report any errors, without running",
	RunE: func(_ *cobra.Command, _ []string) error {
		_, err := LoadConfig(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the pipeline configuration file (required)")
	rootCmd.MarkPersistentFlagRequired("config")
	rootCmd.AddCommand(runCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func runPipeline(cfg *Config) error {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	inputEnc, err := pcm.ParseEncoding(cfg.InputEncoding)
	if err != nil {
		return fmt.Errorf("input_encoding: %w", err)
	}
	outputEnc, err := pcm.ParseEncoding(cfg.OutputEncoding)
	if err != nil {
		return fmt.Errorf("output_encoding: %w", err)
	}
	c, err := codec.New(codec.Kind(cfg.OutputCodec))
	if err != nil {
		return fmt.Errorf("output_codec: %w", err)
	}

	reader, channels, err := pcm.NewReadPcmDirectory(cfg.InputDir, inputEnc, cfg.Pattern, cfg.Channels)
	if err != nil {
		return fmt.Errorf("failed to set up directory reader: %w", err)
	}

	nodes := []cgraph.Node{reader}
	amplified := make([]*mpmc.Receiver[[]float32], 0, len(channels))
	for i, rx := range channels {
		tx, ampRx := mpmc.New[[]float32](int(cfg.BufferBound))
		amp := cgraph.NewFunc1To1(
			fmt.Sprintf("Amplifier[%d]", i),
			rx, tx,
			pcm.Amplifier(cfg.AmplificationDB),
		)
		nodes = append(nodes, amp)
		amplified = append(amplified, ampRx)
	}

	interleavedTx, interleavedRx := mpmc.New[[]float32](int(cfg.BufferBound))
	nodes = append(nodes, pcm.NewInterleaveChannels(amplified, interleavedTx))

	var writer cgraph.Node
	if cfg.OutputPath == "" {
		writer = pcm.NewWritePcmWriter(os.Stdout, interleavedRx, outputEnc, c)
	} else {
		w, err := pcm.NewWritePcmFile(cfg.OutputPath, interleavedRx, outputEnc, c)
		if err != nil {
			return fmt.Errorf("failed to open output: %w", err)
		}
		writer = w
	}
	nodes = append(nodes, writer)

	g := cgraph.New(nodes, cgraph.WithLogger(log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return g.Run(ctx)
}

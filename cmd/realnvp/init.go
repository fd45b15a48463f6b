package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/realnvp/internal/flow"
	"github.com/born-ml/realnvp/internal/tensor"
)

func newInitCmd() *cobra.Command {
	var (
		configPath string
		out        string
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a freshly initialized flow checkpoint",
		Long: `Builds a RealNVP flow from a YAML config (or the defaults) and writes its
parameters and config to a SafeTensors checkpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := flow.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = flow.LoadConfig(configPath); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			backend := newBackend(0)
			switch cfg.DataType() {
			case tensor.Float32:
				return initModel[float32](cmd, cfg, out, backend)
			case tensor.Float64:
				return initModel[float64](cmd, cfg, out, backend)
			default:
				return errors.New("unreachable dtype")
			}
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML flow config (defaults if empty)")
	cmd.Flags().StringVarP(&out, "out", "o", "model.safetensors", "output checkpoint path")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "override the config seed")
	return cmd
}

func initModel[T tensor.Float](cmd *cobra.Command, cfg flow.Config, out string, backend Backend) error {
	model, err := flow.NewRealNVP[T](cfg, backend)
	if err != nil {
		return err
	}
	if err := saveModel(out, model); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d coupling layers, %d parameters\n", out, model.Len(), model.NumParameters())
	return nil
}

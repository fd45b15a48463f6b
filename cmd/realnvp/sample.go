package main

import (
	"errors"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/born-ml/realnvp/internal/flow"
	"github.com/born-ml/realnvp/internal/tensor"
)

type sampleOptions struct {
	model   string
	n       int
	seed    uint64
	logProb bool
}

func newSampleCmd() *cobra.Command {
	var opts sampleOptions

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw samples from a flow",
		Long: `Draws rows z from a standard normal and prints Forward(z) as
comma-separated values, one row per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ckpt, err := readCheckpoint(opts.model)
			if err != nil {
				return err
			}
			switch ckpt.cfg.DataType() {
			case tensor.Float32:
				return sample[float32](cmd, ckpt, opts)
			case tensor.Float64:
				return sample[float64](cmd, ckpt, opts)
			default:
				return errors.New("unreachable dtype")
			}
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "model.safetensors", "checkpoint path")
	cmd.Flags().IntVarP(&opts.n, "n", "n", 10, "number of samples")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "sampling seed")
	cmd.Flags().BoolVar(&opts.logProb, "log-prob", false, "append the log-probability of each sample")
	return cmd
}

func sample[T tensor.Float](cmd *cobra.Command, ckpt *checkpoint, opts sampleOptions) error {
	backend := newBackend(0)
	model, err := loadModel[T](ckpt, backend)
	if err != nil {
		return err
	}

	dist := flow.NewFlow[T, Backend](model, model.Dim(), rand.NewPCG(opts.seed, opts.seed+1), backend)
	y, logp, err := dist.SampleWithLogProb(opts.n)
	if err != nil {
		return err
	}
	if !opts.logProb {
		logp = nil
	}
	return writeRows(cmd.OutOrStdout(), y, logp)
}

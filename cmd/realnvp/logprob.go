package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/born-ml/realnvp/internal/flow"
	"github.com/born-ml/realnvp/internal/tensor"
)

func newLogProbCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "logprob",
		Short: "Score rows read from stdin",
		Long: `Reads comma-separated rows from stdin and prints log p(x) for each row,
one value per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ckpt, err := readCheckpoint(model)
			if err != nil {
				return err
			}
			switch ckpt.cfg.DataType() {
			case tensor.Float32:
				return logProb[float32](cmd, ckpt)
			case tensor.Float64:
				return logProb[float64](cmd, ckpt)
			default:
				return errors.New("unreachable dtype")
			}
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "model.safetensors", "checkpoint path")
	return cmd
}

func logProb[T tensor.Float](cmd *cobra.Command, ckpt *checkpoint) error {
	backend := newBackend(0)
	model, err := loadModel[T](ckpt, backend)
	if err != nil {
		return err
	}

	rows, err := readRows[T](cmd.InOrStdin(), model.Dim())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	x, err := tensor.FromRows(rows, backend)
	if err != nil {
		return err
	}

	logp, err := flow.NewFlow[T, Backend](model, model.Dim(), nil, backend).LogProb(x)
	if err != nil {
		return err
	}
	return writeRows(cmd.OutOrStdout(), logp.Reshape(len(rows), 1), nil)
}

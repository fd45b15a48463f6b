package main

import (
	"errors"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/born-ml/realnvp/internal/backend/cpu"
	"github.com/born-ml/realnvp/internal/flow"
	"github.com/born-ml/realnvp/internal/parallel"
	"github.com/born-ml/realnvp/internal/serialization"
	"github.com/born-ml/realnvp/internal/tensor"
)

// Checkpoint metadata keys.
const (
	metaFormat  = "format"
	metaVersion = "version"
	metaConfig  = "config"

	formatName = "realnvp"
)

var errNotACheckpoint = errors.New("not a realnvp checkpoint")

// checkpoint is a loaded state dict plus the config it was built from.
type checkpoint struct {
	path      string
	cfg       flow.Config
	stateDict map[string]*tensor.RawTensor
}

func saveModel[T tensor.Float](path string, model *flow.RealNVP[T, Backend]) error {
	cfg, err := model.Config().Marshal()
	if err != nil {
		return err
	}
	metadata := map[string]string{
		metaFormat:  formatName,
		metaVersion: version,
		metaConfig:  string(cfg),
	}
	return serialization.WriteSafeTensors(path, model.StateDict(), metadata)
}

func readCheckpoint(path string) (*checkpoint, error) {
	stateDict, metadata, err := serialization.ReadSafeTensors(path)
	if err != nil {
		return nil, err
	}
	if metadata[metaFormat] != formatName {
		return nil, fmt.Errorf("%s: %w (format %q)", path, errNotACheckpoint, metadata[metaFormat])
	}
	cfg, err := flow.ParseConfig([]byte(metadata[metaConfig]))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	klog.V(1).Infof("Loaded checkpoint %s (written by %s): %d tensors", path, metadata[metaVersion], len(stateDict))
	return &checkpoint{path: path, cfg: cfg, stateDict: stateDict}, nil
}

func loadModel[T tensor.Float](ckpt *checkpoint, backend Backend) (*flow.RealNVP[T, Backend], error) {
	model, err := flow.NewRealNVP[T](ckpt.cfg, backend)
	if err != nil {
		return nil, err
	}
	if err := model.LoadStateDict(ckpt.stateDict); err != nil {
		return nil, fmt.Errorf("%s: %w", ckpt.path, err)
	}
	return model, nil
}

func newBackend(workers int) Backend {
	if workers <= 0 {
		return cpu.New()
	}
	cfg := parallel.DefaultConfig()
	cfg.NumWorkers = workers
	cfg.Enabled = workers > 1
	return cpu.NewWithConfig(cfg)
}

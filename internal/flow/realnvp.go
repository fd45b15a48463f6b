package flow

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"strings"

	"k8s.io/klog/v2"

	"github.com/born-ml/realnvp/internal/bijector"
	"github.com/born-ml/realnvp/internal/nn"
	"github.com/born-ml/realnvp/internal/tensor"
)

// seedStream decorrelates the two PCG words derived from Config.Seed.
const seedStream = 0x9e3779b97f4a7c15

// RealNVP is a chain of affine coupling layers with alternating parity
// whose scale and translation functions are MLPs.
//
// Layer i (1-based) is named "coupling_<i>" and uses odd parity for odd i.
// It implements bijector.Bijector through the embedded Chain.
type RealNVP[T tensor.Float, B tensor.Backend] struct {
	*bijector.Chain[T, B]

	cfg    Config
	layers []*layer[T, B]
}

type layer[T tensor.Float, B tensor.Backend] struct {
	coupling    *bijector.Coupling[T, B]
	scale       *nn.Sequential[T, B]
	translation *nn.Sequential[T, B]
}

// NewRealNVP builds a flow from cfg on backend.
//
// T must match cfg.DType. Parameters are initialized deterministically from cfg.Seed.
func NewRealNVP[T tensor.Float, B tensor.Backend](cfg Config, backend B) (*RealNVP[T, B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if want := tensor.DataTypeOf[T](); cfg.DataType() != want {
		return nil, fmt.Errorf("%w: config dtype %s, flow built for %s", ErrDTypeMismatch, cfg.DType, want)
	}

	src := rand.NewPCG(cfg.Seed, cfg.Seed^seedStream)
	f := &RealNVP[T, B]{cfg: cfg}
	couplings := make([]bijector.Bijector[T, B], 0, cfg.Layers)

	for i := 1; i <= cfg.Layers; i++ {
		parity := bijector.ParityOdd
		if i%2 == 0 {
			parity = bijector.ParityEven
		}
		pass, transformed := parity.Partition(cfg.Dim)

		scale, err := nn.NewMLP[T](len(pass), cfg.Hidden, len(transformed), cfg.Activation, src, backend)
		if err != nil {
			return nil, fmt.Errorf("%w: coupling_%d scale: %w", ErrInvalidConfig, i, err)
		}
		translation, err := nn.NewMLP[T](len(pass), cfg.Hidden, len(transformed), cfg.Activation, src, backend)
		if err != nil {
			return nil, fmt.Errorf("%w: coupling_%d translation: %w", ErrInvalidConfig, i, err)
		}

		coupling, err := bijector.NewCoupling(parity, layerName(i),
			bijector.FromModule[T, B](scale),
			bijector.FromModule[T, B](translation))
		if err != nil {
			return nil, err
		}

		f.layers = append(f.layers, &layer[T, B]{coupling: coupling, scale: scale, translation: translation})
		couplings = append(couplings, coupling)
	}
	f.Chain = bijector.NewChain("real_nvp", couplings...)

	klog.V(1).Infof("Built RealNVP: dim=%d layers=%d hidden=%v activation=%s dtype=%s params=%d",
		cfg.Dim, cfg.Layers, cfg.Hidden, cfg.Activation, cfg.DType, f.NumParameters())

	return f, nil
}

func layerName(i int) string {
	return fmt.Sprintf("coupling_%d", i)
}

// Config returns the configuration the flow was built from.
func (f *RealNVP[T, B]) Config() Config {
	return f.cfg
}

// Dim returns the number of features per row.
func (f *RealNVP[T, B]) Dim() int {
	return f.cfg.Dim
}

// Coupling returns layer i (0-based).
//
// Panics if i is out of range.
func (f *RealNVP[T, B]) Coupling(i int) *bijector.Coupling[T, B] {
	return f.layers[i].coupling
}

// NumParameters returns the total number of scalar parameters.
func (f *RealNVP[T, B]) NumParameters() int {
	total := 0
	for _, l := range f.layers {
		for _, p := range append(l.scale.Parameters(), l.translation.Parameters()...) {
			total += p.Tensor().NumElements()
		}
	}
	return total
}

// StateDict returns every parameter keyed "coupling_<i>.<scale|translation>.<j>.<weight|bias>".
// The raw tensors alias the live parameters.
func (f *RealNVP[T, B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, l := range f.layers {
		prefix := layerName(i + 1)
		for name, raw := range l.scale.StateDict() {
			stateDict[prefix+".scale."+name] = raw
		}
		for name, raw := range l.translation.StateDict() {
			stateDict[prefix+".translation."+name] = raw
		}
	}
	return stateDict
}

// LoadStateDict copies parameters from stateDict.
//
// Every parameter must be present with matching shape and dtype; keys that
// belong to no parameter are rejected so checkpoints of a different layout
// fail loudly.
func (f *RealNVP[T, B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	unused := maps.Clone(stateDict)
	for i, l := range f.layers {
		prefix := layerName(i + 1)
		for part, mlp := range map[string]*nn.Sequential[T, B]{"scale": l.scale, "translation": l.translation} {
			sub := subDict(stateDict, prefix+"."+part+".")
			if err := mlp.LoadStateDict(sub); err != nil {
				return fmt.Errorf("%s.%s: %w", prefix, part, err)
			}
			for name := range mlp.StateDict() {
				delete(unused, prefix+"."+part+"."+name)
			}
		}
	}
	for key := range unused {
		return fmt.Errorf("unexpected parameter %q in state dict", key)
	}
	return nil
}

func subDict(stateDict map[string]*tensor.RawTensor, prefix string) map[string]*tensor.RawTensor {
	sub := make(map[string]*tensor.RawTensor)
	for key, raw := range stateDict {
		if name, ok := strings.CutPrefix(key, prefix); ok {
			sub[name] = raw
		}
	}
	return sub
}

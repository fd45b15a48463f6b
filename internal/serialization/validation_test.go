package serialization

import (
	"errors"
	"strings"
	"testing"
)

// TestValidateTensorOffsets checks overlap, bounds and sign validation.
func TestValidateTensorOffsets(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []TensorMeta
		dataSize int64
		wantErr  error
	}{
		{
			name: "contiguous",
			tensors: []TensorMeta{
				{Name: "coupling_1.scale.0.weight", Offset: 0, Size: 100},
				{Name: "coupling_1.scale.0.bias", Offset: 100, Size: 200},
				{Name: "coupling_1.scale.2.weight", Offset: 300, Size: 150},
			},
			dataSize: 500,
		},
		{
			name: "unsorted input",
			tensors: []TensorMeta{
				{Name: "b", Offset: 100, Size: 100},
				{Name: "a", Offset: 0, Size: 100},
			},
			dataSize: 200,
		},
		{
			name: "overlap by one byte",
			tensors: []TensorMeta{
				{Name: "tensor1", Offset: 0, Size: 100},
				{Name: "tensor2", Offset: 99, Size: 100},
			},
			dataSize: 200,
			wantErr:  ErrOffsetOverlap,
		},
		{
			name: "extends beyond data",
			tensors: []TensorMeta{
				{Name: "tensor1", Offset: 0, Size: 100},
				{Name: "tensor2", Offset: 100, Size: 200},
			},
			dataSize: 250,
			wantErr:  ErrOutOfBounds,
		},
		{
			name:     "starts beyond data",
			tensors:  []TensorMeta{{Name: "tensor1", Offset: 1000, Size: 100}},
			dataSize: 500,
			wantErr:  ErrOutOfBounds,
		},
		{
			name:     "negative offset",
			tensors:  []TensorMeta{{Name: "tensor1", Offset: -100, Size: 100}},
			dataSize: 500,
			wantErr:  ErrNegativeOffset,
		},
		{
			name:     "negative size",
			tensors:  []TensorMeta{{Name: "tensor1", Offset: 0, Size: -100}},
			dataSize: 500,
			wantErr:  ErrNegativeOffset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, tt.dataSize)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTensorOffsets() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTensorOffsets() error = %v, want %v", err, tt.wantErr)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Expected ValidationError, got %T", err)
			}
		})
	}
}

// TestValidateTensorOffsets_TooManyTensors prevents DoS via excessive tensor count.
func TestValidateTensorOffsets_TooManyTensors(t *testing.T) {
	tensors := make([]TensorMeta, MaxTensorCount+1)
	for i := range tensors {
		tensors[i] = TensorMeta{Name: "tensor", Offset: int64(i * 4), Size: 4}
	}

	err := ValidateTensorOffsets(tensors, int64(len(tensors)*4))
	if !errors.Is(err, ErrTooManyTensors) {
		t.Errorf("Expected ErrTooManyTensors, got %v", err)
	}
}

// TestValidateTensorName rejects path-like and reserved names.
func TestValidateTensorName(t *testing.T) {
	badNames := []string{
		"",
		"../../../etc/passwd",
		"..\\..\\windows\\system32",
		"layer/0/weight",
		"tensor\x00hidden",
		"__metadata__",
		strings.Repeat("a", MaxTensorNameLen+1),
	}
	for _, name := range badNames {
		if err := ValidateTensorName(name); !errors.Is(err, ErrInvalidTensorName) {
			t.Errorf("ValidateTensorName(%.20q) = %v, want ErrInvalidTensorName", name, err)
		}
	}

	validNames := []string{
		"coupling_1.scale.0.weight",
		"coupling_12.translation.4.bias",
		"UPPERCASE",
		"output:logits",
	}
	for _, name := range validNames {
		if err := ValidateTensorName(name); err != nil {
			t.Errorf("ValidateTensorName(%q) unexpected error: %v", name, err)
		}
	}
}

// TestValidationError_ErrorMessages verifies error message formatting.
func TestValidationError_ErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name: "single tensor",
			err: &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  "layer1",
				Details: "offset 100 + size 200 > data_size 250",
			},
			expected: `tensor extends beyond data section: tensor "layer1": offset 100 + size 200 > data_size 250`,
		},
		{
			name: "overlap",
			err: &ValidationError{
				Err:     ErrOffsetOverlap,
				Tensor:  "tensor1",
				Tensor2: "tensor2",
				Details: "regions [0-100] and [50-150] overlap",
			},
			expected: `tensor offsets overlap: tensors "tensor1" and "tensor2": regions [0-100] and [50-150] overlap`,
		},
		{
			name: "no tensor",
			err: &ValidationError{
				Err:     ErrTooManyTensors,
				Details: "got 100001, max 100000",
			},
			expected: "too many tensors in file: got 100001, max 100000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if actual := tt.err.Error(); actual != tt.expected {
				t.Errorf("Error message mismatch\nExpected: %s\nGot:      %s", tt.expected, actual)
			}
		})
	}
}

// FuzzValidateTensorName ensures name validation never panics on random input.
func FuzzValidateTensorName(f *testing.F) {
	f.Add("coupling_1.scale.0.weight")
	f.Add("../etc/passwd")
	f.Add("")
	f.Fuzz(func(t *testing.T, name string) {
		_ = ValidateTensorName(name)
	})
}

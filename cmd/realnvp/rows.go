package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/born-ml/realnvp/internal/tensor"
)

// readRows parses comma-separated rows of dim values. Blank lines and lines
// starting with '#' are skipped.
func readRows[T tensor.Float](r io.Reader, dim int) ([][]T, error) {
	var rows [][]T
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, ",")
		if len(fields) != dim {
			return nil, fmt.Errorf("line %d: got %d values, want %d", line, len(fields), dim)
		}
		row := make([]T, dim)
		for j, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			row[j] = T(v)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return rows, nil
}

func formatFloat[T tensor.Float](v T) string {
	bits := 64
	if tensor.DataTypeOf[T]() == tensor.Float32 {
		bits = 32
	}
	return strconv.FormatFloat(float64(v), 'g', -1, bits)
}

// writeRows prints a [n, d] tensor as comma-separated rows, with an optional
// trailing column.
func writeRows[T tensor.Float, B tensor.Backend](w io.Writer, t *tensor.Tensor[T, B], extra *tensor.Tensor[T, B]) error {
	bw := bufio.NewWriter(w)
	for i, row := range t.Rows() {
		fields := make([]string, 0, len(row)+1)
		for _, v := range row {
			fields = append(fields, formatFloat(v))
		}
		if extra != nil {
			fields = append(fields, formatFloat(extra.At(i)))
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/born-ml/tensorify/internal/tensor"
)

// WriteFile writes tensors to a SafeTensors file at path.
func WriteFile(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) (err error) {
	//nolint:gosec // G304: the output path is chosen by the user
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Write(bw, tensors, metadata); err != nil {
		return err
	}
	return bw.Flush()
}

// Write encodes tensors in SafeTensors format. Tensors are laid out in name
// order.
func Write(w io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := slices.Sorted(maps.Keys(tensors))

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}

	var offset int64
	for _, name := range names {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		raw := tensors[name]
		dtype, ok := dtypeToString(raw.DType())
		if !ok {
			return fmt.Errorf("%w: tensor %q has dtype %s", ErrUnsupportedDType, name, raw.DType())
		}
		shape := make([]int64, len(raw.Shape()))
		for i, dim := range raw.Shape() {
			shape[i] = int64(dim)
		}
		size := int64(raw.ByteSize())
		header[name] = TensorMeta{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, name := range names {
		if _, err := w.Write(tensors[name].Data()); err != nil {
			return fmt.Errorf("failed to write tensor %s: %w", name, err)
		}
	}
	return nil
}

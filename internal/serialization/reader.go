package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/tensorify/internal/tensor"
)

// ReadFile reads every tensor and the metadata of a SafeTensors file.
func ReadFile(path string) (map[string]*tensor.RawTensor, map[string]string, error) {
	//nolint:gosec // G304: the input path is chosen by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// Read decodes a SafeTensors stream. The header is validated before any
// tensor data is read.
func Read(r io.Reader) (map[string]*tensor.RawTensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	var header map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	var metadata map[string]string
	entries := make([]namedMeta, 0, len(header))
	for name, raw := range header {
		if name == metadataKey {
			if err := json.Unmarshal(raw, &metadata); err != nil {
				return nil, nil, fmt.Errorf("%w: metadata: %w", ErrInvalidHeader, err)
			}
			continue
		}
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		var meta TensorMeta
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, nil, fmt.Errorf("%w: tensor %q: %w", ErrInvalidHeader, name, err)
		}
		entries = append(entries, namedMeta{name: name, meta: meta})
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := validateOffsets(entries, int64(len(data))); err != nil {
		return nil, nil, err
	}

	tensors := make(map[string]*tensor.RawTensor, len(entries))
	for _, e := range entries {
		raw, err := decodeTensor(e, data)
		if err != nil {
			return nil, nil, err
		}
		tensors[e.name] = raw
	}
	return tensors, metadata, nil
}

func decodeTensor(e namedMeta, data []byte) (*tensor.RawTensor, error) {
	dtype, ok := stringToDtype(e.meta.DType)
	if !ok {
		return nil, fmt.Errorf("%w: tensor %q has dtype %q", ErrUnsupportedDType, e.name, e.meta.DType)
	}
	shape := make(tensor.Shape, len(e.meta.Shape))
	for i, dim := range e.meta.Shape {
		shape[i] = int(dim)
	}
	raw, err := tensor.NewRaw(shape, dtype)
	if err != nil {
		return nil, fmt.Errorf("%w: tensor %q: %w", ErrInvalidHeader, e.name, err)
	}

	start, end := e.meta.DataOffsets[0], e.meta.DataOffsets[1]
	if int64(raw.ByteSize()) != end-start {
		return nil, &ValidationError{
			Err:     ErrInvalidHeader,
			Tensor:  e.name,
			Details: fmt.Sprintf("shape %v needs %d bytes, offsets span %d", shape, raw.ByteSize(), end-start),
		}
	}
	copy(raw.Data(), data[start:end])
	return raw, nil
}

package serialization

import (
	"github.com/born-ml/tensorify/internal/tensor"
)

// Limits applied when reading.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxTensorNameLen = 4096              // Maximum tensor name length
)

const metadataKey = "__metadata__"

// TensorMeta is one tensor entry of the header.
type TensorMeta struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

func dtypeToString(dt tensor.DataType) (string, bool) {
	switch dt {
	case tensor.Float32:
		return "F32", true
	case tensor.Float64:
		return "F64", true
	case tensor.Int32:
		return "I32", true
	case tensor.Int64:
		return "I64", true
	case tensor.Uint8:
		return "U8", true
	case tensor.Bool:
		return "BOOL", true
	default:
		return "", false
	}
}

func stringToDtype(s string) (tensor.DataType, bool) {
	switch s {
	case "F32":
		return tensor.Float32, true
	case "F64":
		return tensor.Float64, true
	case "I32":
		return tensor.Int32, true
	case "I64":
		return tensor.Int64, true
	case "U8":
		return tensor.Uint8, true
	case "BOOL":
		return tensor.Bool, true
	default:
		return 0, false
	}
}

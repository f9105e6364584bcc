package mcraw

import (
	"encoding/json"
	"fmt"
)

// ContainerMetadata describes the sensor for the whole recording. The
// json tags are the wire format of the vendor's metadata records; the
// misspelled sensorArrangment key is what real files carry and must be
// preserved as-is.
type ContainerMetadata struct {
	BlackLevel        []uint16  `json:"blackLevel"`
	WhiteLevel        float32   `json:"whiteLevel"`
	SensorArrangement string    `json:"sensorArrangment"`
	ColorMatrix1      []float32 `json:"colorMatrix1"`
	ColorMatrix2      []float32 `json:"colorMatrix2"`
	ForwardMatrix1    []float32 `json:"forwardMatrix1"`
	ForwardMatrix2    []float32 `json:"forwardMatrix2"`
}

// FrameMetadata describes one captured frame.
type FrameMetadata struct {
	Width           int32     `json:"width"`
	Height          int32     `json:"height"`
	AsShotNeutral   []float32 `json:"asShotNeutral"`
	CompressionType int32     `json:"compressionType"`
}

func ParseContainerMetadata(s string) (ContainerMetadata, error) {
	var meta ContainerMetadata
	if err := json.Unmarshal([]byte(s), &meta); err != nil {
		return ContainerMetadata{}, fmt.Errorf("mcraw: container metadata: %w", err)
	}
	return meta, nil
}

func ParseFrameMetadata(s string) (FrameMetadata, error) {
	var meta FrameMetadata
	if err := json.Unmarshal([]byte(s), &meta); err != nil {
		return FrameMetadata{}, fmt.Errorf("mcraw: frame metadata: %w", err)
	}
	if meta.Width <= 0 || meta.Height <= 0 {
		return FrameMetadata{}, FormatError(fmt.Sprintf("frame dimensions %dx%d", meta.Width, meta.Height))
	}
	return meta, nil
}

package store

import (
	"encoding/binary"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
)

// Array columns use the numpy buffer layout of the original files:
// little-endian, int32 for atomic numbers, float64 for everything else.

func blobFromInts(values []int) []byte {
	if len(values) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(int32(v)))
	}
	return buf
}

func intsFromBlob(blob []byte) ([]int, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("int32 blob length %d not a multiple of 4", len(blob))
	}
	values := make([]int, len(blob)/4)
	for i := range values {
		values[i] = int(int32(binary.LittleEndian.Uint32(blob[4*i:])))
	}
	return values, nil
}

func blobFromFloats(values []float64) []byte {
	if len(values) == 0 {
		return nil
	}
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

func floatsFromBlob(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("float64 blob length %d not a multiple of 8", len(blob))
	}
	values := make([]float64, len(blob)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
	}
	return values, nil
}

func blobFromVectors(vectors [][3]float64) []byte {
	if len(vectors) == 0 {
		return nil
	}
	flat := make([]float64, 0, 3*len(vectors))
	for _, v := range vectors {
		flat = append(flat, v[0], v[1], v[2])
	}
	return blobFromFloats(flat)
}

func vectorsFromBlob(blob []byte) ([][3]float64, error) {
	flat, err := floatsFromBlob(blob)
	if err != nil {
		return nil, err
	}
	if len(flat)%3 != 0 {
		return nil, fmt.Errorf("vector blob holds %d floats, not a multiple of 3", len(flat))
	}
	vectors := make([][3]float64, len(flat)/3)
	for i := range vectors {
		copy(vectors[i][:], flat[3*i:3*i+3])
	}
	return vectors, nil
}

func blobFromCell(cell [3][3]float64) []byte {
	return blobFromVectors([][3]float64{cell[0], cell[1], cell[2]})
}

func cellFromBlob(blob []byte) ([3][3]float64, error) {
	var cell [3][3]float64
	if len(blob) == 0 {
		return cell, nil
	}
	vectors, err := vectorsFromBlob(blob)
	if err != nil {
		return cell, err
	}
	if len(vectors) != 3 {
		return cell, fmt.Errorf("cell blob holds %d vectors, want 3", len(vectors))
	}
	copy(cell[:], vectors)
	return cell, nil
}

func jsonText(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	return string(raw), nil
}

func mapFromJSON(text string) (map[string]any, error) {
	if text == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, fmt.Errorf("decode json column: %w", err)
	}
	return m, nil
}

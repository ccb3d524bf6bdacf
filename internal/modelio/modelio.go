// Package modelio loads the voxel models the renderer builds SVOs
// from. Models are stored as CSV files named "<name>_<N>.csv", one
// line per occupied cell ("x,y,z"), where N is the cubical grid's
// edge length — the same convention the reference implementation's
// from_csv loader used.
package modelio

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/voxtrace/voxtrace/internal/errors"
	"github.com/voxtrace/voxtrace/internal/logger"
	"github.com/voxtrace/voxtrace/internal/storage"
	"github.com/voxtrace/voxtrace/internal/voxelgrid"
)

// Load reads key from backend and parses it into a Grid. key must
// match the "<name>_<N>.csv" convention; N becomes the grid's edge
// length.
func Load(ctx context.Context, backend storage.Backend, key string) (*voxelgrid.Grid, error) {
	size, err := sizeFromFilename(key)
	if err != nil {
		return nil, err
	}

	data, err := backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", key, err)
	}

	grid, err := voxelgrid.New(size)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", key, err)
	}

	if err := populate(grid, data); err != nil {
		return nil, fmt.Errorf("model %s: %w", key, err)
	}

	logger.Info("loaded model %s (size %d)", key, size)
	return grid, nil
}

// List returns every "*.csv" key under prefix, sorted, suitable for
// batch-building a scene from a whole model directory.
func List(ctx context.Context, backend storage.Backend, prefix string) ([]string, error) {
	keys, err := backend.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var csvKeys []string
	for _, k := range keys {
		if strings.HasSuffix(k, ".csv") {
			csvKeys = append(csvKeys, k)
		}
	}
	sort.Strings(csvKeys)
	return csvKeys, nil
}

// populate reads "x,y,z" rows from data and marks each as occupied.
func populate(grid *voxelgrid.Grid, data []byte) error {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("csv parse error: %w", err)
		}

		x, err := parseCoord(record[0])
		if err != nil {
			return err
		}
		y, err := parseCoord(record[1])
		if err != nil {
			return err
		}
		z, err := parseCoord(record[2])
		if err != nil {
			return err
		}

		grid.Set(x, y, z)
	}
}

func parseCoord(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	return uint32(v), nil
}

// sizeFromFilename extracts N from "<name>_<N>.csv".
func sizeFromFilename(key string) (uint32, error) {
	base := path.Base(key)
	base = strings.TrimSuffix(base, ".csv")

	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return 0, errors.Newf(errors.KindInput, "modelio", "sizeFromFilename", "%s does not match <name>_<N>.csv", key)
	}

	sizeStr := base[idx+1:]
	size, err := strconv.ParseUint(sizeStr, 10, 32)
	if err != nil {
		return 0, errors.Newf(errors.KindInput, "modelio", "sizeFromFilename", "%s has a non-numeric size suffix %q", key, sizeStr)
	}

	return uint32(size), nil
}

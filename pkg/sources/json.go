package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

func init() {
	Register(TypeJSON, loadJSONFile)
}

func loadJSONFile(_ context.Context, cfg Config) ([]datatable.Record, []schema.Column, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", cfg.Path, err)
	}
	defer f.Close()

	rows, err := DecodeRecords(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", cfg.Path, err)
	}
	return rows, nil, nil
}

// DecodeRecords читает JSON-массив объектов или один объект
func DecodeRecords(r io.Reader) ([]datatable.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decodeRecords(data)
}

func decodeRecords(data []byte) ([]datatable.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	switch data[0] {
	case '[':
		var rows []datatable.Record
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, err
		}
		for i, r := range rows {
			if r == nil {
				return nil, fmt.Errorf("element %d is not an object", i)
			}
		}
		return rows, nil
	case '{':
		var row datatable.Record
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, err
		}
		return []datatable.Record{row}, nil
	default:
		return nil, fmt.Errorf("expected JSON object or array, got %q", data[0])
	}
}

package sources

import (
	"context"
	"time"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
	"github.com/ruslano69/tdtp-datagrid/pkg/mockdata"
)

// DefaultMockRows — размер демонстрационного набора
const DefaultMockRows = 1000

func init() {
	Register(TypeMock, loadMock)
}

// mockNow — опорное время демонстрационного набора
var mockNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func loadMock(_ context.Context, cfg Config) ([]datatable.Record, []schema.Column, error) {
	n := cfg.Rows
	if n == 0 {
		n = DefaultMockRows
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = mockdata.DefaultSeed
	}
	return mockdata.Activities(n, seed, mockNow), mockdata.ActivityColumns(), nil
}

package sources

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

func init() {
	Register(TypePostgres, loadPostgres)
}

func loadPostgres(ctx context.Context, cfg Config) ([]datatable.Record, []schema.Column, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, cfg.Query)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	typeMap := pgtype.NewMap()
	fields := rows.FieldDescriptions()
	b := schema.NewBuilder()
	for _, fd := range fields {
		typeName := ""
		if t, ok := typeMap.TypeForOID(fd.DataTypeOID); ok {
			typeName = t.Name
		}
		b.Add(schema.Column{Key: fd.Name, SortType: sqlColumnType(typeName)})
	}
	columns := b.Build()

	var records []datatable.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row: %w", err)
		}
		rec := make(datatable.Record, len(columns))
		for i, col := range columns {
			rec[col.Key] = pgValue(values[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return records, columns, nil
}

// pgValue сводит типы pgx к тем, что понимает schema.Converter
func pgValue(v any) any {
	switch val := v.(type) {
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte: // uuid
		return fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16])
	case []byte:
		return string(val)
	default:
		return v
	}
}

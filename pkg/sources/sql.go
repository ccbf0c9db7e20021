package sources

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/denisenkom/go-mssqldb" // MS SQL Server driver
	_ "github.com/go-sql-driver/mysql"   // MySQL driver
	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
	_ "modernc.org/sqlite"
)

// Имена драйверов database/sql по типу источника
var sqlDrivers = map[string]string{
	TypeSQLite: "sqlite",
	TypeMySQL:  "mysql",
	TypeMSSQL:  "sqlserver",
}

func init() {
	for typ := range sqlDrivers {
		Register(typ, loadSQL)
	}
}

func loadSQL(ctx context.Context, cfg Config) ([]datatable.Record, []schema.Column, error) {
	db, err := sql.Open(sqlDrivers[cfg.Type], cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return QueryRecords(ctx, db, cfg.Query)
}

// QueryRecords выполняет SELECT и возвращает строки вместе со схемой,
// выведенной из типов колонок результата
func QueryRecords(ctx context.Context, db *sql.DB, query string) ([]datatable.Record, []schema.Column, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get column types: %w", err)
	}

	b := schema.NewBuilder()
	for _, ct := range columnTypes {
		b.Add(schema.Column{Key: ct.Name(), SortType: sqlColumnType(ct.DatabaseTypeName())})
	}
	columns := b.Build()

	var records []datatable.Record
	values := make([]any, len(columnTypes))
	ptrs := make([]any, len(columnTypes))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rec := make(datatable.Record, len(columns))
		for i, col := range columns {
			rec[col.Key] = normalizeValue(values[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return records, columns, nil
}

// normalizeValue превращает []byte драйвера в строку (буфер переиспользуется при Scan)
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

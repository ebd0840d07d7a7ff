package materializer

import (
	"fmt"
	"strings"

	parquet "github.com/parquet-go/parquet-go"
)

// Athena table names for the published datasets.
const (
	PlayerSeasonsTable = "fpl_player_seasons"
	TestResultsTable   = "promotion_test_results"
)

// BuildDrop returns a DROP TABLE IF EXISTS for table.
func BuildDrop(db, table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", db, table)
}

// BuildExternalTable returns CREATE EXTERNAL TABLE DDL over parquet files at
// location, with columns taken from T's parquet schema.
func BuildExternalTable[T any](db, table, location string) (string, error) {
	schema := parquet.SchemaOf(new(T))
	cols := make([]string, 0, len(schema.Fields()))
	for _, f := range schema.Fields() {
		typ, err := athenaType(f)
		if err != nil {
			return "", fmt.Errorf("%s.%s: %w", table, f.Name(), err)
		}
		cols = append(cols, fmt.Sprintf("  `%s` %s", f.Name(), typ))
	}
	return fmt.Sprintf(`
CREATE EXTERNAL TABLE IF NOT EXISTS %s.%s (
%s
)
STORED AS PARQUET
LOCATION '%s'
TBLPROPERTIES ('parquet.compression'='SNAPPY')`,
		db, table, strings.Join(cols, ",\n"), strings.TrimRight(location, "/")+"/"), nil
}

func athenaType(f parquet.Field) (string, error) {
	if !f.Leaf() {
		return "", fmt.Errorf("nested columns are not supported")
	}
	switch f.Type().Kind() {
	case parquet.Boolean:
		return "boolean", nil
	case parquet.Int32:
		return "int", nil
	case parquet.Int64:
		return "bigint", nil
	case parquet.Float:
		return "float", nil
	case parquet.Double:
		return "double", nil
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return "string", nil
	default:
		return "", fmt.Errorf("unsupported parquet kind %v", f.Type().Kind())
	}
}

// BuildSignificant lists significant results for one test, cheapest first
// within each position.
func BuildSignificant(db, test string) string {
	return fmt.Sprintf(`
SELECT test, position, price, sample_size_promoted, sample_size_not_promoted,
       avg_points_promoted, avg_points_not_promoted, difference, p_value
FROM %s.%s
WHERE significant AND test = '%s'
ORDER BY position, price`, db, TestResultsTable, strings.ReplaceAll(test, "'", "''"))
}

// BuildCount returns a row count for table.
func BuildCount(db, table string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS c FROM %s.%s", db, table)
}

// BuildPromotedBySeason counts promoted and non-promoted player-seasons.
func BuildPromotedBySeason(db string) string {
	return fmt.Sprintf(`
SELECT season, promoted_from_championship, COUNT(*) AS players, ROUND(AVG(total_points), 1) AS avg_points
FROM %s.%s
GROUP BY season, promoted_from_championship
ORDER BY season, promoted_from_championship`, db, PlayerSeasonsTable)
}

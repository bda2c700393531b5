// meridian-explain loads a catalog fixture and a scan description from a
// JSON file, runs materialized index selection, and reports the chosen
// index. It exists to debug selection decisions outside a running engine.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/meridiandb/MeridianDB/internal/catalog"
	"github.com/meridiandb/MeridianDB/internal/config"
	"github.com/meridiandb/MeridianDB/internal/log"
	"github.com/meridiandb/MeridianDB/internal/sql/planner"
	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

type fixture struct {
	Table tableFixture `json:"table"`
	Scan  scanFixture  `json:"scan"`
}

type tableFixture struct {
	Name       string             `json:"name"`
	KeysType   string             `json:"keys_type"`
	Columns    []columnFixture    `json:"columns"`
	Rollups    []rollupFixture    `json:"rollups"`
	Partitions []partitionFixture `json:"partitions"`
}

type columnFixture struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Key    bool   `json:"key"`
	Source string `json:"source,omitempty"`
}

type rollupFixture struct {
	Name    string          `json:"name"`
	Columns []columnFixture `json:"columns"`
}

type partitionFixture struct {
	Name string            `json:"name"`
	Rows map[string]uint64 `json:"rows"` // index name -> row count
}

type scanFixture struct {
	Output     []string           `json:"output"`
	Partitions []string           `json:"partitions"`
	Hints      []string           `json:"hints"`
	Predicates []predicateFixture `json:"predicates"`
}

type predicateFixture struct {
	Column string        `json:"column"`
	Op     string        `json:"op"`
	Value  interface{}   `json:"value,omitempty"`
	Values []interface{} `json:"values,omitempty"` // for "in"
}

func main() {
	fixturePath := flag.String("fixture", "", "path to the JSON fixture")
	configPath := flag.String("config", "", "optional path to a config file")
	verbose := flag.Bool("verbose", false, "print per-index match counts")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: meridian-explain -fixture <file> [-config <file>] [-verbose]")
		os.Exit(2)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fatal("loading config: %v", err)
		}
		cfg = loaded
	}
	log.SetDefault(log.NewTextLogger(cfg.SlogLevel()))

	if err := run(*fixturePath, cfg, *verbose); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "meridian-explain: "+format+"\n", args...)
	os.Exit(1)
}

func run(fixturePath string, cfg *config.Config, verbose bool) error {
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return err
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return fmt.Errorf("parsing fixture: %w", err)
	}

	cat := catalog.NewMemoryCatalog()
	table, partitionsByName, err := buildTable(cat, &fx.Table)
	if err != nil {
		return err
	}
	scan, conjuncts, err := buildScan(table, partitionsByName, &fx.Scan)
	if err != nil {
		return err
	}

	if !cfg.Optimizer.EnableIndexSelection {
		fmt.Println("index selection disabled by config; scanning base index")
		return nil
	}

	rule := planner.NewMaterializedIndexSelection().
		WithHintToken(cfg.Optimizer.PreAggregationHint)
	selected, changed, err := rule.SelectForScan(scan, conjuncts)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Printf("selection not applicable (keys type %s)\n", table.KeysType)
		return nil
	}

	chosen, err := table.Index(selected.SelectedIndexID)
	if err != nil {
		return err
	}
	fmt.Printf("selected index: %s (id=%d)\n", chosen.Name, chosen.ID)
	if planner.PreAggEnabledByHint(scan, cfg.Optimizer.PreAggregationHint) {
		fmt.Println("pre-aggregation forced by hint")
	}

	if verbose {
		counts, err := planner.KeyPrefixMatchCounts(scan, conjuncts)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(counts))
		for id := range counts {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			idx, err := table.Index(id)
			if err != nil {
				return err
			}
			fmt.Printf("  %-20s id=%-4d match=%d\n", idx.Name, id, counts[id])
		}
	}
	return nil
}

func buildTable(cat catalog.Catalog, fx *tableFixture) (*catalog.Table, map[string]int64, error) {
	keysType, err := parseKeysType(fx.KeysType)
	if err != nil {
		return nil, nil, err
	}
	schema := &catalog.TableSchema{
		TableName: fx.Name,
		KeysType:  keysType,
	}
	for _, c := range fx.Columns {
		def, err := parseColumn(c)
		if err != nil {
			return nil, nil, err
		}
		schema.Columns = append(schema.Columns, def)
	}
	table, err := cat.CreateTable(schema)
	if err != nil {
		return nil, nil, err
	}

	indexByName := map[string]int64{fx.Name: table.BaseIndexID}
	for _, r := range fx.Rollups {
		def := &catalog.RollupDef{Name: r.Name}
		for _, c := range r.Columns {
			colDef, err := parseColumn(c)
			if err != nil {
				return nil, nil, err
			}
			def.Columns = append(def.Columns, colDef)
		}
		idx, err := cat.AddRollupIndex(table.ID, def)
		if err != nil {
			return nil, nil, err
		}
		indexByName[r.Name] = idx.ID
	}

	partitionsByName := make(map[string]int64, len(fx.Partitions))
	for _, p := range fx.Partitions {
		part, err := cat.AddPartition(table.ID, p.Name)
		if err != nil {
			return nil, nil, err
		}
		partitionsByName[p.Name] = part.ID
		for indexName, rows := range p.Rows {
			id, ok := indexByName[indexName]
			if !ok {
				return nil, nil, fmt.Errorf("partition %q references unknown index %q", p.Name, indexName)
			}
			if err := cat.AddRows(table.ID, part.ID, id, rows); err != nil {
				return nil, nil, err
			}
		}
	}
	return table, partitionsByName, nil
}

func buildScan(table *catalog.Table, partitionsByName map[string]int64, fx *scanFixture) (*planner.LogicalOlapScan, []planner.Expression, error) {
	refByName := make(map[string]*planner.ColumnRef, len(table.Columns))
	for _, col := range table.Columns {
		refByName[col.Name] = &planner.ColumnRef{
			ColumnID:   col.ID,
			ColumnName: col.Name,
			ColumnType: col.DataType,
		}
	}

	output := make([]*planner.ColumnRef, 0, len(fx.Output))
	for _, name := range fx.Output {
		ref, ok := refByName[name]
		if !ok {
			return nil, nil, fmt.Errorf("scan output references unknown column %q", name)
		}
		output = append(output, ref)
	}

	partitionIDs := make([]int64, 0, len(fx.Partitions))
	for _, name := range fx.Partitions {
		id, ok := partitionsByName[name]
		if !ok {
			return nil, nil, fmt.Errorf("scan references unknown partition %q", name)
		}
		partitionIDs = append(partitionIDs, id)
	}

	conjuncts := make([]planner.Expression, 0, len(fx.Predicates))
	for _, p := range fx.Predicates {
		ref, ok := refByName[p.Column]
		if !ok {
			return nil, nil, fmt.Errorf("predicate references unknown column %q", p.Column)
		}
		expr, err := buildPredicate(ref, p)
		if err != nil {
			return nil, nil, err
		}
		conjuncts = append(conjuncts, expr)
	}

	return planner.NewLogicalOlapScan(table, partitionIDs, output, fx.Hints), conjuncts, nil
}

func buildPredicate(ref *planner.ColumnRef, p predicateFixture) (planner.Expression, error) {
	if strings.EqualFold(p.Op, "in") {
		opts := make([]planner.Expression, 0, len(p.Values))
		for _, v := range p.Values {
			opts = append(opts, literalOf(v))
		}
		return &planner.InPredicate{Compare: ref, Options: opts}, nil
	}
	op, err := parseCompareOp(p.Op)
	if err != nil {
		return nil, err
	}
	return &planner.ComparisonExpr{Op: op, Left: ref, Right: literalOf(p.Value)}, nil
}

func literalOf(v interface{}) *planner.Literal {
	switch val := v.(type) {
	case float64:
		return &planner.Literal{Value: types.NewBigIntValue(int64(val)), Type: types.BigInt}
	case string:
		return &planner.Literal{Value: types.NewVarcharValue(val), Type: types.Varchar}
	case bool:
		return &planner.Literal{Value: types.NewBooleanValue(val), Type: types.Boolean}
	default:
		return &planner.Literal{Value: types.NewNullValue(), Type: types.Unknown}
	}
}

func parseCompareOp(op string) (planner.CompareOp, error) {
	switch op {
	case "=":
		return planner.OpEqual, nil
	case "<=>":
		return planner.OpNullSafeEqual, nil
	case "!=", "<>":
		return planner.OpNotEqual, nil
	case "<":
		return planner.OpLess, nil
	case "<=":
		return planner.OpLessEqual, nil
	case ">":
		return planner.OpGreater, nil
	case ">=":
		return planner.OpGreaterEqual, nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", op)
	}
}

func parseKeysType(s string) (catalog.KeysType, error) {
	switch strings.ToUpper(s) {
	case "AGGREGATE":
		return catalog.AggregateKeys, nil
	case "UNIQUE":
		return catalog.UniqueKeys, nil
	case "DUPLICATE":
		return catalog.DuplicateKeys, nil
	default:
		return catalog.UnknownKeys, fmt.Errorf("unknown keys type %q", s)
	}
}

func parseColumn(c columnFixture) (catalog.ColumnDef, error) {
	dt, err := parseDataType(c.Type)
	if err != nil {
		return catalog.ColumnDef{}, err
	}
	return catalog.ColumnDef{
		Name:       c.Name,
		DataType:   dt,
		IsKey:      c.Key,
		SourceName: c.Source,
	}, nil
}

func parseDataType(s string) (types.DataType, error) {
	switch strings.ToUpper(s) {
	case "BOOLEAN":
		return types.Boolean, nil
	case "TINYINT":
		return types.TinyInt, nil
	case "SMALLINT":
		return types.SmallInt, nil
	case "INTEGER", "INT":
		return types.Integer, nil
	case "BIGINT":
		return types.BigInt, nil
	case "FLOAT":
		return types.Float, nil
	case "DOUBLE":
		return types.Double, nil
	case "VARCHAR":
		return types.Varchar, nil
	case "TIMESTAMP":
		return types.Timestamp, nil
	case "BITMAP":
		return types.Bitmap, nil
	case "HLL":
		return types.HLL, nil
	default:
		return nil, fmt.Errorf("unknown data type %q", s)
	}
}

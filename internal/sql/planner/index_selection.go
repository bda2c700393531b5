package planner

import (
	"sort"
	"strings"

	"github.com/google/btree"

	"github.com/meridiandb/MeridianDB/internal/catalog"
	"github.com/meridiandb/MeridianDB/internal/log"
)

// DefaultPreAggHint is the hint token that forces pre-aggregated rewriting
// regardless of further legality checks downstream.
const DefaultPreAggHint = "PREAGGOPEN"

// NormalizeColumnName strips backtick quoting from a column name.
func NormalizeColumnName(name string) string {
	return strings.ReplaceAll(name, "`", "")
}

// ShouldSelectIndex reports whether materialized index selection applies to
// a scan: the table's keys type must support it and no index may have been
// selected yet, which makes re-application a no-op.
func ShouldSelectIndex(scan *LogicalOlapScan) bool {
	switch scan.Table.KeysType {
	case catalog.AggregateKeys, catalog.UniqueKeys, catalog.DuplicateKeys:
		return !scan.IndexSelected
	default:
		return false
	}
}

// PreAggEnabledByHint reports whether the scan carries the hint token that
// forces pre-aggregation. The match is case-insensitive. Selection itself
// does not branch on this; downstream rewrite rules consult it.
func PreAggEnabledByHint(scan *LogicalOlapScan, hintToken string) bool {
	for _, h := range scan.Hints {
		if strings.EqualFold(h, hintToken) {
			return true
		}
	}
	return false
}

// ContainsAllRequiredColumns reports whether an index's schema can supply
// every required column. Schema names are considered under both their plain
// form and their without-prefix logical form, so a generated bitmap or HLL
// column satisfies a requirement expressed against its source column.
func ContainsAllRequiredColumns(table *catalog.Table, index *catalog.MaterializedIndex, required map[string]struct{}) (bool, error) {
	schema, err := table.SchemaByIndexID(index.ID, true)
	if err != nil {
		return false, err
	}
	names := make(map[string]struct{}, 2*len(schema))
	for _, col := range schema {
		names[NormalizeColumnName(col.Name)] = struct{}{}
		names[NormalizeColumnName(col.NameWithoutPrefix())] = struct{}{}
	}
	for req := range required {
		if _, ok := names[NormalizeColumnName(req)]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// splitByEquality classifies the conjuncts that can use a key prefix and
// splits the constrained column names into equality and non-equality sets.
// Unusable conjuncts are dropped.
func splitByEquality(conjuncts []Expression, nameByID map[int64]string) (equal, nonEqual map[string]struct{}, err error) {
	equal = make(map[string]struct{})
	nonEqual = make(map[string]struct{})
	for _, conjunct := range conjuncts {
		check, err := checkPrefixIndex(conjunct, nameByID)
		if err != nil {
			return nil, nil, err
		}
		switch check.kind {
		case checkEqual:
			equal[check.colName] = struct{}{}
		case checkNonEqual:
			nonEqual[check.colName] = struct{}{}
		case checkUnusable:
		}
	}
	return equal, nonEqual, nil
}

// keyPrefixMatchCount walks the index's ordered key columns left to right:
// an equality match keeps the prefix open, a non-equality match consumes
// exactly one position and closes it, and the first unmatched column ends
// it. Only one trailing range constraint can still use the sort order.
func keyPrefixMatchCount(index *catalog.MaterializedIndex, equal, nonEqual map[string]struct{}) int {
	matchCount := 0
	for _, col := range index.KeyColumns() {
		if _, ok := equal[col.Name]; ok {
			matchCount++
			continue
		}
		if _, ok := nonEqual[col.Name]; ok {
			matchCount++
		}
		break
	}
	return matchCount
}

// matchGroup collects the indexes sharing one key-prefix match count.
type matchGroup struct {
	count   int
	indexes []*catalog.MaterializedIndex
}

func lessMatchGroup(a, b *matchGroup) bool {
	return a.count < b.count
}

// matchKeyPrefixMost groups indexes by match count in an ordered tree and
// returns the group with the strict maximum, preserving the whole tie set.
func matchKeyPrefixMost(indexes []*catalog.MaterializedIndex, equal, nonEqual map[string]struct{}) []*catalog.MaterializedIndex {
	tree := btree.NewG(2, lessMatchGroup)
	for _, idx := range indexes {
		key := &matchGroup{count: keyPrefixMatchCount(idx, equal, nonEqual)}
		if group, ok := tree.Get(key); ok {
			group.indexes = append(group.indexes, idx)
			continue
		}
		key.indexes = []*catalog.MaterializedIndex{idx}
		tree.ReplaceOrInsert(key)
	}
	if max, ok := tree.Max(); ok {
		return max.indexes
	}
	return nil
}

// matchPrefixMost keeps the candidates whose key prefix matches the usable
// predicates most. Without any usable predicate there is nothing to rank on
// and the candidate set passes through unchanged.
func matchPrefixMost(candidates []*catalog.MaterializedIndex, conjuncts []Expression, nameByID map[int64]string) ([]*catalog.MaterializedIndex, error) {
	equal, nonEqual, err := splitByEquality(conjuncts, nameByID)
	if err != nil {
		return nil, err
	}
	if len(equal) == 0 && len(nonEqual) == 0 {
		return candidates, nil
	}
	matching := matchKeyPrefixMost(candidates, equal, nonEqual)
	if len(matching) == 0 {
		return candidates, nil
	}
	return matching, nil
}

// KeyPrefixMatchCounts computes the greedy key-prefix match count of every
// index of the scanned table against the classified conjuncts. Used by
// explain tooling.
func KeyPrefixMatchCounts(scan *LogicalOlapScan, conjuncts []Expression) (map[int64]int, error) {
	equal, nonEqual, err := splitByEquality(conjuncts, scan.OutputNameByID())
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int, len(scan.Table.Indexes))
	for id, idx := range scan.Table.Indexes {
		counts[id] = keyPrefixMatchCount(idx, equal, nonEqual)
	}
	return counts, nil
}

// SelectBestIndex picks the cheapest of the candidate indexes for a scan:
// best key-prefix match first, then ascending by summed row count over the
// selected partitions, schema column count, and index id. An empty
// candidate set degrades to the base index.
func SelectBestIndex(candidates []*catalog.MaterializedIndex, scan *LogicalOlapScan, conjuncts []Expression) (int64, error) {
	table := scan.Table
	matching, err := matchPrefixMost(candidates, conjuncts, scan.OutputNameByID())
	if err != nil {
		return 0, err
	}

	type rankedIndex struct {
		id       int64
		rowCount uint64
		colCount int
	}
	ranked := make([]rankedIndex, 0, len(matching))
	for _, idx := range matching {
		var rows uint64
		for _, pid := range scan.SelectedPartitionIDs {
			p, err := table.Partition(pid)
			if err != nil {
				return 0, err
			}
			rows += p.RowCount(idx.ID)
		}
		schema, err := table.SchemaByIndexID(idx.ID, false)
		if err != nil {
			return 0, err
		}
		ranked = append(ranked, rankedIndex{id: idx.ID, rowCount: rows, colCount: len(schema)})
	}

	if len(ranked) == 0 {
		return table.BaseIndexID, nil
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.rowCount != b.rowCount {
			return a.rowCount < b.rowCount
		}
		if a.colCount != b.colCount {
			return a.colCount < b.colCount
		}
		return a.id < b.id
	})
	return ranked[0].id, nil
}

// MaterializedIndexSelection is the optimization rule that resolves each
// eligible scan to the cheapest covering materialized index.
type MaterializedIndexSelection struct {
	logger    log.Logger
	hintToken string
}

// NewMaterializedIndexSelection creates the rule with the default hint
// token.
func NewMaterializedIndexSelection() *MaterializedIndexSelection {
	return &MaterializedIndexSelection{
		logger:    log.Default(),
		hintToken: DefaultPreAggHint,
	}
}

// WithHintToken overrides the pre-aggregation hint token.
func (r *MaterializedIndexSelection) WithHintToken(token string) *MaterializedIndexSelection {
	r.hintToken = token
	return r
}

// Apply resolves scans found directly or under a filter. Invariant errors
// (unknown index or partition ids, unmapped column references) leave the
// plan unchanged and are logged; they indicate an inconsistent snapshot and
// must not silently mis-rank.
func (r *MaterializedIndexSelection) Apply(plan LogicalPlan) (LogicalPlan, bool) {
	switch p := plan.(type) {
	case *LogicalFilter:
		scan, ok := p.Children()[0].(*LogicalOlapScan)
		if !ok {
			return plan, false
		}
		newScan, changed, err := r.SelectForScan(scan, p.Conjuncts)
		if err != nil {
			r.logger.Error("materialized index selection aborted", log.Any("error", err))
			return plan, false
		}
		if !changed {
			return plan, false
		}
		return NewLogicalFilter(newScan, p.Conjuncts), true

	case *LogicalOlapScan:
		newScan, changed, err := r.SelectForScan(p, nil)
		if err != nil {
			r.logger.Error("materialized index selection aborted", log.Any("error", err))
			return plan, false
		}
		if !changed {
			return plan, false
		}
		return newScan, true

	default:
		return plan, false
	}
}

// SelectForScan runs the gate, coverage filter, prefix matcher and cost
// tie-breaker for one scan and returns a scan copy carrying the chosen
// index. The required column set is the scan output plus every column the
// conjuncts reference.
func (r *MaterializedIndexSelection) SelectForScan(scan *LogicalOlapScan, conjuncts []Expression) (*LogicalOlapScan, bool, error) {
	if !ShouldSelectIndex(scan) {
		return scan, false, nil
	}

	required := CollectColumnNames(conjuncts...)
	for _, ref := range scan.Output {
		required[ref.ColumnName] = struct{}{}
	}

	candidates := make([]*catalog.MaterializedIndex, 0, len(scan.Table.Indexes))
	for _, idx := range scan.Table.Indexes {
		ok, err := ContainsAllRequiredColumns(scan.Table, idx, required)
		if err != nil {
			return nil, false, err
		}
		if ok {
			candidates = append(candidates, idx)
		}
	}

	best, err := SelectBestIndex(candidates, scan, conjuncts)
	if err != nil {
		return nil, false, err
	}
	r.logger.Debug("materialized index selected",
		log.String("table", scan.Table.TableName),
		log.Int64("index", best),
		log.Int("candidates", len(candidates)),
		log.Bool("preagg_hint", PreAggEnabledByHint(scan, r.hintToken)),
	)
	return scan.WithSelectedIndex(best), true, nil
}

package planner

import (
	"fmt"
	"strings"

	"github.com/meridiandb/MeridianDB/internal/sql/types"
)

// Expression represents an immutable expression tree in a query plan.
// Transformations always build new nodes; no expression is mutated in place.
type Expression interface {
	// String returns a rendered representation.
	String() string
	// DataType returns the data type of the expression.
	DataType() types.DataType
	// Accept accepts a visitor.
	Accept(visitor ExpressionVisitor) error
}

// ExpressionVisitor visits expressions. The variant set is closed: adding a
// node type means adding a method here, so every visitor is checked at
// compile time.
type ExpressionVisitor interface {
	VisitColumnRef(expr *ColumnRef) error
	VisitLiteral(expr *Literal) error
	VisitCast(expr *Cast) error
	VisitComparison(expr *ComparisonExpr) error
	VisitInPredicate(expr *InPredicate) error
	VisitIsNull(expr *IsNull) error
	VisitCaseWhen(expr *CaseWhen) error
	VisitScalarFunc(expr *ScalarFunc) error
	VisitAggregate(expr *AggregateExpr) error
}

// ColumnRef represents a reference to a column. ColumnID is the stable
// identifier used to resolve the reference against a scan's output; it is
// distinct from the textual name.
type ColumnRef struct {
	ColumnID   int64
	ColumnName string
	ColumnType types.DataType
}

func (c *ColumnRef) String() string {
	return c.ColumnName
}

func (c *ColumnRef) DataType() types.DataType {
	return c.ColumnType
}

func (c *ColumnRef) Accept(visitor ExpressionVisitor) error {
	return visitor.VisitColumnRef(c)
}

// Literal represents a literal value.
type Literal struct {
	Value types.Value
	Type  types.DataType
}

func (l *Literal) String() string {
	if l.Value.IsNull() {
		return "NULL"
	}
	if s, ok := l.Value.Data.(string); ok {
		return fmt.Sprintf("'%s'", strings.ReplaceAll(s, "'", "''"))
	}
	return l.Value.String()
}

func (l *Literal) DataType() types.DataType {
	return l.Type
}

func (l *Literal) Accept(visitor ExpressionVisitor) error {
	return visitor.VisitLiteral(l)
}

// Cast represents an explicit type conversion.
type Cast struct {
	Expr Expression
	Type types.DataType
}

func (c *Cast) String() string {
	return fmt.Sprintf("CAST(%s AS %s)", c.Expr.String(), c.Type.Name())
}

func (c *Cast) DataType() types.DataType {
	return c.Type
}

func (c *Cast) Accept(visitor ExpressionVisitor) error {
	return visitor.VisitCast(c)
}

// CompareOp represents a comparison operator.
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpNullSafeEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

func (op CompareOp) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNullSafeEqual:
		return "<=>"
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return fmt.Sprintf("Unknown(%d)", int(op))
	}
}

// IsEquality reports whether the operator constrains its operands to a
// single value. Null-safe equality counts: it only widens equality to NULL.
func (op CompareOp) IsEquality() bool {
	return op == OpEqual || op == OpNullSafeEqual
}

// ComparisonExpr represents a binary comparison predicate.
type ComparisonExpr struct {
	Op    CompareOp
	Left  Expression
	Right Expression
}

func (c *ComparisonExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Left.String(), c.Op.String(), c.Right.String())
}

func (c *ComparisonExpr) DataType() types.DataType {
	return types.Boolean
}

func (c *ComparisonExpr) Accept(visitor ExpressionVisitor) error {
	return visitor.VisitComparison(c)
}

// InPredicate represents a membership test: Compare IN (Options...).
type InPredicate struct {
	Compare Expression
	Options []Expression
}

func (in *InPredicate) String() string {
	opts := make([]string, len(in.Options))
	for i, o := range in.Options {
		opts[i] = o.String()
	}
	return fmt.Sprintf("%s IN (%s)", in.Compare.String(), strings.Join(opts, ", "))
}

func (in *InPredicate) DataType() types.DataType {
	return types.Boolean
}

func (in *InPredicate) Accept(visitor ExpressionVisitor) error {
	return visitor.VisitInPredicate(in)
}

// IsNull represents an IS NULL test.
type IsNull struct {
	Expr Expression
}

func (n *IsNull) String() string {
	return fmt.Sprintf("%s IS NULL", n.Expr.String())
}

func (n *IsNull) DataType() types.DataType {
	return types.Boolean
}

func (n *IsNull) Accept(visitor ExpressionVisitor) error {
	return visitor.VisitIsNull(n)
}

// WhenClause is one WHEN ... THEN ... arm of a CaseWhen.
type WhenClause struct {
	When Expression
	Then Expression
}

// CaseWhen represents a searched CASE expression.
type CaseWhen struct {
	Clauses []WhenClause
	Else    Expression
}

func (c *CaseWhen) String() string {
	var b strings.Builder
	b.WriteString("CASE")
	for _, cl := range c.Clauses {
		fmt.Fprintf(&b, " WHEN %s THEN %s", cl.When.String(), cl.Then.String())
	}
	if c.Else != nil {
		fmt.Fprintf(&b, " ELSE %s", c.Else.String())
	}
	b.WriteString(" END")
	return b.String()
}

func (c *CaseWhen) DataType() types.DataType {
	if len(c.Clauses) > 0 {
		return c.Clauses[0].Then.DataType()
	}
	if c.Else != nil {
		return c.Else.DataType()
	}
	return types.Unknown
}

func (c *CaseWhen) Accept(visitor ExpressionVisitor) error {
	return visitor.VisitCaseWhen(c)
}

// ScalarFunc represents a scalar function application.
type ScalarFunc struct {
	Name string
	Args []Expression
	Type types.DataType
}

func (f *ScalarFunc) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(args, ", "))
}

func (f *ScalarFunc) DataType() types.DataType {
	return f.Type
}

func (f *ScalarFunc) Accept(visitor ExpressionVisitor) error {
	return visitor.VisitScalarFunc(f)
}

// AggregateFunc represents an aggregate function.
type AggregateFunc int

const (
	AggCount AggregateFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
	AggNDV
)

func (f AggregateFunc) String() string {
	switch f {
	case AggCount:
		return "COUNT"
	case AggSum:
		return "SUM"
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	case AggNDV:
		return "NDV"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// AggregateExpr represents an aggregate function application.
type AggregateExpr struct {
	Function AggregateFunc
	Args     []Expression
	Distinct bool
	Type     types.DataType
}

func (a *AggregateExpr) String() string {
	args := make([]string, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.String()
	}
	distinct := ""
	if a.Distinct {
		distinct = "DISTINCT "
	}
	return fmt.Sprintf("%s(%s%s)", a.Function.String(), distinct, strings.Join(args, ", "))
}

func (a *AggregateExpr) DataType() types.DataType {
	return a.Type
}

func (a *AggregateExpr) Accept(visitor ExpressionVisitor) error {
	return visitor.VisitAggregate(a)
}

// IsConstant reports whether an expression folds to a constant: a literal,
// or a cast, comparison, membership test, or function over constants only.
func IsConstant(expr Expression) bool {
	switch e := expr.(type) {
	case *Literal:
		return true
	case *Cast:
		return IsConstant(e.Expr)
	case *ComparisonExpr:
		return IsConstant(e.Left) && IsConstant(e.Right)
	case *InPredicate:
		if !IsConstant(e.Compare) {
			return false
		}
		return allConstant(e.Options)
	case *IsNull:
		return IsConstant(e.Expr)
	case *ScalarFunc:
		return allConstant(e.Args)
	default:
		return false
	}
}

func allConstant(exprs []Expression) bool {
	for _, e := range exprs {
		if !IsConstant(e) {
			return false
		}
	}
	return true
}

// columnRefCollector gathers the names of every column referenced by an
// expression tree.
type columnRefCollector struct {
	names map[string]struct{}
}

func newColumnRefCollector() *columnRefCollector {
	return &columnRefCollector{names: make(map[string]struct{})}
}

func (c *columnRefCollector) VisitColumnRef(expr *ColumnRef) error {
	c.names[expr.ColumnName] = struct{}{}
	return nil
}

func (c *columnRefCollector) VisitLiteral(expr *Literal) error {
	return nil
}

func (c *columnRefCollector) VisitCast(expr *Cast) error {
	return expr.Expr.Accept(c)
}

func (c *columnRefCollector) VisitComparison(expr *ComparisonExpr) error {
	if err := expr.Left.Accept(c); err != nil {
		return err
	}
	return expr.Right.Accept(c)
}

func (c *columnRefCollector) VisitInPredicate(expr *InPredicate) error {
	if err := expr.Compare.Accept(c); err != nil {
		return err
	}
	for _, opt := range expr.Options {
		if err := opt.Accept(c); err != nil {
			return err
		}
	}
	return nil
}

func (c *columnRefCollector) VisitIsNull(expr *IsNull) error {
	return expr.Expr.Accept(c)
}

func (c *columnRefCollector) VisitCaseWhen(expr *CaseWhen) error {
	for _, cl := range expr.Clauses {
		if err := cl.When.Accept(c); err != nil {
			return err
		}
		if err := cl.Then.Accept(c); err != nil {
			return err
		}
	}
	if expr.Else != nil {
		return expr.Else.Accept(c)
	}
	return nil
}

func (c *columnRefCollector) VisitScalarFunc(expr *ScalarFunc) error {
	for _, a := range expr.Args {
		if err := a.Accept(c); err != nil {
			return err
		}
	}
	return nil
}

func (c *columnRefCollector) VisitAggregate(expr *AggregateExpr) error {
	for _, a := range expr.Args {
		if err := a.Accept(c); err != nil {
			return err
		}
	}
	return nil
}

// CollectColumnNames returns the set of column names referenced by the given
// expressions.
func CollectColumnNames(exprs ...Expression) map[string]struct{} {
	c := newColumnRefCollector()
	for _, e := range exprs {
		// The collector never fails; Accept's error channel is for
		// visitors that can.
		_ = e.Accept(c)
	}
	return c.names
}

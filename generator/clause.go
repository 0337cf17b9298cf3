package generator

import "github.com/ridoystarlord/knexgen/schema"

// Primitive names the knex column builder a clause is rendered with.
type Primitive string

const (
	PrimTimestamp     Primitive = "timestamp"
	PrimTime          Primitive = "time"
	PrimDecimal       Primitive = "decimal"
	PrimString        Primitive = "string"
	PrimUUID          Primitive = "uuid"
	PrimIncrements    Primitive = "increments"
	PrimBigIncrements Primitive = "bigIncrements"
)

// ColumnClause is the backend-neutral form of one column definition.
type ColumnClause struct {
	Name      string
	Primitive Primitive
	// Args are positional integer arguments: precision and scale for
	// decimal, length for string.
	Args []int
	// UseTz is only set for timestamp clauses.
	UseTz    *bool
	Nullable bool
	Default  *Literal
	// Passthrough is set when Primitive is the catalog type name verbatim.
	Passthrough bool
}

// AutoIncrement reports whether the column is backed by a sequence.
func (c ColumnClause) AutoIncrement() bool {
	return c.Primitive == PrimIncrements || c.Primitive == PrimBigIncrements
}

// Literal is a default value ready to be emitted.
type Literal struct {
	Value string
	// Quoted literals are emitted as strings, the others verbatim.
	Quoted bool
	// Lossy is set when single quotes had to be dropped from Value.
	Lossy bool
}

// ConstraintClause is the backend-neutral form of one table constraint.
type ConstraintClause struct {
	Kind           schema.ConstraintKind
	Name           string
	Columns        []string
	ForeignSchema  string
	ForeignTable   string
	ForeignColumns []string
	OnDelete       string
	OnUpdate       string
}

// ForeignTableRef returns the schema-qualified referenced table.
func (c ConstraintClause) ForeignTableRef() string {
	if c.ForeignSchema == "" {
		return c.ForeignTable
	}
	return c.ForeignSchema + "." + c.ForeignTable
}

func (c ColumnClause) clone() ColumnClause {
	out := c
	out.Args = append([]int(nil), c.Args...)
	if c.UseTz != nil {
		tz := *c.UseTz
		out.UseTz = &tz
	}
	if c.Default != nil {
		lit := *c.Default
		out.Default = &lit
	}
	return out
}

func (c ConstraintClause) clone() ConstraintClause {
	out := c
	out.Columns = append([]string(nil), c.Columns...)
	out.ForeignColumns = append([]string(nil), c.ForeignColumns...)
	return out
}

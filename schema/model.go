package schema

// Table is the catalog description of one table: the input of a generation run.
type Table struct {
	Schema      string                 `yaml:"schema" json:"schema"`
	Name        string                 `yaml:"name" json:"name"`
	Columns     []ColumnDescriptor     `yaml:"columns" json:"columns"`
	Constraints []ConstraintDescriptor `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// QualifiedName returns schema.table.
func (t Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// ColumnDescriptor mirrors one row of information_schema.columns.
type ColumnDescriptor struct {
	Name             string  `yaml:"name" json:"name"`
	DataType         string  `yaml:"data_type" json:"data_type"`
	Nullable         bool    `yaml:"nullable" json:"nullable"`
	Default          *string `yaml:"default,omitempty" json:"default,omitempty"`
	NumericPrecision *int    `yaml:"numeric_precision,omitempty" json:"numeric_precision,omitempty"`
	NumericScale     *int    `yaml:"numeric_scale,omitempty" json:"numeric_scale,omitempty"`
	CharMaxLength    *int    `yaml:"character_maximum_length,omitempty" json:"character_maximum_length,omitempty"`
}

// Kind returns the enumerated kind of the column's catalog type.
func (c ColumnDescriptor) Kind() DataKind {
	return ParseDataKind(c.DataType)
}

type ConstraintKind string

const (
	PrimaryKey ConstraintKind = "PRIMARY KEY"
	ForeignKey ConstraintKind = "FOREIGN KEY"
	Unique     ConstraintKind = "UNIQUE"
)

// Known reports whether the generator has a clause for this kind.
func (k ConstraintKind) Known() bool {
	switch k {
	case PrimaryKey, ForeignKey, Unique:
		return true
	}
	return false
}

// ConstraintDescriptor is one named table constraint. The Foreign* fields
// and the referential actions are only meaningful for foreign keys.
type ConstraintDescriptor struct {
	Name           string         `yaml:"name" json:"name"`
	Kind           ConstraintKind `yaml:"kind" json:"kind"`
	Columns        []string       `yaml:"columns" json:"columns"`
	ForeignSchema  string         `yaml:"foreign_schema,omitempty" json:"foreign_schema,omitempty"`
	ForeignTable   string         `yaml:"foreign_table,omitempty" json:"foreign_table,omitempty"`
	ForeignColumns []string       `yaml:"foreign_columns,omitempty" json:"foreign_columns,omitempty"`
	OnDelete       string         `yaml:"on_delete,omitempty" json:"on_delete,omitempty"` // CASCADE, SET NULL, RESTRICT, etc.
	OnUpdate       string         `yaml:"on_update,omitempty" json:"on_update,omitempty"` // CASCADE, SET NULL, RESTRICT, etc.
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := t
	if t.Columns != nil {
		out.Columns = make([]ColumnDescriptor, len(t.Columns))
		for i, c := range t.Columns {
			out.Columns[i] = c.clone()
		}
	}
	if t.Constraints != nil {
		out.Constraints = make([]ConstraintDescriptor, len(t.Constraints))
		for i, c := range t.Constraints {
			out.Constraints[i] = c.clone()
		}
	}
	return out
}

func (c ColumnDescriptor) clone() ColumnDescriptor {
	c.Default = clonePtr(c.Default)
	c.NumericPrecision = clonePtr(c.NumericPrecision)
	c.NumericScale = clonePtr(c.NumericScale)
	c.CharMaxLength = clonePtr(c.CharMaxLength)
	return c
}

func (c ConstraintDescriptor) clone() ConstraintDescriptor {
	if c.Columns != nil {
		c.Columns = append(make([]string, 0, len(c.Columns)), c.Columns...)
	}
	if c.ForeignColumns != nil {
		c.ForeignColumns = append(make([]string, 0, len(c.ForeignColumns)), c.ForeignColumns...)
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

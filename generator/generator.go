package generator

import (
	"errors"
	"strings"

	"github.com/ridoystarlord/knexgen/schema"
)

// Options tunes a generation run. The zero value renders TypeScript and
// rejects composite foreign keys.
type Options struct {
	// Renderer serializes the document; nil means TypeScript.
	Renderer Renderer
	// CompositeForeignKeys emits foreign keys with several column pairs
	// instead of reporting them as unsupported.
	CompositeForeignKeys bool
}

// Document is the generated migration for one table. It is built once by
// Generate and never modified afterwards.
type Document struct {
	schema      string
	table       string
	columns     []ColumnClause
	constraints []ConstraintClause
	up          string
	down        string
	text        string
	ext         string
}

func (d *Document) Schema() string { return d.schema }
func (d *Document) Table() string  { return d.table }

// Up returns the rendered forward operation.
func (d *Document) Up() string { return d.up }

// Down returns the rendered reverse operation.
func (d *Document) Down() string { return d.down }

// Text returns the whole migration file.
func (d *Document) Text() string { return d.text }

// Extension returns the file extension of the rendered backend, with the dot.
func (d *Document) Extension() string { return d.ext }

// Columns returns a copy of the column clauses in input order.
func (d *Document) Columns() []ColumnClause {
	out := make([]ColumnClause, len(d.columns))
	for i, c := range d.columns {
		out[i] = c.clone()
	}
	return out
}

// Constraints returns a copy of the constraint clauses in input order.
func (d *Document) Constraints() []ConstraintClause {
	out := make([]ConstraintClause, len(d.constraints))
	for i, c := range d.constraints {
		out[i] = c.clone()
	}
	return out
}

// Generate builds the migration document for one table.
//
// Validation errors abort the table and no document is returned. Constraints
// the generator cannot express are left out: the document is returned
// together with a *PartialError naming them.
func Generate(t schema.Table, opts Options) (*Document, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, &ValidationError{Schema: t.Schema, Reason: "table name is empty"}
	}
	if len(t.Columns) == 0 {
		return nil, &ValidationError{Schema: t.Schema, Table: t.Name, Reason: "table has no columns"}
	}

	doc := &Document{
		schema:      t.Schema,
		table:       t.Name,
		columns:     make([]ColumnClause, 0, len(t.Columns)),
		constraints: make([]ConstraintClause, 0, len(t.Constraints)),
	}

	seen := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		if seen[col.Name] {
			return nil, &ValidationError{Schema: t.Schema, Table: t.Name, Column: col.Name, Reason: "duplicate column name"}
		}
		seen[col.Name] = true

		clause, err := BuildColumn(col)
		if err != nil {
			return nil, locate(err, t.Schema, t.Name)
		}
		doc.columns = append(doc.columns, clause)
	}

	var gaps []*UnsupportedError
	for _, c := range t.Constraints {
		clause, err := BuildConstraint(c, opts)
		if err != nil {
			err = locate(err, t.Schema, t.Name)
			var uerr *UnsupportedError
			if errors.As(err, &uerr) {
				gaps = append(gaps, uerr)
				continue
			}
			return nil, err
		}
		doc.constraints = append(doc.constraints, clause)
	}

	r := opts.Renderer
	if r == nil {
		r = TypeScript
	}
	doc.up = r.RenderUp(doc)
	doc.down = r.RenderDown(doc)
	doc.text = r.RenderFile(doc.up, doc.down)
	doc.ext = r.Extension()

	if len(gaps) > 0 {
		return doc, &PartialError{Schema: t.Schema, Table: t.Name, Gaps: gaps}
	}
	return doc, nil
}

package generator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/knexgen/schema"
)

// BuildConstraint maps one constraint descriptor to its clause.
//
// Foreign keys are limited to one column pair unless opts.CompositeForeignKeys
// is set; the catalog can describe composite keys, and emitting only the
// first pair would silently reference the wrong columns.
func BuildConstraint(c schema.ConstraintDescriptor, opts Options) (ConstraintClause, error) {
	if strings.TrimSpace(c.Name) == "" {
		return ConstraintClause{}, &ValidationError{Reason: fmt.Sprintf("%s constraint has no name", c.Kind)}
	}
	if len(c.Columns) == 0 {
		return ConstraintClause{}, &ValidationError{Constraint: c.Name, Reason: "constraint has no columns"}
	}
	for _, col := range c.Columns {
		if strings.TrimSpace(col) == "" {
			return ConstraintClause{}, &ValidationError{Constraint: c.Name, Reason: "constraint lists an empty column name"}
		}
	}

	switch c.Kind {
	case schema.PrimaryKey, schema.Unique:
		return ConstraintClause{
			Kind:    c.Kind,
			Name:    c.Name,
			Columns: append([]string(nil), c.Columns...),
		}, nil

	case schema.ForeignKey:
		return foreignKeyClause(c, opts)

	default:
		return ConstraintClause{}, &UnsupportedError{
			Constraint: c.Name,
			Kind:       string(c.Kind),
			Reason:     fmt.Sprintf("unsupported constraint kind %q", c.Kind),
		}
	}
}

func foreignKeyClause(c schema.ConstraintDescriptor, opts Options) (ConstraintClause, error) {
	if c.ForeignSchema == "" || c.ForeignTable == "" || len(c.ForeignColumns) == 0 {
		return ConstraintClause{}, &ValidationError{
			Constraint: c.Name,
			Reason:     "foreign key needs foreign_schema, foreign_table and foreign_columns",
		}
	}

	if len(c.Columns) != len(c.ForeignColumns) {
		return ConstraintClause{}, &UnsupportedError{
			Constraint: c.Name,
			Kind:       string(c.Kind),
			Reason: fmt.Sprintf("foreign key pairs %d local column(s) with %d foreign column(s)",
				len(c.Columns), len(c.ForeignColumns)),
		}
	}
	if len(c.Columns) > 1 && !opts.CompositeForeignKeys {
		return ConstraintClause{}, &UnsupportedError{
			Constraint: c.Name,
			Kind:       string(c.Kind),
			Reason: fmt.Sprintf("composite foreign key (%s) -> (%s) is not enabled",
				strings.Join(c.Columns, ", "), strings.Join(c.ForeignColumns, ", ")),
		}
	}

	return ConstraintClause{
		Kind:           c.Kind,
		Name:           c.Name,
		Columns:        append([]string(nil), c.Columns...),
		ForeignSchema:  c.ForeignSchema,
		ForeignTable:   c.ForeignTable,
		ForeignColumns: append([]string(nil), c.ForeignColumns...),
		OnDelete:       referentialAction(c.OnDelete),
		OnUpdate:       referentialAction(c.OnUpdate),
	}, nil
}

// referentialAction normalizes ON DELETE/ON UPDATE rules; NO ACTION is the
// database default and is left out.
func referentialAction(rule string) string {
	rule = strings.ToUpper(strings.Join(strings.Fields(rule), " "))
	if rule == "NO ACTION" {
		return ""
	}
	return rule
}

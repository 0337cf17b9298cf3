package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ridoystarlord/knexgen/generator"
	"github.com/ridoystarlord/knexgen/schema"
)

// ValidationError represents a validation finding with details
type ValidationError struct {
	Type       string `json:"type"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Message    string `json:"message"`
	Severity   string `json:"severity"` // "error", "warning", "info"
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

const (
	severityError   = "error"
	severityWarning = "warning"
	severityInfo    = "info"
)

// knexBuilders are the column builders a pass-through type can land on
// without failing when the migration runs.
var knexBuilders = map[string]bool{
	"integer": true, "int": true, "tinyint": true, "smallint": true, "mediumint": true,
	"bigint": true, "bigInteger": true, "decimal": true, "float": true, "double": true,
	"real": true, "boolean": true, "bool": true, "date": true, "datetime": true,
	"dateTime": true, "timestamp": true, "time": true, "text": true, "string": true,
	"binary": true, "json": true, "jsonb": true, "uuid": true, "enum": true, "enu": true,
	"geometry": true, "geography": true, "point": true,
}

// SchemaValidator lints catalog descriptors before generation. It runs the
// same clause builders as the generator, so every error it reports is one
// generation would fail on.
type SchemaValidator struct {
	opts generator.Options
}

// NewSchemaValidator creates a validator using the given generation options
func NewSchemaValidator(opts generator.Options) *SchemaValidator {
	return &SchemaValidator{opts: opts}
}

// ValidateTables validates every table and the references between them
func (v *SchemaValidator) ValidateTables(tables []schema.Table) *ValidationResult {
	result := newResult()

	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		known[t.QualifiedName()] = true
	}

	for _, t := range tables {
		v.validateTable(t, result)
		validateReferences(t, known, result)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateTable validates a single table
func (v *SchemaValidator) ValidateTable(t schema.Table) *ValidationResult {
	result := newResult()
	v.validateTable(t, result)
	result.Valid = len(result.Errors) == 0
	return result
}

func newResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}
}

func (v *SchemaValidator) validateTable(t schema.Table, result *ValidationResult) {
	table := t.QualifiedName()

	if err := validateIdentifier("table", t.Name); err != nil {
		result.add(severityWarning, ValidationError{Type: "table_name", Table: table, Message: err.Error()})
	}

	if len(t.Columns) == 0 {
		result.add(severityError, ValidationError{
			Type:    "no_columns",
			Table:   table,
			Message: fmt.Sprintf("Table '%s' must have at least one column", table),
		})
	}

	columns := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		if columns[col.Name] {
			result.add(severityError, ValidationError{
				Type:    "duplicate_column",
				Table:   table,
				Column:  col.Name,
				Message: fmt.Sprintf("Duplicate column name '%s' in table '%s'", col.Name, table),
			})
			continue
		}
		columns[col.Name] = true
		validateColumn(table, col, result)
	}

	for _, c := range t.Constraints {
		v.validateConstraint(table, c, columns, result)
	}
}

func validateColumn(table string, col schema.ColumnDescriptor, result *ValidationResult) {
	clause, err := generator.BuildColumn(col)
	if err != nil {
		result.add(severityError, ValidationError{Type: "invalid_column", Table: table, Column: col.Name, Message: reason(err)})
		return
	}

	if clause.Passthrough && !knexBuilders[string(clause.Primitive)] {
		result.add(severityWarning, ValidationError{
			Type:    "passthrough_type",
			Table:   table,
			Column:  col.Name,
			Message: fmt.Sprintf("Type '%s' has no dedicated mapping and is not a knex column builder; it is emitted as specificType or a builder of the same name", col.DataType),
		})
	}

	if clause.AutoIncrement() {
		result.add(severityInfo, ValidationError{
			Type:    "auto_increment",
			Table:   table,
			Column:  col.Name,
			Message: fmt.Sprintf("Column '%s' draws from a sequence and becomes %s; its default is dropped", col.Name, clause.Primitive),
		})
	}

	if lit := clause.Default; lit != nil {
		if lit.Lossy {
			result.add(severityWarning, ValidationError{
				Type:    "lossy_default",
				Table:   table,
				Column:  col.Name,
				Message: fmt.Sprintf("Default %s is not a single string literal; its quotes are dropped", *col.Default),
			})
		}
		if strings.Contains(lit.Value, "::") {
			result.add(severityWarning, ValidationError{
				Type:    "unstripped_cast",
				Table:   table,
				Column:  col.Name,
				Message: fmt.Sprintf("Default %s keeps a type cast that could not be removed", *col.Default),
			})
		}
	}
}

func (v *SchemaValidator) validateConstraint(table string, c schema.ConstraintDescriptor, columns map[string]bool, result *ValidationResult) {
	if _, err := generator.BuildConstraint(c, v.opts); err != nil {
		sev, typ := severityError, "invalid_constraint"
		if errors.Is(err, generator.ErrUnsupported) {
			// the rest of the table still generates
			sev, typ = severityWarning, "unsupported_constraint"
		}
		result.add(sev, ValidationError{Type: typ, Table: table, Constraint: c.Name, Message: reason(err)})
		return
	}

	for _, col := range c.Columns {
		if !columns[col] {
			result.add(severityError, ValidationError{
				Type:       "unknown_column",
				Table:      table,
				Column:     col,
				Constraint: c.Name,
				Message:    fmt.Sprintf("Constraint '%s' references column '%s' which does not exist in table '%s'", c.Name, col, table),
			})
		}
	}
}

// validateReferences reports foreign keys to tables outside the validated set
func validateReferences(t schema.Table, known map[string]bool, result *ValidationResult) {
	for _, c := range t.Constraints {
		if c.Kind != schema.ForeignKey || c.ForeignTable == "" {
			continue
		}
		ref := c.ForeignTable
		if c.ForeignSchema != "" {
			ref = c.ForeignSchema + "." + c.ForeignTable
		}
		if !known[ref] {
			result.add(severityInfo, ValidationError{
				Type:       "external_reference",
				Table:      t.QualifiedName(),
				Constraint: c.Name,
				Message:    fmt.Sprintf("Foreign key '%s' references '%s', which is not part of this run", c.Name, ref),
			})
		}
	}
}

// validateIdentifier applies PostgreSQL's unquoted identifier rules
func validateIdentifier(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if len(name) > 63 {
		return fmt.Errorf("%s name '%s' is too long (max 63 characters)", kind, name)
	}
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_') {
			return fmt.Errorf("%s name '%s' contains invalid character '%c'", kind, name, char)
		}
	}
	return nil
}

// reason drops the location prefix the generator puts on its errors; the
// finding already carries table, column and constraint.
func reason(err error) string {
	var verr *generator.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	var uerr *generator.UnsupportedError
	if errors.As(err, &uerr) {
		return uerr.Reason
	}
	return err.Error()
}

func (r *ValidationResult) add(severity string, e ValidationError) {
	e.Severity = severity
	switch severity {
	case severityError:
		r.Errors = append(r.Errors, e)
	case severityWarning:
		r.Warnings = append(r.Warnings, e)
	default:
		r.Info = append(r.Info, e)
	}
}

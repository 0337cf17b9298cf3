package generator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks descriptors that cannot produce a correct clause.
	ErrValidation = errors.New("invalid descriptor")
	// ErrUnsupported marks constructs the generator has no clause for.
	ErrUnsupported = errors.New("unsupported construct")
)

// ValidationError is fatal to the generation of the table it belongs to.
type ValidationError struct {
	Schema     string
	Table      string
	Column     string
	Constraint string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", location(e.Schema, e.Table, e.Column, e.Constraint), e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// UnsupportedError is fatal to one constraint only; the rest of the table is
// still generated.
type UnsupportedError struct {
	Schema     string
	Table      string
	Constraint string
	Kind       string
	Reason     string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s", location(e.Schema, e.Table, "", e.Constraint), e.Reason)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// PartialError accompanies a document that was generated without some of
// its constraints.
type PartialError struct {
	Schema string
	Table  string
	Gaps   []*UnsupportedError
}

func (e *PartialError) Error() string {
	msgs := make([]string, 0, len(e.Gaps))
	for _, g := range e.Gaps {
		msgs = append(msgs, g.Error())
	}
	return fmt.Sprintf("table %s generated without %d constraint(s): %s",
		location(e.Schema, e.Table, "", ""), len(e.Gaps), strings.Join(msgs, "; "))
}

func (e *PartialError) Unwrap() []error {
	errs := make([]error, 0, len(e.Gaps))
	for _, g := range e.Gaps {
		errs = append(errs, g)
	}
	return errs
}

func location(schemaName, table, column, constraint string) string {
	loc := table
	if schemaName != "" {
		loc = schemaName + "." + table
	}
	switch {
	case column != "" && loc != "":
		loc += " column " + column
	case column != "":
		loc = "column " + column
	case constraint != "" && loc != "":
		loc += " constraint " + constraint
	case constraint != "":
		loc = "constraint " + constraint
	}
	if loc == "" {
		return "table"
	}
	return loc
}

// locate stamps schema and table on errors raised by the clause builders,
// which only know the column or constraint they were given.
func locate(err error, schemaName, table string) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		verr.Schema, verr.Table = schemaName, table
		return verr
	}
	var uerr *UnsupportedError
	if errors.As(err, &uerr) {
		uerr.Schema, uerr.Table = schemaName, table
		return uerr
	}
	return err
}

package generator

import (
	"strings"

	"github.com/ridoystarlord/knexgen/schema"
)

const defaultStringLength = 255

type columnBuilder func(col schema.ColumnDescriptor) (ColumnClause, error)

// columnBuilders maps every data kind to its clause builder. A kind added to
// schema.DataKind without an entry here leaves a nil slot, which the tests
// catch.
var columnBuilders = [schema.KindCount]columnBuilder{
	schema.KindOther:       passthroughColumn,
	schema.KindTimestamp:   timestampColumn(false),
	schema.KindTimestampTZ: timestampColumn(true),
	schema.KindTime:        simpleColumn(PrimTime),
	schema.KindNumeric:     decimalColumn,
	schema.KindVarchar:     varcharColumn,
	schema.KindChar:        charColumn,
	schema.KindUUID:        simpleColumn(PrimUUID),
	schema.KindInteger:     passthroughColumn,
	schema.KindBigint:      passthroughColumn,
	schema.KindBoolean:     passthroughColumn,
	schema.KindReal:        passthroughColumn,
}

// BuildColumn maps one column descriptor to its clause. A default drawing
// from a sequence turns the column into an auto-increment clause whatever
// its declared type.
func BuildColumn(col schema.ColumnDescriptor) (ColumnClause, error) {
	if strings.TrimSpace(col.Name) == "" {
		return ColumnClause{}, &ValidationError{Reason: "column name is empty"}
	}

	var (
		clause ColumnClause
		err    error
	)
	if IsSequenceDefault(col.Default) {
		clause = incrementsColumn(col)
	} else {
		clause, err = columnBuilders[col.Kind()](col)
		if err != nil {
			return ColumnClause{}, err
		}
	}

	clause.Name = col.Name
	clause.Nullable = col.Nullable
	clause.Default = TranslateDefault(col.Default, col.DataType, clause.AutoIncrement())
	return clause, nil
}

func incrementsColumn(col schema.ColumnDescriptor) ColumnClause {
	if col.Kind() == schema.KindBigint {
		return ColumnClause{Primitive: PrimBigIncrements}
	}
	return ColumnClause{Primitive: PrimIncrements}
}

func timestampColumn(tz bool) columnBuilder {
	return func(schema.ColumnDescriptor) (ColumnClause, error) {
		useTz := tz
		return ColumnClause{Primitive: PrimTimestamp, UseTz: &useTz}, nil
	}
}

func simpleColumn(p Primitive) columnBuilder {
	return func(schema.ColumnDescriptor) (ColumnClause, error) {
		return ColumnClause{Primitive: p}, nil
	}
}

func decimalColumn(col schema.ColumnDescriptor) (ColumnClause, error) {
	if col.NumericPrecision == nil || col.NumericScale == nil {
		return ColumnClause{}, &ValidationError{
			Column: col.Name,
			Reason: "numeric column needs both numeric_precision and numeric_scale",
		}
	}
	return ColumnClause{
		Primitive: PrimDecimal,
		Args:      []int{*col.NumericPrecision, *col.NumericScale},
	}, nil
}

func varcharColumn(col schema.ColumnDescriptor) (ColumnClause, error) {
	length := defaultStringLength
	if col.CharMaxLength != nil {
		length = *col.CharMaxLength
	}
	return ColumnClause{Primitive: PrimString, Args: []int{length}}, nil
}

func charColumn(schema.ColumnDescriptor) (ColumnClause, error) {
	return ColumnClause{Primitive: PrimString, Args: []int{1}}, nil
}

// passthroughColumn uses the catalog type name as the builder name, so types
// without a dedicated mapping still generate.
func passthroughColumn(col schema.ColumnDescriptor) (ColumnClause, error) {
	name := strings.TrimSpace(col.DataType)
	if name == "" {
		return ColumnClause{}, &ValidationError{Column: col.Name, Reason: "data_type is empty"}
	}
	return ColumnClause{
		Primitive:   Primitive(name),
		Passthrough: col.Kind() == schema.KindOther,
	}, nil
}

package schema

import "strings"

// DataKind is the enumerated form of a PostgreSQL catalog type name
// (information_schema.columns.data_type).
type DataKind int

const (
	KindOther DataKind = iota
	KindTimestamp
	KindTimestampTZ
	KindTime
	KindNumeric
	KindVarchar
	KindChar
	KindUUID
	KindInteger
	KindBigint
	KindBoolean
	KindReal

	// KindCount is the number of kinds; keep it last.
	KindCount
)

var catalogNames = map[string]DataKind{
	"timestamp without time zone": KindTimestamp,
	"timestamp with time zone":    KindTimestampTZ,
	"time without time zone":      KindTime,
	"numeric":                     KindNumeric,
	"character varying":           KindVarchar,
	"character":                   KindChar,
	"uuid":                        KindUUID,
	"integer":                     KindInteger,
	"bigint":                      KindBigint,
	"boolean":                     KindBoolean,
	"real":                        KindReal,
}

var kindNames = [KindCount]string{
	KindOther:       "other",
	KindTimestamp:   "timestamp",
	KindTimestampTZ: "timestamptz",
	KindTime:        "time",
	KindNumeric:     "numeric",
	KindVarchar:     "varchar",
	KindChar:        "char",
	KindUUID:        "uuid",
	KindInteger:     "integer",
	KindBigint:      "bigint",
	KindBoolean:     "boolean",
	KindReal:        "real",
}

// ParseDataKind maps a catalog type name to its kind. Names the generator
// has no dedicated mapping for return KindOther.
func ParseDataKind(dataType string) DataKind {
	if k, ok := catalogNames[strings.ToLower(strings.TrimSpace(dataType))]; ok {
		return k
	}
	return KindOther
}

// Kinds lists every kind, KindOther included.
func Kinds() []DataKind {
	out := make([]DataKind, 0, KindCount)
	for k := KindOther; k < KindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k DataKind) String() string {
	if k < 0 || k >= KindCount {
		return "invalid"
	}
	return kindNames[k]
}

// NumericFamily reports whether defaults of this kind are emitted unquoted.
func (k DataKind) NumericFamily() bool {
	switch k {
	case KindInteger, KindBigint, KindBoolean, KindNumeric, KindReal:
		return true
	}
	return false
}

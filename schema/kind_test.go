package schema

import "testing"

func TestParseDataKind(t *testing.T) {
	tests := []struct {
		dataType string
		want     DataKind
	}{
		{"timestamp without time zone", KindTimestamp},
		{"timestamp with time zone", KindTimestampTZ},
		{"time without time zone", KindTime},
		{"numeric", KindNumeric},
		{"character varying", KindVarchar},
		{"character", KindChar},
		{"uuid", KindUUID},
		{"integer", KindInteger},
		{"bigint", KindBigint},
		{"boolean", KindBoolean},
		{"real", KindReal},
		{"  Character Varying ", KindVarchar},
		{"jsonb", KindOther},
		{"time with time zone", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			if got := ParseDataKind(tt.dataType); got != tt.want {
				t.Errorf("ParseDataKind(%q) = %v, want %v", tt.dataType, got, tt.want)
			}
		})
	}
}

func TestKindsCoverEnum(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != int(KindCount) {
		t.Fatalf("Kinds() returned %d kinds, want %d", len(kinds), KindCount)
	}
	for _, k := range kinds {
		if k.String() == "" || k.String() == "invalid" {
			t.Errorf("kind %d has no name", k)
		}
	}
}

func TestNumericFamily(t *testing.T) {
	numeric := map[DataKind]bool{
		KindInteger: true,
		KindBigint:  true,
		KindBoolean: true,
		KindNumeric: true,
		KindReal:    true,
	}
	for _, k := range Kinds() {
		if got := k.NumericFamily(); got != numeric[k] {
			t.Errorf("%v.NumericFamily() = %v, want %v", k, got, numeric[k])
		}
	}
}

func TestConstraintKindKnown(t *testing.T) {
	for _, k := range []ConstraintKind{PrimaryKey, ForeignKey, Unique} {
		if !k.Known() {
			t.Errorf("%q should be known", k)
		}
	}
	if ConstraintKind("CHECK").Known() {
		t.Error("CHECK should not be known")
	}
}

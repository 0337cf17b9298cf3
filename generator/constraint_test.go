package generator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ridoystarlord/knexgen/schema"
)

func TestBuildConstraint(t *testing.T) {
	tests := []struct {
		name string
		in   schema.ConstraintDescriptor
		opts Options
		want ConstraintClause
	}{
		{
			name: "primary key",
			in:   schema.ConstraintDescriptor{Name: "pk_t", Kind: schema.PrimaryKey, Columns: []string{"id"}},
			want: ConstraintClause{Kind: schema.PrimaryKey, Name: "pk_t", Columns: []string{"id"}},
		},
		{
			name: "composite primary key",
			in:   schema.ConstraintDescriptor{Name: "pk_m", Kind: schema.PrimaryKey, Columns: []string{"user_id", "group_id"}},
			want: ConstraintClause{Kind: schema.PrimaryKey, Name: "pk_m", Columns: []string{"user_id", "group_id"}},
		},
		{
			name: "composite unique",
			in:   schema.ConstraintDescriptor{Name: "uq_e", Kind: schema.Unique, Columns: []string{"email", "org_id"}},
			want: ConstraintClause{Kind: schema.Unique, Name: "uq_e", Columns: []string{"email", "org_id"}},
		},
		{
			name: "foreign key",
			in: schema.ConstraintDescriptor{
				Name: "fk_u", Kind: schema.ForeignKey, Columns: []string{"user_id"},
				ForeignSchema: "public", ForeignTable: "users", ForeignColumns: []string{"id"},
				OnDelete: "cascade", OnUpdate: "NO ACTION",
			},
			want: ConstraintClause{
				Kind: schema.ForeignKey, Name: "fk_u", Columns: []string{"user_id"},
				ForeignSchema: "public", ForeignTable: "users", ForeignColumns: []string{"id"},
				OnDelete: "CASCADE",
			},
		},
		{
			name: "composite foreign key when enabled",
			in: schema.ConstraintDescriptor{
				Name: "fk_c", Kind: schema.ForeignKey, Columns: []string{"a", "b"},
				ForeignSchema: "s", ForeignTable: "t", ForeignColumns: []string{"x", "y"},
			},
			opts: Options{CompositeForeignKeys: true},
			want: ConstraintClause{
				Kind: schema.ForeignKey, Name: "fk_c", Columns: []string{"a", "b"},
				ForeignSchema: "s", ForeignTable: "t", ForeignColumns: []string{"x", "y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildConstraint(tt.in, tt.opts)
			if err != nil {
				t.Fatalf("BuildConstraint() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildConstraint() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildConstraintErrors(t *testing.T) {
	fk := func(cols, foreign []string) schema.ConstraintDescriptor {
		return schema.ConstraintDescriptor{
			Name: "fk", Kind: schema.ForeignKey, Columns: cols,
			ForeignSchema: "public", ForeignTable: "users", ForeignColumns: foreign,
		}
	}

	tests := []struct {
		name    string
		in      schema.ConstraintDescriptor
		opts    Options
		wantErr error
	}{
		{"empty columns", schema.ConstraintDescriptor{Name: "pk", Kind: schema.PrimaryKey}, Options{}, ErrValidation},
		{"blank column", schema.ConstraintDescriptor{Name: "uq", Kind: schema.Unique, Columns: []string{""}}, Options{}, ErrValidation},
		{"no name", schema.ConstraintDescriptor{Kind: schema.Unique, Columns: []string{"a"}}, Options{}, ErrValidation},
		{"foreign key without table", schema.ConstraintDescriptor{Name: "fk", Kind: schema.ForeignKey, Columns: []string{"a"}, ForeignSchema: "public", ForeignColumns: []string{"id"}}, Options{}, ErrValidation},
		{"foreign key without schema", schema.ConstraintDescriptor{Name: "fk", Kind: schema.ForeignKey, Columns: []string{"a"}, ForeignTable: "t", ForeignColumns: []string{"id"}}, Options{}, ErrValidation},
		{"foreign key without foreign columns", fk([]string{"a"}, nil), Options{}, ErrValidation},
		{"composite foreign key", fk([]string{"a", "b"}, []string{"x", "y"}), Options{}, ErrUnsupported},
		{"mismatched foreign key", fk([]string{"a"}, []string{"x", "y"}), Options{CompositeForeignKeys: true}, ErrUnsupported},
		{"check constraint", schema.ConstraintDescriptor{Name: "ck", Kind: "CHECK", Columns: []string{"a"}}, Options{}, ErrUnsupported},
		{"empty kind", schema.ConstraintDescriptor{Name: "x", Columns: []string{"a"}}, Options{}, ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildConstraint(tt.in, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BuildConstraint() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildConstraintDoesNotAlias(t *testing.T) {
	in := schema.ConstraintDescriptor{Name: "uq", Kind: schema.Unique, Columns: []string{"a", "b"}}
	got, err := BuildConstraint(in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	in.Columns[0] = "changed"
	if got.Columns[0] != "a" {
		t.Errorf("clause shares the descriptor's column slice")
	}
}

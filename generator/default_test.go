package generator

import "testing"

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestStripCast(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quoted varchar", "'active'::character varying", "'active'"},
		{"integer", "0::integer", "0"},
		{"parenthesized expr", "(0)::numeric", "0"},
		{"parenthesized cast", "('x'::text)", "'x'"},
		{"nested casts", "('now'::text)::date", "'now'"},
		{"double cast", "'{}'::jsonb::json", "'{}'"},
		{"array type", "'{}'::text[]", "'{}'"},
		{"type modifier", "'a'::character varying(20)", "'a'"},
		{"schema qualified", "'draft'::public.post_status", "'draft'"},
		{"quoted type name", `'x'::"My Type"`, "'x'"},
		{"colons inside literal", "'2020-01-01 10:00:00'::timestamp without time zone", "'2020-01-01 10:00:00'"},
		{"doubled quotes", "'it''s'::text", "'it''s'"},
		{"surrounding space", "  'a'::text  ", "'a'"},
		{"no cast", "now()", "now()"},
		{"cast inside call", "nextval('users_id_seq'::regclass)", "nextval('users_id_seq'::regclass)"},
		{"plain number", "42", "42"},
		{"untrimmed no cast", " 42 ", " 42 "},
		{"unbalanced quote", "'abc::text", "'abc::text"},
		{"missing type", "'a'::", "'a'::"},
		{"missing expression", "::text", "::text"},
		{"operator after cast", "'a'::text || 'b'", "'a'::text || 'b'"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCast(tt.in); got != tt.want {
				t.Errorf("StripCast(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripCastIdempotent(t *testing.T) {
	inputs := []string{
		"'active'::character varying",
		"('now'::text)::date",
		"(0)::numeric",
		"((1))::integer",
		"'a'::text || 'b'::text",
		"nextval('s'::regclass)",
		"CURRENT_TIMESTAMP",
		"  'x'::text",
		"ARRAY[]::integer[]",
		"'it''s'::text",
	}

	for _, in := range inputs {
		once := StripCast(in)
		if twice := StripCast(once); twice != once {
			t.Errorf("StripCast not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTranslateDefault(t *testing.T) {
	tests := []struct {
		name          string
		raw           *string
		dataType      string
		autoIncrement bool
		want          *Literal
	}{
		{"no default", nil, "integer", false, nil},
		{"blank default", strPtr("  "), "text", false, nil},
		{"auto increment", strPtr("nextval('t_id_seq'::regclass)"), "integer", true, nil},
		{"integer", strPtr("0"), "integer", false, &Literal{Value: "0"}},
		{"bigint cast", strPtr("'-1'::bigint"), "bigint", false, &Literal{Value: "'-1'"}},
		{"boolean", strPtr("true"), "boolean", false, &Literal{Value: "true"}},
		{"numeric", strPtr("0.00"), "numeric", false, &Literal{Value: "0.00"}},
		{"real", strPtr("(1.5)::real"), "real", false, &Literal{Value: "1.5"}},
		{"varchar", strPtr("'active'::character varying"), "character varying", false, &Literal{Value: "active", Quoted: true}},
		{"text embedded quote", strPtr("'it''s'::text"), "text", false, &Literal{Value: "it's", Quoted: true}},
		{"jsonb", strPtr("'{}'::jsonb"), "jsonb", false, &Literal{Value: "{}", Quoted: true}},
		{"function", strPtr("now()"), "timestamp with time zone", false, &Literal{Value: "now()", Quoted: true}},
		{"expression with quotes", strPtr("'a'::text || 'b'::text"), "text", false, &Literal{Value: "a::text || b", Quoted: true, Lossy: true}},
		{"uuid function", strPtr("gen_random_uuid()"), "uuid", false, &Literal{Value: "gen_random_uuid()", Quoted: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateDefault(tt.raw, tt.dataType, tt.autoIncrement)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("TranslateDefault() = %+v, want %+v", got, tt.want)
			case *got != *tt.want:
				t.Errorf("TranslateDefault() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestIsSequenceDefault(t *testing.T) {
	if IsSequenceDefault(nil) {
		t.Error("nil default is not a sequence")
	}
	if !IsSequenceDefault(strPtr("nextval('seq')")) {
		t.Error("nextval default should be a sequence")
	}
	if IsSequenceDefault(strPtr("0")) {
		t.Error("literal default is not a sequence")
	}
}

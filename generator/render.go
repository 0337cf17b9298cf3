package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ridoystarlord/knexgen/schema"
)

// Renderer serializes a document's clauses into a knex migration module.
type Renderer interface {
	Name() string
	Extension() string
	// RenderUp and RenderDown return the indented bodies of the up and down
	// functions.
	RenderUp(d *Document) string
	RenderDown(d *Document) string
	// RenderFile wraps both bodies into the complete module.
	RenderFile(up, down string) string
}

var (
	// TypeScript renders `export async function up(knex: Knex)` modules.
	TypeScript Renderer = knexRenderer{name: "ts", ext: ".ts", file: tsFile}
	// CommonJS renders `exports.up = async function (knex)` modules.
	CommonJS Renderer = knexRenderer{name: "js", ext: ".js", file: cjsFile}
)

// RendererByName returns the backend registered under name ("ts" or "js").
func RendererByName(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ts", "typescript":
		return TypeScript, nil
	case "js", "cjs", "javascript":
		return CommonJS, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (must be ts or js)", name)
	}
}

const tsFile = `import { Knex } from 'knex'

export async function up(knex: Knex): Promise<void> {
%s}

export async function down(knex: Knex): Promise<void> {
%s}
`

const cjsFile = `/**
 * @param { import("knex").Knex } knex
 * @returns { Promise<void> }
 */
exports.up = async function (knex) {
%s}

/**
 * @param { import("knex").Knex } knex
 * @returns { Promise<void> }
 */
exports.down = async function (knex) {
%s}
`

type knexRenderer struct {
	name string
	ext  string
	file string
}

func (r knexRenderer) Name() string      { return r.name }
func (r knexRenderer) Extension() string { return r.ext }

func (r knexRenderer) RenderFile(up, down string) string {
	return fmt.Sprintf(r.file, up, down)
}

func (r knexRenderer) RenderUp(d *Document) string {
	var b strings.Builder
	builder := schemaBuilder(d.schema)

	fmt.Fprintf(&b, "  const exists = await %s.hasTable(%s)\n", builder, jsString(d.table))
	b.WriteString("  if (!exists) {\n")
	fmt.Fprintf(&b, "    await %s.createTable(%s, (table) => {\n", builder, jsString(d.table))
	for _, c := range d.columns {
		fmt.Fprintf(&b, "      %s\n", renderColumn(c))
	}
	if len(d.constraints) > 0 {
		b.WriteString("\n")
	}
	for _, c := range d.constraints {
		fmt.Fprintf(&b, "      %s\n", renderConstraint(c))
	}
	b.WriteString("    })\n")
	b.WriteString("  }\n")
	return b.String()
}

func (r knexRenderer) RenderDown(d *Document) string {
	return fmt.Sprintf("  await %s.dropTable(%s)\n", schemaBuilder(d.schema), jsString(d.table))
}

func schemaBuilder(schemaName string) string {
	if schemaName == "" {
		return "knex.schema"
	}
	return fmt.Sprintf("knex.schema.withSchema(%s)", jsString(schemaName))
}

var jsIdent = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func renderColumn(c ColumnClause) string {
	var b strings.Builder
	b.WriteString("table.")

	switch {
	case c.AutoIncrement():
		fmt.Fprintf(&b, "%s(%s, { primaryKey: false })", c.Primitive, jsString(c.Name))
	case c.Primitive == PrimTimestamp && c.UseTz != nil:
		fmt.Fprintf(&b, "timestamp(%s, { useTz: %t })", jsString(c.Name), *c.UseTz)
	case c.Passthrough && !jsIdent.MatchString(string(c.Primitive)):
		// e.g. "double precision", "USER-DEFINED"
		fmt.Fprintf(&b, "specificType(%s, %s)", jsString(c.Name), jsString(string(c.Primitive)))
	default:
		args := []string{jsString(c.Name)}
		for _, a := range c.Args {
			args = append(args, strconv.Itoa(a))
		}
		fmt.Fprintf(&b, "%s(%s)", c.Primitive, strings.Join(args, ", "))
	}

	if c.Nullable {
		b.WriteString(".nullable()")
	} else {
		b.WriteString(".notNullable()")
	}

	if c.Default != nil {
		fmt.Fprintf(&b, ".defaultTo(%s)", renderLiteral(*c.Default))
	}
	return b.String()
}

var jsScalar = regexp.MustCompile(`^(-?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?|true|false|null)$`)

func renderLiteral(l Literal) string {
	if l.Quoted {
		return jsString(l.Value)
	}
	v := strings.TrimSpace(l.Value)
	if jsScalar.MatchString(v) {
		return v
	}
	// Raw SQL that is not a JS literal, e.g. '-1' or (1 + 2).
	return fmt.Sprintf("knex.raw(%s)", jsString(v))
}

func renderConstraint(c ConstraintClause) string {
	switch c.Kind {
	case schema.PrimaryKey:
		return fmt.Sprintf("table.primary(%s, { constraintName: %s })", jsArray(c.Columns), jsString(c.Name))
	case schema.Unique:
		return fmt.Sprintf("table.unique(%s, { indexName: %s })", jsArray(c.Columns), jsString(c.Name))
	case schema.ForeignKey:
		var b strings.Builder
		if len(c.Columns) == 1 {
			fmt.Fprintf(&b, "table.foreign(%s, %s).references(%s)",
				jsString(c.Columns[0]), jsString(c.Name), jsString(c.ForeignColumns[0]))
		} else {
			fmt.Fprintf(&b, "table.foreign(%s, %s).references(%s)",
				jsArray(c.Columns), jsString(c.Name), jsArray(c.ForeignColumns))
		}
		fmt.Fprintf(&b, ".inTable(%s)", jsString(c.ForeignTableRef()))
		if c.OnDelete != "" {
			fmt.Fprintf(&b, ".onDelete(%s)", jsString(c.OnDelete))
		}
		if c.OnUpdate != "" {
			fmt.Fprintf(&b, ".onUpdate(%s)", jsString(c.OnUpdate))
		}
		return b.String()
	}
	// BuildConstraint never produces other kinds.
	return fmt.Sprintf("// unsupported constraint %s", c.Name)
}

var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

func jsString(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}

func jsArray(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = jsString(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

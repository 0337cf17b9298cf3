package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ridoystarlord/knexgen/generator"
	"github.com/ridoystarlord/knexgen/logger"
	"github.com/ridoystarlord/knexgen/schema"
	"golang.org/x/sync/errgroup"
)

// Catalog is where table descriptors come from: a live inspector or a
// loaded snapshot.
type Catalog interface {
	ListTables(ctx context.Context, schemaName string) ([]string, error)
	DescribeTable(ctx context.Context, schemaName, tableName string) (*schema.Table, error)
}

// Sink stores generated documents. seq orders the files of one run.
type Sink interface {
	Write(doc *generator.Document, seq int) (string, error)
}

// Status of one table in a run.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Options select the tables of a run and how they are generated.
type Options struct {
	Schemas []string
	// Tables restricts the run to these "table" or "schema.table" names.
	Tables []string
	// Exclude drops matching tables; nil keeps everything.
	Exclude     func(schemaName, table string) bool
	Generate    generator.Options
	Concurrency int
}

// TableResult is the outcome for one table.
type TableResult struct {
	Schema   string
	Table    string
	Status   string
	Document *generator.Document
	Path     string
	Gaps     []*generator.UnsupportedError
	Err      error
	Duration time.Duration
}

func (r TableResult) QualifiedName() string {
	return r.Schema + "." + r.Table
}

// Report collects the results of a run in discovery order.
type Report struct {
	Results  []TableResult
	Started  time.Time
	Duration time.Duration
}

// Count returns the number of results with the given status.
func (r *Report) Count(status string) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any table failed.
func (r *Report) Failed() bool {
	return r.Count(StatusFailed) > 0
}

type tableRef struct {
	schema string
	name   string
}

// Run generates a migration for every selected table. Tables are described
// and generated concurrently; a table's failure is recorded in its result
// and never stops the others. With a nil sink nothing is written.
//
// The returned error is reserved for problems with the run itself: table
// discovery or cancellation.
func Run(ctx context.Context, catalog Catalog, sink Sink, opts Options) (*Report, error) {
	report := &Report{Started: time.Now()}

	refs, err := discover(ctx, catalog, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("generating %d table(s) with concurrency %d", len(refs), limit(opts.Concurrency))

	report.Results = make([]TableResult, len(refs))
	var g errgroup.Group
	g.SetLimit(limit(opts.Concurrency))
	for i, ref := range refs {
		g.Go(func() error {
			report.Results[i] = generateTable(ctx, catalog, ref, opts.Generate)
			return nil
		})
	}
	g.Wait()

	if sink != nil {
		order := dependencyOrder(report.Results)
		var wg errgroup.Group
		wg.SetLimit(limit(opts.Concurrency))
		for seq, i := range order {
			res := &report.Results[i]
			wg.Go(func() error {
				path, err := sink.Write(res.Document, seq)
				if err != nil {
					res.Status, res.Err = StatusFailed, err
					logger.Error("%s: %v", res.QualifiedName(), err)
					return nil
				}
				res.Path = path
				return nil
			})
		}
		wg.Wait()
	}

	report.Duration = time.Since(report.Started)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func generateTable(ctx context.Context, catalog Catalog, ref tableRef, opts generator.Options) TableResult {
	start := time.Now()
	res := TableResult{Schema: ref.schema, Table: ref.name}
	defer func() { res.Duration = time.Since(start) }()

	t, err := catalog.DescribeTable(ctx, ref.schema, ref.name)
	if err != nil {
		res.Status, res.Err = StatusFailed, fmt.Errorf("describing %s: %w", res.QualifiedName(), err)
		logger.Error("%v", res.Err)
		return res
	}

	doc, err := generator.Generate(*t, opts)
	var partial *generator.PartialError
	switch {
	case err == nil:
		res.Status = StatusSuccess
	case errors.As(err, &partial):
		res.Status, res.Gaps = StatusPartial, partial.Gaps
		logger.Warn("%v", err)
	default:
		res.Status, res.Err = StatusFailed, err
		logger.Error("%v", err)
		return res
	}
	res.Document = doc
	logger.Debug("generated %s (%d columns, %d constraints)", res.QualifiedName(), len(doc.Columns()), len(doc.Constraints()))
	return res
}

// Collect describes every selected table. Unlike Run it stops at the
// first failure, since a partial catalog copy is of no use.
func Collect(ctx context.Context, catalog Catalog, opts Options) ([]schema.Table, error) {
	refs, err := discover(ctx, catalog, opts)
	if err != nil {
		return nil, err
	}

	tables := make([]schema.Table, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(opts.Concurrency))
	for i, ref := range refs {
		g.Go(func() error {
			t, err := catalog.DescribeTable(ctx, ref.schema, ref.name)
			if err != nil {
				return fmt.Errorf("describing %s.%s: %w", ref.schema, ref.name, err)
			}
			tables[i] = *t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func discover(ctx context.Context, catalog Catalog, opts Options) ([]tableRef, error) {
	if len(opts.Schemas) == 0 {
		return nil, errors.New("no schemas selected")
	}

	wanted := make(map[string]bool, len(opts.Tables))
	for _, t := range opts.Tables {
		wanted[t] = true
	}

	var refs []tableRef
	seen := make(map[string]bool)
	for _, s := range opts.Schemas {
		if seen[s] {
			continue
		}
		seen[s] = true

		names, err := catalog.ListTables(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("listing tables of schema %s: %w", s, err)
		}
		for _, name := range names {
			if len(wanted) > 0 && !wanted[name] && !wanted[s+"."+name] {
				continue
			}
			if opts.Exclude != nil && opts.Exclude(s, name) {
				logger.Debug("skipping excluded table %s.%s", s, name)
				continue
			}
			refs = append(refs, tableRef{schema: s, name: name})
		}
	}
	return refs, nil
}

// dependencyOrder returns the indexes of the generated results so that a
// table comes after the tables its foreign keys reference. Ties and cycles
// fall back to name order.
func dependencyOrder(results []TableResult) []int {
	byName := make(map[string]int)
	var names []string
	for i, r := range results {
		if r.Document == nil {
			continue
		}
		byName[r.QualifiedName()] = i
		names = append(names, r.QualifiedName())
	}
	sort.Strings(names)

	deps := make(map[string]map[string]bool, len(names))
	for _, n := range names {
		deps[n] = make(map[string]bool)
		for _, c := range results[byName[n]].Document.Constraints() {
			if c.Kind != schema.ForeignKey {
				continue
			}
			ref := c.ForeignTableRef()
			if _, ok := byName[ref]; ok && ref != n {
				deps[n][ref] = true
			}
		}
	}

	order := make([]int, 0, len(names))
	placed := make(map[string]bool, len(names))
	for len(order) < len(names) {
		progressed := false
		for _, n := range names {
			if placed[n] || !ready(deps[n], placed) {
				continue
			}
			placed[n] = true
			order = append(order, byName[n])
			progressed = true
		}
		if progressed {
			continue
		}
		// cycle: place the first remaining table and carry on
		for _, n := range names {
			if !placed[n] {
				logger.Warn("foreign key cycle through %s; migration order may need manual fixing", n)
				placed[n] = true
				order = append(order, byName[n])
				break
			}
		}
	}
	return order
}

func ready(deps map[string]bool, placed map[string]bool) bool {
	for d := range deps {
		if !placed[d] {
			return false
		}
	}
	return true
}

func limit(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

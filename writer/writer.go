package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ridoystarlord/knexgen/generator"
)

// TimestampFormat prefixes every file name, as knex's own migrate:make does.
const TimestampFormat = "20060102150405"

// Writer puts migration documents into a directory. All files of one
// Writer share a base timestamp; the sequence number passed to Write is
// added in seconds so knex runs the files in that order.
type Writer struct {
	Dir string
	Now func() time.Time

	once sync.Once
	base time.Time
}

func New(dir string) *Writer {
	return &Writer{Dir: dir, Now: time.Now}
}

// Prepare makes sure the directory exists. With clean it is emptied first.
func (w *Writer) Prepare(clean bool) error {
	if clean {
		if err := w.checkCleanable(); err != nil {
			return err
		}
		if err := os.RemoveAll(w.Dir); err != nil {
			return fmt.Errorf("cleaning output directory: %w", err)
		}
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

func (w *Writer) checkCleanable() error {
	abs, err := filepath.Abs(w.Dir)
	if err != nil {
		return fmt.Errorf("resolving output directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if abs == filepath.Dir(abs) {
		return fmt.Errorf("refusing to clean filesystem root %s", abs)
	}
	if wd, err := os.Getwd(); err == nil && within(wd, abs) {
		return fmt.Errorf("refusing to clean %s: it contains the working directory", w.Dir)
	}
	if home, err := os.UserHomeDir(); err == nil && abs == filepath.Clean(home) {
		return fmt.Errorf("refusing to clean the home directory")
	}
	return nil
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(path+sep, strings.TrimSuffix(dir, sep)+sep)
}

// FileName returns <timestamp>_create_<schema>_<table><ext>.
func (w *Writer) FileName(doc *generator.Document, seq int) string {
	ts := w.baseTime().Add(time.Duration(seq) * time.Second).Format(TimestampFormat)
	return fmt.Sprintf("%s_create_%s_%s%s", ts, sanitize(doc.Schema()), sanitize(doc.Table()), doc.Extension())
}

// Write stores doc and returns the path written. It is safe for concurrent
// use as long as sequence numbers are distinct.
func (w *Writer) Write(doc *generator.Document, seq int) (string, error) {
	path := filepath.Join(w.Dir, w.FileName(doc, seq))
	if err := os.WriteFile(path, []byte(doc.Text()), 0o644); err != nil {
		return "", fmt.Errorf("writing migration file: %w", err)
	}
	return path, nil
}

func (w *Writer) baseTime() time.Time {
	w.once.Do(func() {
		now := w.Now
		if now == nil {
			now = time.Now
		}
		w.base = now().Truncate(time.Second)
	})
	return w.base
}

// sanitize keeps identifiers usable as file name parts.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

package rewrite

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"hdrprefix/internal/logging"
)

// slowFileThreshold is the per-file duration above which a warning is logged.
const slowFileThreshold = 250 * time.Millisecond

const (
	opIncludeRewrite  = "include_rewrite"
	opNamespaceRename = "namespace_rename"
)

// Options configures a Driver.
type Options struct {
	// LibraryDir is the segment prepended to rewritten includes.
	LibraryDir string
	// Exclude holds doublestar patterns, relative to the walk root, of
	// files and directories to leave alone.
	Exclude []string
}

// Summary totals a run. Elapsed is the wall time spent inside the Driver's
// entry points, summed over every call.
type Summary struct {
	FilesVisited int
	FilesChanged int
	LinesChanged int
	Elapsed      time.Duration
}

// Driver applies the rewriters to a single file or to every regular file
// under a directory. The first failure stops the run; files rewritten before
// it stay rewritten.
type Driver struct {
	opts     Options
	reporter Reporter
	summary  Summary
}

// NewDriver returns a Driver. A nil reporter discards the trace.
func NewDriver(opts Options, reporter Reporter) *Driver {
	if opts.LibraryDir == "" {
		opts.LibraryDir = DefaultLibraryDir
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Driver{opts: opts, reporter: reporter}
}

// Summary returns the totals accumulated so far.
func (d *Driver) Summary() Summary {
	return d.summary
}

// RewriteIncludesInFile prefixes the library includes of one file.
func (d *Driver) RewriteIncludesInFile(ctx context.Context, file string) error {
	defer d.track(time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}
	rw := NewIncludeRewriter(d.opts.LibraryDir, d.reporter)
	return d.apply(opIncludeRewrite, file, rw.RewriteFile)
}

// RewriteIncludesUnder prefixes the library includes of every file under root.
func (d *Driver) RewriteIncludesUnder(ctx context.Context, root string) error {
	defer d.track(time.Now())
	rw := NewIncludeRewriter(d.opts.LibraryDir, d.reporter)
	logging.Rewrite("include rewrite under %s (prefix %s)", root, rw.Prefix())
	return d.walk(ctx, opIncludeRewrite, root, rw.RewriteFile)
}

// RenameNamespaceUnder renames src to dst on namespace lines of every file
// under root.
func (d *Driver) RenameNamespaceUnder(ctx context.Context, root, src, dst string) error {
	defer d.track(time.Now())
	nr, err := NewNamespaceRenamer(src, dst, d.reporter)
	if err != nil {
		return err
	}
	logging.Rewrite("namespace rename %q -> %q under %s", src, dst, root)
	return d.walk(ctx, opNamespaceRename, root, nr.RewriteFile)
}

func (d *Driver) track(start time.Time) {
	d.summary.Elapsed += time.Since(start)
}

func (d *Driver) apply(op, path string, fn func(string) (*FileResult, error)) error {
	audit := logging.Audit(op)
	timer := logging.StartTimer(logging.CategoryRewrite, op+" "+path)

	res, err := fn(path)
	timer.StopWithThreshold(slowFileThreshold)
	if err != nil {
		audit.FileError(path, err)
		logging.RewriteError("%v", err)
		return err
	}

	d.summary.FilesVisited++
	if !res.Changed() {
		audit.FileSkip(path, res.Lines)
		return nil
	}
	d.summary.FilesChanged++
	d.summary.LinesChanged += len(res.Changes)
	audit.FileWrite(path, len(res.Changes), res.Lines)
	logging.RewriteDebug("%s: %d of %d lines changed", path, len(res.Changes), res.Lines)
	return nil
}

// walk visits every regular file under root in lexical order. A symlinked
// root is resolved first. Symlinks to files are followed; symlinks to
// directories are not descended. A root that is not a directory yields
// nothing.
func (d *Driver) walk(ctx context.Context, op, root string, fn func(string) (*FileResult, error)) error {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	if !info.IsDir() {
		logging.WalkDebug("%s is not a directory, nothing to walk", root)
		return nil
	}

	return filepath.WalkDir(resolved, func(walked string, entry fs.DirEntry, err error) error {
		path := underRoot(root, resolved, walked)
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if walked != resolved && d.excluded(resolved, walked) {
			logging.WalkDebug("excluded %s", path)
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch mode := entry.Type(); {
		case mode.IsRegular():
		case mode&fs.ModeSymlink != 0:
			target, err := os.Stat(walked)
			if err != nil {
				return fmt.Errorf("walk %s: %w", path, err)
			}
			if !target.Mode().IsRegular() {
				logging.WalkDebug("not following %s", path)
				return nil
			}
		default:
			return nil
		}
		return d.apply(op, path, fn)
	})
}

// underRoot maps a path found under the resolved root back under the root
// the caller named, so traces show the caller's spelling.
func underRoot(root, resolved, walked string) string {
	rel, err := filepath.Rel(resolved, walked)
	if err != nil {
		return walked
	}
	return filepath.Join(root, rel)
}

func (d *Driver) excluded(root, path string) bool {
	if len(d.opts.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range d.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

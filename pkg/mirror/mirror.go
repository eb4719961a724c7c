package mirror

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/sidkik/build-ferry/pkg/errors"
)

// fs is used for mock tests. It will be overridden by afero.NewMemMapFs()
// in the tests.
var fs = afero.NewOsFs()

// Options configures a mirror pass.
type Options struct {
	// Workers is the maximum number of files copied concurrently. Defaults to
	// the number of CPUs.
	Workers int

	// OnCopied is called after each file is copied with its path relative to
	// the source root and its size. It may be called from multiple
	// goroutines at once.
	OnCopied func(relPath string, size int64)
}

// Stats summarizes a mirror pass.
type Stats struct {
	Dirs    int
	Files   int
	Bytes   int64
	Skipped int
}

// Mirror copies every directory and regular file under `from` into `to`,
// preserving their paths relative to `from`. `to` is created if it doesn't
// exist.
func Mirror(from, to string, opts Options) (Stats, error) {
	if err := fs.MkdirAll(to, 0755); err != nil {
		return Stats{}, errors.FinalDirCreateFailed{Path: to, Err: err}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var stats Stats
	var files, bytes int64
	parent, cancel := context.WithCancel(context.Background())
	defer cancel()
	group, ctx := errgroup.WithContext(parent)
	group.SetLimit(workers)

	walkErr := afero.Walk(fs, from, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return errors.MirrorFailed{Path: path, Err: err}
		}

		// A copy already failed. Stop walking so that the copy error is
		// reported.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		relPath, err := filepath.Rel(from, path)
		if err != nil {
			return errors.MirrorFailed{Path: path, Err: errors.WithContext(err, "relative path")}
		}
		dst := filepath.Join(to, relPath)

		switch mode := fi.Mode(); {
		case mode.IsDir():
			if err := fs.MkdirAll(dst, 0755); err != nil {
				return errors.MirrorFailed{Path: dst, Err: err}
			}
			if relPath != "." {
				stats.Dirs++
			}
		case mode.IsRegular():
			src := path
			group.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}

				n, err := copyFile(ctx, src, dst)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				if err != nil {
					return err
				}
				atomic.AddInt64(&files, 1)
				atomic.AddInt64(&bytes, n)
				if opts.OnCopied != nil {
					opts.OnCopied(relPath, n)
				}
				return nil
			})
		default:
			log.WithFields(log.Fields{
				"path": path,
				"mode": mode.Type().String(),
			}).Warn("Skipping entry that is neither a directory nor a regular file")
			stats.Skipped++
		}
		return nil
	})
	if walkErr != nil {
		cancel()
		log.WithError(walkErr).Debug("Cancelled outstanding copies")
	}

	copyErr := group.Wait()
	stats.Files = int(files)
	stats.Bytes = bytes
	if copyErr != nil {
		return stats, copyErr
	}
	if walkErr != nil {
		return stats, walkErr
	}
	return stats, nil
}

// copyFile copies the contents, mode and modification time of `src` to
// `dst`, replacing `dst` if it already exists. It returns the number of
// bytes copied. The destination isn't touched if `ctx` is cancelled before
// the source is open.
func copyFile(ctx context.Context, src, dst string) (int64, error) {
	// The walk creates parents before queueing their files, but creating
	// them again here keeps the copy correct on its own.
	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, errors.MirrorFailed{Path: filepath.Dir(dst), Err: err}
	}

	srcFile, err := fs.Open(src)
	if err != nil {
		return 0, errors.MirrorFailed{Path: src, Err: errors.WithContext(err, "open source")}
	}
	defer srcFile.Close()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fileInfo, err := srcFile.Stat()
	if err != nil {
		return 0, errors.MirrorFailed{Path: src, Err: errors.WithContext(err, "stat")}
	}

	dstFile, err := fs.Create(dst)
	if err != nil {
		return 0, errors.MirrorFailed{Path: dst, Err: errors.WithContext(err, "open destination")}
	}

	// The destination is closed explicitly rather than deferred, since
	// closing a written file can bump its modtime.
	if err := fs.Chmod(dst, fileInfo.Mode()); err != nil {
		dstFile.Close()
		return 0, errors.MirrorFailed{Path: dst, Err: errors.WithContext(err, "set file mode")}
	}

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		dstFile.Close()
		return n, errors.MirrorFailed{Path: dst, Err: errors.WithContext(err, "copy")}
	}

	if err := dstFile.Close(); err != nil {
		return n, errors.MirrorFailed{Path: dst, Err: errors.WithContext(err, "close destination")}
	}

	// Change the modification time as the last step so that it doesn't get
	// reset by other file operations.
	if err := fs.Chtimes(dst, time.Now(), fileInfo.ModTime()); err != nil {
		return n, errors.MirrorFailed{Path: dst, Err: errors.WithContext(err, "set file modtime")}
	}
	return n, nil
}

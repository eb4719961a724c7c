package ferry

import (
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/sidkik/build-ferry/pkg/config"
	"github.com/sidkik/build-ferry/pkg/errors"
	"github.com/sidkik/build-ferry/pkg/mirror"
)

// Variables mocked for unit testing.
var (
	clock      = clockwork.NewRealClock()
	mirrorTree = mirror.Mirror
)

// A Job is a single build-ferry invocation.
type Job struct {
	Config     config.Resolved
	Invocation Invocation

	// PassthroughArgs are appended to the wrapped tool's arguments.
	PassthroughArgs []string

	// OnCopied is passed through to mirror.Options.
	OnCopied func(relPath string, size int64)
}

// Result describes what a Job did.
type Result struct {
	// ScratchPath is the project's directory within the temp target.
	ScratchPath string

	// OutputDir is the directory the wrapped tool wrote to.
	OutputDir string

	// Mirrored is true if the output was mirrored to the final target.
	Mirrored    bool
	MirrorStats mirror.Stats

	BuildDuration  time.Duration
	MirrorDuration time.Duration
}

// Run runs the wrapped tool with its output redirected to the project's
// scratch path. If the tool succeeds and the invocation produces artifacts,
// the output is then mirrored into the final target. The mirror is never
// attempted if the tool fails.
func Run(job Job) (Result, error) {
	scratch, err := scratchPath(job.Config)
	if err != nil {
		return Result{}, errors.WithContext(err, "derive scratch path")
	}

	result := Result{
		ScratchPath: scratch,
		OutputDir:   filepath.Join(scratch, job.Invocation.OutputSubpath),
	}

	start := clock.Now()
	err = Delegate(job.Invocation, job.Config.ProjectDir, result.OutputDir, job.PassthroughArgs)
	result.BuildDuration = clock.Since(start)
	if err != nil {
		return result, errors.WithContext(err, "run "+job.Invocation.Name())
	}
	log.WithFields(log.Fields{
		"command":  job.Invocation.Name(),
		"duration": result.BuildDuration,
	}).Info("Wrapped tool finished")

	if !job.Invocation.Mirror {
		log.WithField("command", job.Invocation.Name()).Debug(
			"Not mirroring since the command doesn't produce final artifacts")
		return result, nil
	}

	start = clock.Now()
	result.MirrorStats, err = mirrorTree(result.OutputDir, job.Config.FinalTarget, mirror.Options{
		Workers:  job.Config.MirrorWorkers,
		OnCopied: job.OnCopied,
	})
	result.MirrorDuration = clock.Since(start)
	if err != nil {
		return result, errors.WithContext(err, "mirror artifacts")
	}
	result.Mirrored = true

	log.WithFields(log.Fields{
		"from":     result.OutputDir,
		"to":       job.Config.FinalTarget,
		"files":    result.MirrorStats.Files,
		"bytes":    result.MirrorStats.Bytes,
		"skipped":  result.MirrorStats.Skipped,
		"duration": result.MirrorDuration,
	}).Info("Mirrored artifacts")
	return result, nil
}

func scratchPath(cfg config.Resolved) (string, error) {
	if cfg.IsolateProjects {
		return IsolatedScratchPath(cfg.TempTarget, cfg.ProjectDir)
	}
	return ScratchPath(cfg.TempTarget, cfg.ProjectDir)
}

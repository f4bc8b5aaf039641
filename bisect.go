package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// EvaluateFunc runs the test matrix against one release and reports whether
// it passed.
type EvaluateFunc func(ctx context.Context, version string, tarballURL string) (bool, error)

type BisectOptions struct {
	URLPrefix    string
	WebDir       string
	StartVersion string
	EndVersion   string
	Bucket       string
	Region       string
}

// Bisector searches the releases between two versions for the last one that
// passes the test matrix. Releases are assumed to pass up to some version and
// fail from the next one on.
type Bisector struct {
	Releases ReleaseStore
	Logger   *zap.SugaredLogger
	Options  BisectOptions
	Evaluate EvaluateFunc
}

// Run returns the last passing release, or an empty string when even the
// oldest release in range fails.
func (b *Bisector) Run(ctx context.Context) (string, error) {
	all, err := b.Releases.ListVersions(ctx)
	if err != nil {
		return "", err
	}
	versions := VersionsInRange(all, b.Options.StartVersion, b.Options.EndVersion)
	if len(versions) == 0 {
		end := b.Options.EndVersion
		if end == "" {
			end = "the newest release"
		}
		return "", fmt.Errorf("no releases between %v and %v", b.Options.StartVersion, end)
	}
	b.Logger.Infof("bisecting %d releases from %v to %v", len(versions), versions[0], versions[len(versions)-1])

	low, high := 0, len(versions)-1
	for low <= high {
		middle := low + (high-low)/2
		version := versions[middle]
		good, err := b.evaluate(ctx, version)
		if err != nil {
			return "", fmt.Errorf("release %v: %w", version, err)
		}
		if good {
			low = middle + 1
		} else {
			high = middle - 1
		}
		b.Logger.Infof("release %v passed: %v, %d releases left to check", version, good, max(high-low+1, 0))
	}
	if low == 0 {
		return "", nil
	}
	return versions[low-1], nil
}

func (b *Bisector) evaluate(ctx context.Context, version string) (bool, error) {
	tarball, err := b.Releases.FindTarball(ctx, version)
	if err != nil {
		return false, err
	}
	if err := b.Releases.Download(ctx, version, tarball, b.Options.WebDir); err != nil {
		return false, err
	}
	url := strings.TrimSuffix(b.Options.URLPrefix, "/") + "/" + tarball
	b.Logger.Infof("running against version %v (%v)", version, url)
	return b.Evaluate(ctx, version, url)
}

// matrixEvaluator runs one pass of the matrix per release. A release fails
// when some run could not be analyzed or the time budget ran out before the
// pass was over. The log directory is cleared between releases.
func matrixEvaluator(s *session, config Config) EvaluateFunc {
	return func(ctx context.Context, version string, tarballURL string) (bool, error) {
		releaseConfig := config
		releaseConfig.TarballURL = tarballURL
		driver := s.NewDriver(releaseConfig)
		driver.SinglePass = true
		driver.StopOnAnalysisInvalid = true

		state, err := driver.Run(ctx)
		s.Logger.Infof("test matrix for version %v finished in state %v", version, state)
		if err != nil {
			return false, err
		}
		if err := s.Logs.Reset(); err != nil {
			return false, err
		}
		return state == MatrixCompleted, nil
	}
}

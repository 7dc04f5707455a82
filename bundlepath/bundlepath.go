// Package bundlepath resolves the result bundle paths given as step input.
package bundlepath

import (
	"fmt"
	"strings"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/pathutil"
)

// Processor accepts result bundle paths separated by the newline (`\n`) character and returns their absolute paths.
type Processor interface {
	ProcessBundlePaths(string) ([]string, error)
}

type processor struct {
	repository   env.Repository
	pathModifier pathutil.PathModifier
	pathChecker  pathutil.PathChecker
}

// NewProcessor returns a Processor which handles paths defined as environment variables, relative paths
// and absolute paths. Every path has to point to an existing directory, as result bundles are directories.
func NewProcessor(repository env.Repository, modifier pathutil.PathModifier, checker pathutil.PathChecker) Processor {
	return processor{
		repository:   repository,
		pathModifier: modifier,
		pathChecker:  checker,
	}
}

func (p processor) ProcessBundlePaths(bundlePaths string) ([]string, error) {
	bundlePaths = strings.TrimSpace(bundlePaths)
	if bundlePaths == "" {
		return nil, nil
	}

	var processedPaths []string
	for _, item := range strings.Split(bundlePaths, "\n") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		pth := item
		if strings.HasPrefix(item, "$") {
			pth = p.repository.Get(strings.TrimPrefix(item, "$"))
			if pth == "" {
				return nil, fmt.Errorf("invalid item (%s): environment variable isn't set", item)
			}
		}

		absPth, err := p.pathModifier.AbsPath(pth)
		if err != nil {
			return nil, err
		}

		isDir, err := p.pathChecker.IsDirExists(absPth)
		if err != nil {
			return nil, fmt.Errorf("failed to check if path (%s) is a directory: %w", absPth, err)
		}
		if !isDir {
			return nil, fmt.Errorf("result bundle (%s) does not exist or is not a directory", absPth)
		}

		processedPaths = append(processedPaths, absPth)
	}

	return processedPaths, nil
}

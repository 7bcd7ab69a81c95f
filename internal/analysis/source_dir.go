package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantara/routeguard/pkg/config"
	"github.com/quantara/routeguard/pkg/route"
)

// DirectorySource serves candidate sets from JSON files on disk, one file
// per od-pair named by its slug. Deployments drop pre-collected candidate
// files into the directory; there is no live routing provider behind it.
type DirectorySource struct {
	dir string
}

func NewDirectorySource(dir string) *DirectorySource {
	return &DirectorySource{dir: dir}
}

func (d *DirectorySource) FetchCandidates(ctx context.Context, origin, destination string) (*route.CandidateSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(d.dir, config.ODSlug(origin, destination)+".json")
	set, err := route.LoadCandidateSet(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no candidate file for %s -> %s", origin, destination)
		}
		return nil, err
	}
	if len(set.Candidates) == 0 {
		return nil, fmt.Errorf("candidate file %s has no routes", path)
	}
	return set, nil
}

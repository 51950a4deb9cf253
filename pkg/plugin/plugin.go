// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package plugin resolves a processor name into a ProcessorFunc: an
// "owner/repo" name ("acme/minify") is fetched as a prebuilt Go plugin from
// that GitHub repository's latest release; a relative name ("./local.so",
// "../shared/x.so") loads straight off disk. A single-segment name with no
// slash ("minify") is not resolved: Load returns an error for it. Results
// are memoized per name, mirroring spec.md §6's "Results are memoized."
package plugin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/filelist"
)

// ProcessorFunc is the exported symbol contract every weft plugin shared
// object must provide, under the name Symbol.
type ProcessorFunc func(opts filelist.Options) filelist.Processor

// Symbol is the exported identifier a plugin shared object must define,
// of type ProcessorFunc.
const Symbol = "Processor"

type cacheEntry struct {
	fn  ProcessorFunc
	err error
}

// Loader resolves and memoizes processor plugins.
type Loader struct {
	workingDir string
	cacheDir   string
	client     *github.Client

	cache sync.Map // name -> *cacheEntry
}

// New creates a Loader. cacheDir holds downloaded plugin binaries across
// runs; workingDir anchors relative plugin paths.
func New(workingDir, cacheDir string) *Loader {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return &Loader{workingDir: workingDir, cacheDir: cacheDir, client: client}
}

// isRelativeName reports whether name should be loaded straight off disk
// rather than resolved as a GitHub "owner/repo" reference. A "./" or "../"
// prefix is always relative; otherwise a name that actually splits into a
// valid owner/repo pair is remote, and anything else containing a path
// separator (multi-segment paths, absolute paths) falls back to relative.
func isRelativeName(name string) bool {
	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		return true
	}
	if _, _, err := splitOwnerRepo(name); err == nil {
		return false
	}
	return strings.Contains(name, string(filepath.Separator))
}

// Load resolves name to a ProcessorFunc, downloading and caching it on
// disk first if name is a bare remote package reference.
func (l *Loader) Load(ctx context.Context, name string) (ProcessorFunc, error) {
	if cached, ok := l.cache.Load(name); ok {
		e := cached.(*cacheEntry)
		return e.fn, e.err
	}

	fn, err := l.load(ctx, name)
	l.cache.Store(name, &cacheEntry{fn: fn, err: err})
	return fn, err
}

func (l *Loader) load(ctx context.Context, name string) (ProcessorFunc, error) {
	if isRelativeName(name) {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(l.workingDir, path)
		}
		return openPlugin(path)
	}
	return l.loadRemote(ctx, name)
}

// loadRemote treats name as an "owner/repo" GitHub reference, fetches the
// release asset matching this platform, caches it under l.cacheDir, and
// opens it as a Go plugin.
func (l *Loader) loadRemote(ctx context.Context, name string) (ProcessorFunc, error) {
	logger := zerolog.Ctx(ctx)

	owner, repo, err := splitOwnerRepo(name)
	if err != nil {
		return nil, errors.Errorf("resolving plugin %q: %w", name, err)
	}

	assetName := fmt.Sprintf("%s-%s-%s.so", repo, runtime.GOOS, runtime.GOARCH)
	cachedPath := filepath.Join(l.cacheDir, owner, assetName)
	if _, err := os.Stat(cachedPath); err == nil {
		logger.Debug().Str("plugin", name).Str("path", cachedPath).Msg("using cached plugin binary")
		return openPlugin(cachedPath)
	}

	release, _, err := l.client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, errors.Errorf("fetching latest release for plugin %q: %w", name, err)
	}

	var downloadURL string
	for _, asset := range release.Assets {
		if asset.GetName() == assetName {
			downloadURL = asset.GetBrowserDownloadURL()
			break
		}
	}
	if downloadURL == "" {
		return nil, errors.Errorf("plugin %q has no release asset named %s", name, assetName)
	}

	if err := downloadTo(ctx, downloadURL, cachedPath); err != nil {
		return nil, errors.Errorf("downloading plugin %q: %w", name, err)
	}

	return openPlugin(cachedPath)
}

func splitOwnerRepo(name string) (owner, repo string, err error) {
	parts := strings.Split(name, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("plugin name must be \"owner/repo\": %s", name)
	}
	return parts[0], parts[1], nil
}

func downloadTo(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Errorf("building download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Errorf("downloading asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("downloading asset: unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Errorf("creating plugin cache directory: %w", err)
	}

	tmp := dest + ".download"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return errors.Errorf("creating plugin file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Errorf("writing plugin file: %w", err)
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("closing plugin file: %w", err)
	}
	return os.Rename(tmp, dest)
}

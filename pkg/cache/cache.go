package cache

import (
	"context"
	"path/filepath"
	"time"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/logging"
	"github.com/arthur-debert/cpgen/pkg/types"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxRedirects bounds redirect following during the download
const maxRedirects = 10

// Options configures a Cache.
type Options struct {
	// URL of the gzip-compressed tar bundle
	URL string
	// Timeout bounds a single download; zero means no timeout
	Timeout time.Duration
	// SkipXattrs disables extended attribute restoration during extraction.
	// Backends that are not the host filesystem must set it.
	SkipXattrs bool
	// Client overrides the HTTP client
	Client *resty.Client
}

// Cache fetches, extracts and publishes the template bundle.
type Cache struct {
	fs         types.FS
	root       Root
	url        string
	timeout    time.Duration
	skipXattrs bool
	client     *resty.Client
	logger     zerolog.Logger
}

// New creates a Cache rooted at root.
func New(fs types.FS, root Root, opts Options) *Cache {
	client := opts.Client
	if client == nil {
		client = resty.New().
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
			SetHeader("User-Agent", "cpgen")
	}

	return &Cache{
		fs:         fs,
		root:       root,
		url:        opts.URL,
		timeout:    opts.Timeout,
		skipXattrs: opts.SkipXattrs,
		client:     client,
		logger:     logging.GetLogger("cache"),
	}
}

// Root returns the cache root.
func (c *Cache) Root() Root {
	return c.root
}

// Ready reports whether a published template tree exists.
func (c *Cache) Ready() bool {
	_, err := c.RootPath()
	return err == nil
}

// EnsureReady refreshes the cache when no template tree has been published.
func (c *Cache) EnsureReady(ctx context.Context) error {
	if c.Ready() {
		c.logger.Debug().Str("root", c.root.TemplatesDir()).Msg("Template cache ready")
		return nil
	}

	c.logger.Info().Str("root", c.root.Dir).Msg("Template cache empty, downloading templates")
	_, err := c.Refresh(ctx)
	return err
}

// Refresh downloads the bundle and replaces the published tree with it.
func (c *Cache) Refresh(ctx context.Context) (*types.UpdateResult, error) {
	defer logging.LogOperationStart(c.logger, "refresh")()

	if c.url == "" {
		return nil, errors.New(errors.ErrConfiguration, "no template URL configured")
	}

	if err := c.fs.MkdirAll(c.root.Dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCacheUnavailable, "failed to create cache root %s", c.root.Dir).
			WithDetail(errors.DetailPath, c.root.Dir)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.fetch(ctx, c.root.ArchivePath()); err != nil {
		return nil, err
	}

	staging := filepath.Join(c.root.Dir, ".staging-"+uuid.NewString())
	defer func() {
		if err := c.fs.RemoveAll(staging); err != nil {
			c.logger.Warn().Err(err).Str("path", staging).Msg("Failed to remove staging directory")
		}
	}()

	entries, err := c.extract(c.root.ArchivePath(), staging)
	if err != nil {
		return nil, err
	}

	staged := filepath.Join(staging, filepath.Base(c.root.TemplatesDir()))
	info, err := c.fs.Stat(staged)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrExtractFailed, "archive has no templates root directory").
			WithDetail(errors.DetailEntry, filepath.Base(staged))
	}

	replaced, err := c.publish(staged)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Int("entries", entries).
		Bool("replaced", replaced).
		Str("root", c.root.TemplatesDir()).
		Msg("Template cache updated")

	return &types.UpdateResult{
		URL:          c.url,
		ArchivePath:  c.root.ArchivePath(),
		TemplateRoot: c.root.TemplatesDir(),
		Entries:      entries,
		Replaced:     replaced,
	}, nil
}

// publish swaps staged into the published location. The prior tree is moved
// aside first and restored if the final rename fails.
func (c *Cache) publish(staged string) (bool, error) {
	published := c.root.TemplatesDir()

	var aside string
	if _, err := c.fs.Lstat(published); err == nil {
		aside = filepath.Join(c.root.Dir, ".templates-old-"+uuid.NewString())
		if err := c.fs.Rename(published, aside); err != nil {
			return false, errors.Wrapf(err, errors.ErrExtractFailed, "failed to move previous templates aside").
				WithDetail(errors.DetailPath, published)
		}
	}

	if err := c.fs.Rename(staged, published); err != nil {
		if aside != "" {
			if rerr := c.fs.Rename(aside, published); rerr != nil {
				c.logger.Error().Err(rerr).Str("path", aside).Msg("Failed to restore previous templates")
			}
		}
		return false, errors.Wrapf(err, errors.ErrExtractFailed, "failed to publish templates").
			WithDetail(errors.DetailPath, published)
	}

	if aside != "" {
		if err := c.fs.RemoveAll(aside); err != nil {
			c.logger.Warn().Err(err).Str("path", aside).Msg("Failed to remove previous templates")
		}
	}

	return aside != "", nil
}

// RootPath returns the published template tree.
func (c *Cache) RootPath() (string, error) {
	dir := c.root.TemplatesDir()
	info, err := c.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", errors.New(errors.ErrCacheUnavailable, "template cache has not been populated, run 'cpgen update'").
			WithDetail(errors.DetailPath, dir)
	}
	return dir, nil
}

// SubtreePath returns the named subtree (e.g. "library/static_shared").
func (c *Cache) SubtreePath(name string) (string, error) {
	root, err := c.RootPath()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(root, filepath.FromSlash(name))
	info, err := c.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", errors.Newf(errors.ErrCacheUnavailable, "template subtree %q is missing from the cache", name).
			WithDetail(errors.DetailPath, dir)
	}
	return dir, nil
}

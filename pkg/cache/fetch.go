package cache

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/google/uuid"
)

// fetch streams the bundle to a staging file next to dest and renames it
// into place once the body has been fully written.
func (c *Cache) fetch(ctx context.Context, dest string) error {
	c.logger.Debug().Str("url", c.url).Msg("Downloading template bundle")

	resp, err := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(c.url)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFetchFailed, "failed to download %s", c.url).
			WithDetail(errors.DetailURL, c.url)
	}
	body := resp.RawBody()
	defer func() {
		_ = body.Close()
	}()

	if !resp.IsSuccess() {
		return errors.Newf(errors.ErrFetchFailed, "failed to download %s: %s", c.url, resp.Status()).
			WithDetail(errors.DetailURL, c.url).
			WithDetail("status", resp.StatusCode())
	}

	part := filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+"."+uuid.NewString()+".part")
	f, err := c.fs.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFetchFailed, "failed to create %s", part).
			WithDetail(errors.DetailPath, part)
	}

	written, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = c.fs.Remove(part)
		return errors.Wrapf(copyErr, errors.ErrFetchFailed, "failed to download %s", c.url).
			WithDetail(errors.DetailURL, c.url)
	}

	if err := c.fs.Rename(part, dest); err != nil {
		_ = c.fs.Remove(part)
		return errors.Wrapf(err, errors.ErrFetchFailed, "failed to store archive at %s", dest).
			WithDetail(errors.DetailPath, dest)
	}

	c.logger.Debug().Int64("bytes", written).Str("path", dest).Msg("Template bundle downloaded")
	return nil
}

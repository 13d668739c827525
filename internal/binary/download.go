package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
)

const (
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "ziro-dist/1.0"
	// MaxRedirects is the number of redirect hops followed.
	MaxRedirects = 1

	copyBufferSize = 32 * 1024
)

// Fetcher downloads a URL to a local file.
type Fetcher interface {
	Download(ctx context.Context, url, destPath string, onProgress ProgressFunc) error
}

// Downloader fetches release archives over HTTP.
//
// It follows a single 301/302 redirect (release hosts usually answer with
// one redirect to a storage bucket) and reports progress while streaming the
// body to disk. There is no retry and no client timeout.
type Downloader struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// NewDownloader creates a downloader. An empty userAgent selects
// DefaultUserAgent.
func NewDownloader(userAgent string, logger zerolog.Logger) *Downloader {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Downloader{
		client: &http.Client{
			// Redirects are handled in fetch so the hop count stays explicit.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Download streams url into destPath. On any failure destPath is removed.
// It returns only after the file has been synced and closed.
func (d *Downloader) Download(ctx context.Context, url, destPath string, onProgress ProgressFunc) (err error) {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(destPath)
		}
	}()

	resp, err := d.fetch(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	d.logger.Debug().
		Str("url", resp.Request.URL.String()).
		Int64("content_length", resp.ContentLength).
		Msg("streaming archive")

	if err := copyWithProgress(out, resp.Body, resp.ContentLength, url, onProgress); err != nil {
		return err
	}

	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}

	return nil
}

// fetch issues the GET and follows at most MaxRedirects hops.
func (d *Downloader) fetch(ctx context.Context, url string) (*http.Response, error) {
	current := url

	for hop := 0; ; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", d.userAgent)

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, &NetworkError{URL: current, Err: err}
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil

		case isRedirect(resp.StatusCode) && hop < MaxRedirects:
			loc, err := resp.Location()
			resp.Body.Close()
			if err != nil {
				return nil, &DownloadFailedError{StatusCode: resp.StatusCode, URL: current}
			}
			d.logger.Debug().Str("from", current).Str("to", loc.String()).Msg("following redirect")
			current = loc.String()

		default:
			resp.Body.Close()
			return nil, &DownloadFailedError{StatusCode: resp.StatusCode, URL: current}
		}
	}
}

func isRedirect(code int) bool {
	return code == http.StatusMovedPermanently || code == http.StatusFound
}

// copyWithProgress copies src to dst, emitting a Progress after every write.
// Read errors are reported as NetworkError; write errors are returned as-is.
func copyWithProgress(dst io.Writer, src io.Reader, total int64, url string, onProgress ProgressFunc) error {
	if total < 0 {
		total = -1
	}

	emit := func(received int64, done bool) {
		if onProgress == nil {
			return
		}
		p := Progress{Received: received, Total: total, Percent: -1, Done: done}
		if total > 0 {
			p.Percent = float64(received) * 100 / float64(total)
		} else if total == 0 {
			p.Percent = 100
		}
		onProgress(p)
	}

	buf := make([]byte, copyBufferSize)
	var received int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return fmt.Errorf("write archive: %w", err)
			}
			received += int64(n)
			emit(received, false)
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return &NetworkError{URL: url, Err: readErr}
		}
	}

	emit(received, true)
	return nil
}

package downloader

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"
)

// Progress receives per chapter progress. MarkDone is only called when the
// chapter succeeded.
type Progress interface {
	Update(done, total int, bytes int64)
	MarkDone()
}

type nopProgress struct{}

func (nopProgress) Update(int, int, int64) {}
func (nopProgress) MarkDone()              {}

type Downloader struct {
	client     *http.Client
	skipBroken bool

	// Attempts and Backoff control per image retries.
	Attempts uint
	Backoff  time.Duration
}

func New(c *http.Client, skipBroken bool) *Downloader {
	return &Downloader{
		client:     c,
		skipBroken: skipBroken,
		Attempts:   3,
		Backoff:    time.Second,
	}
}

// Result describes one finished chapter.
type Result struct {
	Files  []string
	Bytes  int64
	Failed int
}

type chapterState struct {
	mu    sync.Mutex
	done  int
	total int
	bytes int64
	ph    Progress
}

func (cs *chapterState) addBytes(n int64) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.bytes += n
	cs.ph.Update(cs.done, cs.total, cs.bytes)
}

func (cs *chapterState) finishImage() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.done++
	cs.ph.Update(cs.done, cs.total, cs.bytes)
}

// DownloadImages fetches urls into folder with at most parallel requests in
// flight. Files are named after their position so the archive keeps page
// order. Failed images are an error unless skipBroken was set.
func (d *Downloader) DownloadImages(ctx context.Context, urls []string, folder, referer string, parallel int, ph Progress) (Result, error) {
	if ph == nil {
		ph = nopProgress{}
	}
	if err := os.MkdirAll(folder, 0755); err != nil {
		return Result{}, err
	}

	cs := &chapterState{total: len(urls), ph: ph}
	ph.Update(0, cs.total, 0)

	files := make([]string, len(urls))
	var (
		failedMu sync.Mutex
		failed   []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, parallel))

	for i, u := range urls {
		g.Go(func() error {
			defer cs.finishImage()

			if strings.HasSuffix(strings.ToLower(u), ".gif") {
				return nil
			}

			out := filepath.Join(folder, fmt.Sprintf("page_%03d%s", i+1, imageExt(u)))
			if err := d.downloadWithRetry(gctx, u, out, referer, cs.addBytes); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failedMu.Lock()
				failed = append(failed, fmt.Errorf("image %d: %w", i+1, err))
				failedMu.Unlock()
				return nil
			}

			files[i] = out
			return nil
		})
	}

	err := g.Wait()

	res := Result{Bytes: cs.bytes, Failed: len(failed)}
	for _, f := range files {
		if f != "" {
			res.Files = append(res.Files, f)
		}
	}

	if err != nil {
		return res, err
	}
	if len(failed) > 0 && !d.skipBroken {
		return res, fmt.Errorf("failed %d/%d images (use --skip-broken to continue): %w", len(failed), len(urls), failed[0])
	}

	ph.MarkDone()
	return res, nil
}

func imageExt(u string) string {
	p := u
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	if ext := path.Ext(p); ext != "" && len(ext) <= 5 {
		return ext
	}

	return ".jpg"
}

func (d *Downloader) downloadWithRetry(ctx context.Context, u, output, referer string, progress func(delta int64)) error {
	return retry.Do(
		func() error {
			var written int64
			err := d.download(ctx, u, output, referer, func(n int64) {
				written += n
				progress(n)
			})
			if err != nil && written > 0 {
				// the next attempt starts over
				progress(-written)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(max(1, d.Attempts)),
		retry.Delay(d.Backoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func (d *Downloader) download(ctx context.Context, u, output, referer string, progress func(delta int64)) (err error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return retry.Unrecoverable(err)
	}

	req.Header.Set("Referer", referer)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d", resp.StatusCode)
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden {
			return retry.Unrecoverable(err)
		}
		return err
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, _ := mime.ParseMediaType(ct); !strings.HasPrefix(mt, "image/") {
			return retry.Unrecoverable(fmt.Errorf("unexpected MIME: %s", ct))
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = copyWithProgress(f, resp.Body, progress)
	return err
}

package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/mangaseek/internal/util"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressManager renders one bar per chapter being downloaded.
type ProgressManager struct {
	p *mpb.Progress
}

func NewProgressManager(w io.Writer) *ProgressManager {
	return &ProgressManager{p: mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(w),
		mpb.WithRefreshRate(120*time.Millisecond),
	)}
}

// Wait blocks until every bar has completed and been rendered.
func (pm *ProgressManager) Wait() {
	pm.p.Wait()
}

// Register adds a bar labelled prefix.
func (pm *ProgressManager) Register(prefix string) *ProgressHandle {
	h := &ProgressHandle{start: time.Now()}

	h.bar = pm.p.New(0,
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(prefix+"  "),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d pages", decor.WCSyncWidth),
			decor.Any(func(decor.Statistics) string {
				return " | " + util.Human(h.bytes.Load())
			}),
			decor.Any(func(decor.Statistics) string {
				return fmt.Sprintf(" | %ds", h.seconds())
			}),
		),
	)

	return h
}

type ProgressHandle struct {
	bar   *mpb.Bar
	start time.Time

	total   atomic.Int64
	bytes   atomic.Int64
	elapsed atomic.Int64
	final   atomic.Bool
}

func (h *ProgressHandle) seconds() int64 {
	if h.final.Load() {
		return h.elapsed.Load()
	}

	return int64(time.Since(h.start).Seconds())
}

func (h *ProgressHandle) Update(done, total int, bytes int64) {
	if h.final.Load() {
		return
	}

	if total > 0 {
		h.total.Store(int64(total))
		h.bar.SetTotal(int64(total), false)
	}
	h.bytes.Store(bytes)
	h.bar.SetCurrent(int64(done))
}

// MarkDone completes the bar; later updates are ignored.
func (h *ProgressHandle) MarkDone() {
	if h.final.Swap(true) {
		return
	}

	h.elapsed.Store(int64(time.Since(h.start).Seconds()))
	h.bar.SetCurrent(h.total.Load())
	h.bar.SetTotal(h.total.Load(), true)
}

// Abort removes the bar of a chapter that failed.
func (h *ProgressHandle) Abort() {
	if h.final.Swap(true) {
		return
	}

	h.bar.Abort(true)
}

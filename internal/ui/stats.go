package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/mangaseek/internal/util"
)

// Stats totals a download run across chapter workers.
type Stats struct {
	TotalImages   atomic.Int64
	TotalBytes    atomic.Int64
	TotalChapters atomic.Int64
	FailedImages  atomic.Int64
	FailedChaps   atomic.Int64
}

func (s *Stats) Print(w io.Writer, elapsed time.Duration) {
	fmt.Fprintln(w, "Download Summary:")
	fmt.Fprintf(w, "Chapters: %d\n", s.TotalChapters.Load())
	fmt.Fprintf(w, "Images:   %d\n", s.TotalImages.Load())
	fmt.Fprintf(w, "Data:     %s\n", util.Human(s.TotalBytes.Load()))
	fmt.Fprintf(w, "Time:     %s\n", elapsed.Round(time.Second))

	if n := s.FailedChaps.Load(); n > 0 {
		fmt.Fprintf(w, "Failed:   %d chapters\n", n)
	}
	if n := s.FailedImages.Load(); n > 0 {
		fmt.Fprintf(w, "Skipped:  %d images\n", n)
	}
}

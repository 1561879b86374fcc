package downloader

import (
	"errors"
	"io"
)

// copyWithProgress is io.Copy reporting every written chunk.
func copyWithProgress(dst io.Writer, src io.Reader, progress func(delta int64)) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64

	for {
		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[:nr])
			if nw > 0 {
				total += int64(nw)
				progress(int64(nw))
			}
			if ew != nil {
				return total, ew
			}
			if nr != nw {
				return total, io.ErrShortWrite
			}
		}

		if errors.Is(er, io.EOF) {
			return total, nil
		}
		if er != nil {
			return total, er
		}
	}
}

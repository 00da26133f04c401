package generate

import (
	"errors"
	"io"
	"net/http"

	"curriculum-backend/internal/llm"
)

// Sent when the provider stream breaks after content has already been
// written; the status code is long gone by then, so the failure has to be
// signalled in-band.
const streamErrorMarker = "\n\n[ERROR] Generation interrupted. Please try again."

// Relay copies provider fragments to the client in arrival order, flushing
// after each one so the client sees tokens as they are produced. It returns
// the number of bytes written and the provider error that ended the stream,
// nil for a clean end.
func Relay(w http.ResponseWriter, stream llm.Stream) (int64, error) {
	flusher, _ := w.(http.Flusher)

	var written int64
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			// Best effort; the client connection may already be gone.
			n, _ := io.WriteString(w, streamErrorMarker)
			written += int64(n)
			if flusher != nil {
				flusher.Flush()
			}
			return written, err
		}
		if fragment == "" {
			continue
		}
		n, werr := io.WriteString(w, fragment)
		written += int64(n)
		if werr != nil {
			return written, werr
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

package mdhtml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrTooLarge reports a remote document over HTTPRenderRequest.MaxBytes.
var ErrTooLarge = errors.New("document too large")

// HTTPRenderRequest configures HTTPRender. A nil Client uses
// http.DefaultClient and a MaxBytes of zero disables the size limit.
type HTTPRenderRequest struct {
	URL      string
	Client   *http.Client
	Writer   io.Writer
	MaxBytes int64
	Options  []Option
}

const acceptMarkdown = "text/markdown, text/plain;q=0.9, */*;q=0.1"

// HTTPRender GETs the Markdown document at req.URL and writes the converted
// output to req.Writer. Only http and https URLs are fetched.
func HTTPRender(ctx context.Context, req HTTPRenderRequest) error {
	switch {
	case req.URL == "":
		return errors.New("http render: URL is required")
	case req.Writer == nil:
		return errors.New("http render: Writer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	get, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("http render: %w", err)
	}
	if s := get.URL.Scheme; s != "http" && s != "https" {
		return fmt.Errorf("http render: unsupported scheme %q", s)
	}
	get.Header.Set("Accept", acceptMarkdown)

	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(get)
	if err != nil {
		return fmt.Errorf("http render: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("http render: status %s", resp.Status)
	}
	if req.MaxBytes > 0 && resp.ContentLength > req.MaxBytes {
		return fmt.Errorf("http render: %d bytes: %w", resp.ContentLength, ErrTooLarge)
	}

	var body io.Reader = resp.Body
	if req.MaxBytes > 0 {
		body = &limitedReader{r: resp.Body, left: req.MaxBytes}
	}
	return Render(RenderRequest{Reader: body, Writer: req.Writer, Options: req.Options})
}

// limitedReader fails with ErrTooLarge once more than left bytes arrive.
type limitedReader struct {
	r    io.Reader
	left int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if int64(len(p)) > l.left+1 {
		p = p[:l.left+1]
	}
	n, err := l.r.Read(p)
	if int64(n) > l.left {
		return 0, ErrTooLarge
	}
	l.left -= int64(n)
	return n, err
}

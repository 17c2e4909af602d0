package feed

import (
	"context"
	"io"
)

// WriterClipboard copies text to an io.Writer, one link per line.
type WriterClipboard struct {
	W io.Writer
}

func (c WriterClipboard) WriteText(_ context.Context, text string) error {
	_, err := io.WriteString(c.W, text+"\n")
	return err
}

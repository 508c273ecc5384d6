package colorkey

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Reporter 调用 Process 并把结果打印成一行，错误不向上返回，
// 便于顺序处理多个文件时某个失败不影响后续文件。
type Reporter struct {
	Out io.Writer
}

func NewReporter() *Reporter {
	return &Reporter{Out: os.Stdout}
}

func (r *Reporter) Process(path string, m Mode) {
	_, err := Process(path, m)

	var pe *PathError
	switch {
	case err == nil:
		_, _ = fmt.Fprintf(r.Out, "Successfully processed %s (Mode: %s)\n", path, m)
	case errors.Is(err, ErrNotFound):
		_, _ = fmt.Fprintf(r.Out, "File not found: %s\n", path)
	case errors.As(err, &pe):
		_, _ = fmt.Fprintf(r.Out, "Error processing %s: %v\n", path, pe.Err)
	default:
		_, _ = fmt.Fprintf(r.Out, "Error processing %s: %v\n", path, err)
	}
}

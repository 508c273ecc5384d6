package colorkey

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrDecode      = errors.New("decode image")
	ErrIO          = errors.New("image io")
	ErrUnknownMode = errors.New("unknown mode")
)

// PathError 记录失败的文件及错误类别，
// errors.Is 对 Kind 和底层错误都成立。
type PathError struct {
	Kind error
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%v %s: %v", e.Kind, e.Path, e.Err)
}

func (e *PathError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func pathErr(kind error, path string, err error) error {
	return &PathError{Kind: kind, Path: path, Err: err}
}

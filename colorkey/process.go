package colorkey

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"

	"github.com/chaos-io/spritekey/util"
)

// Result 一次 Process 的结果
type Result struct {
	Path  string
	Mode  Mode
	Stats Stats
	// HadAlpha 原图在擦除前是否已有非不透明像素
	HadAlpha bool
}

// Process 读取 path 处的图片，按 m 擦除背景像素，并以 PNG 覆盖写回 path。
//
// 扩展名不影响输出格式：.jpg 文件处理后保存的也是 PNG 数据。
// 写回是直接覆盖，编码中途失败时文件可能已被截断。
func Process(path string, m Mode) (Result, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, pathErr(ErrNotFound, path, err)
		}
		return Result{}, pathErr(ErrIO, path, err)
	}

	if !m.Valid() {
		return Result{}, pathErr(ErrUnknownMode, path, fmt.Errorf("%w: %v", ErrUnknownMode, m))
	}

	img, err := load(path)
	if err != nil {
		return Result{}, err
	}

	hadAlpha := hasUsefulAlpha(img)
	st := Apply(img, m)

	if err := util.SavePNG(path, img); err != nil {
		return Result{}, pathErr(ErrIO, path, err)
	}

	slog.Debug("keyed image", "path", path, "mode", m.String(),
		"pixels", st.Pixels, "erased", st.Erased, "opaque", st.Opaque.String())

	return Result{Path: path, Mode: m, Stats: st, HadAlpha: hadAlpha}, nil
}

// load 打开失败（*fs.PathError）归为 ErrIO，其余归为 ErrDecode
func load(path string) (*image.NRGBA, error) {
	img, err := util.OpenImage(path)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return nil, pathErr(ErrIO, path, err)
		}
		return nil, pathErr(ErrDecode, path, err)
	}
	return toNRGBA(img), nil
}

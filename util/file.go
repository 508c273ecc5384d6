package util

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage 解码任意已注册格式的图片（png/jpeg/gif/bmp/tiff/webp）
func DecodeImage(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// DecodeConfig 只读取图片头，得到尺寸和格式，不分配像素缓冲
func DecodeConfig(path string) (image.Config, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer func() {
		_ = file.Close()
	}()

	return image.DecodeConfig(file)
}

// OpenImage 打开本地图片
func OpenImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	img, _, err := DecodeImage(file)
	return img, err
}

// EncodePNG 以默认压缩级别编码 PNG
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG 直接覆盖写入 path，不做临时文件替换
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := EncodePNG(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

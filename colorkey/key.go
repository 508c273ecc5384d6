package colorkey

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Stats 一次擦除的统计
type Stats struct {
	Pixels int // 像素总数
	Erased int // 被置为 (0,0,0,0) 的像素数
	// Opaque 擦除后 alpha > 0 的像素包围盒，没有可见像素时为空
	Opaque image.Rectangle
}

// Apply 按行优先顺序原地擦除 img 中匹配 m 的像素。
// 不匹配的像素保持原值（包括 alpha）。
func Apply(img *image.NRGBA, m Mode) Stats {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	st := Stats{Pixels: w * h}

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			if m.Erases(row[i], row[i+1], row[i+2]) {
				row[i], row[i+1], row[i+2], row[i+3] = 0, 0, 0, 0
				st.Erased++
			}
		}
	}

	st.Opaque = opaqueBounds(img)
	return st
}

// Key 对 img 的副本做擦除，img 本身不变
func Key(img image.Image, m Mode) (*image.NRGBA, Stats, error) {
	if !m.Valid() {
		return nil, Stats{}, ErrUnknownMode
	}
	dst := cloneNRGBA(img)
	return dst, Apply(dst, m), nil
}

// opaqueBounds 从 alpha 通道计算可见像素的包围盒
func opaqueBounds(img *image.NRGBA) image.Rectangle {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			if img.Pix[row+x*4+3] == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}

	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1).Add(img.Rect.Min)
}

// hasUsefulAlpha 只要存在非 255 的 alpha，就认为原图已带透明信息
func hasUsefulAlpha(img *image.NRGBA) bool {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 255 {
				return true
			}
		}
	}
	return false
}

// toNRGBA 转为 NRGBA，已经是 NRGBA 时直接返回
func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	return cloneNRGBA(img)
}

func cloneNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(b)

	// NRGBA 之间逐行拷贝，避免经过预乘 alpha 损失精度
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()*4], src.Pix[y*src.Stride:])
		}
		return dst
	}

	draw.Draw(dst, b, img, b.Min, draw.Src)
	keepTransparentRGB(dst, img)
	return dst
}

// keepTransparentRGB 预乘转换会把 alpha 为 0 的像素变成 (0,0,0,0)，
// 对非预乘来源（带 tRNS 的调色板、NRGBA64）把原 RGB 写回。
func keepTransparentRGB(dst *image.NRGBA, src image.Image) {
	switch src.(type) {
	case *image.Paletted, *image.NRGBA64:
	default:
		return
	}

	b := dst.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := dst.PixOffset(x, y)
			if dst.Pix[i+3] != 0 {
				continue
			}
			switch c := src.At(x, y).(type) {
			case color.NRGBA:
				dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = c.R, c.G, c.B
			case color.NRGBA64:
				dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = uint8(c.R>>8), uint8(c.G>>8), uint8(c.B>>8)
			}
		}
	}
}

package rembg

import (
	"context"
	"image"

	"github.com/chaos-io/spritekey/colorkey"
)

type Remover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// ColorKeyRemover 在本地按颜色键擦除背景
type ColorKeyRemover struct {
	Mode colorkey.Mode
}

func NewColorKeyRemover(m colorkey.Mode) *ColorKeyRemover {
	return &ColorKeyRemover{Mode: m}
}

func (c *ColorKeyRemover) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, _, err := colorkey.Key(img, c.Mode)
	if err != nil {
		return nil, err
	}
	return out, nil
}

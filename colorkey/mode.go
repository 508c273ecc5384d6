package colorkey

import (
	"fmt"
	"strings"
)

// Mode 选择要擦除的颜色
type Mode int

const (
	// Black 擦除近黑色和近白色
	Black Mode = iota + 1
	// White 只擦除近白色
	White
)

const (
	blackBelow = 10  // r,g,b 都 < 10 为近黑
	whiteAbove = 230 // r,g,b 都 > 230 为近白
)

// ParseMode 把 "black" / "white" 转为 Mode，大小写与首尾空白不敏感
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black":
		return Black, nil
	case "white":
		return White, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	switch m {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) Valid() bool {
	return m == Black || m == White
}

// Erases 判断该颜色在当前模式下是否需要擦除（严格不等）
func (m Mode) Erases(r, g, b uint8) bool {
	switch m {
	case Black:
		return isNearBlack(r, g, b) || isNearWhite(r, g, b)
	case White:
		return isNearWhite(r, g, b)
	}
	return false
}

func isNearBlack(r, g, b uint8) bool {
	return r < blackBelow && g < blackBelow && b < blackBelow
}

func isNearWhite(r, g, b uint8) bool {
	return r > whiteAbove && g > whiteAbove && b > whiteAbove
}

package main

import (
	"github.com/chaos-io/spritekey/colorkey"
)

func main() {
	// 可替换为实际的素材路径
	skeletonArcher := "assets/skeleton_archer.png"
	arrow := "assets/arrow.png"

	r := colorkey.NewReporter()
	r.Process(skeletonArcher, colorkey.Black)
	r.Process(arrow, colorkey.White)
}

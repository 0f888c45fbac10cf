package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/kestrelgale/Sky-Courier/internal/sim"
)

func main() {
	var seed int64
	flag.Int64Var(&seed, "seed", 0, "world seed (0 = time-based)")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g, err := sim.NewGame(seed)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Sky Courier")
	ebiten.SetWindowSize(948, 948)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

package sim

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// borderWidth is the pixel gap between the window edge and the city.
const borderWidth = 24

// fieldPixels is the square viewport the city is projected into.
const fieldPixels = 900

// collectInterval is how often (in ticks) the reporter samples the world.
const collectInterval = 60

// Game hosts the simulation inside an Ebiten window: it owns the world,
// drives one simulation step per frame (scaled by simSpeed) and renders
// the city top-down. All simulation logic lives in World; Game is only
// the host loop and the projection.
type Game struct {
	world    *World
	reporter *SimReporter
	seed     int64

	width  int
	height int
	offX   int
	offY   int
	scale  float64 // pixels per world unit

	// Offscreen buffer for the full city; camera transform applied on blit.
	worldBuf *ebiten.Image

	// Camera pan + zoom.
	camX    float64 // buffer-space X of the camera centre
	camY    float64 // buffer-space Y of the camera centre
	camZoom float64 // zoom factor (1.0 = whole city visible)

	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds
	showHUD   bool
	prevKeys  map[ebiten.Key]bool

	copiedTick int // tick when the debug report was last copied, for HUD feedback
	face       font.Face
}

// NewGame builds a world from the default config (agent counts rolled
// from the seed) and wraps it in an Ebiten game.
func NewGame(seed int64) (*Game, error) {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation only
	cfg := DefaultConfig(rng)
	world, err := NewWorld(cfg, rng.Int63())
	if err != nil {
		return nil, err
	}

	g := &Game{
		world:      world,
		reporter:   NewSimReporter(reportWindowTicks),
		seed:       seed,
		width:      borderWidth + fieldPixels + borderWidth,
		height:     borderWidth + fieldPixels + borderWidth,
		offX:       borderWidth,
		offY:       borderWidth,
		scale:      fieldPixels / (cfg.BoundaryX() * 2),
		worldBuf:   ebiten.NewImage(fieldPixels, fieldPixels),
		camX:       fieldPixels / 2,
		camY:       fieldPixels / 2,
		camZoom:    1.0,
		simSpeed:   1.0,
		showHUD:    true,
		prevKeys:   make(map[ebiten.Key]bool),
		copiedTick: -1,
		face:       basicfont.Face7x13,
	}
	return g, nil
}

func (g *Game) Update() error {
	g.handleInput()

	if g.simSpeed <= 0 {
		return nil
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.world.Step()
		if g.world.Tick()%collectInterval == 0 {
			g.reporter.Collect(g.world)
		}
	}
	return nil
}

// handleInput processes edge-triggered control keys plus held pan keys.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// P: pause / resume.
	if pressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}

	// ,/.: step through the speed ladder.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if pressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 && speeds[i+1] > g.simSpeed {
				g.simSpeed = speeds[i+1]
				break
			}
		}
	}

	// H: toggle HUD.
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// R: copy the debug report to the clipboard.
	if pressed(ebiten.KeyR) {
		report := g.world.DebugReport(g.seed, g.reporter)
		if err := clipboard.WriteAll(report); err != nil {
			log.Printf("clipboard copy failed: %v", err)
		} else {
			g.copiedTick = g.world.Tick()
		}
	}

	// Camera pan: WASD or arrow keys.
	panSpeed := 6.0 / g.camZoom // pan slower when zoomed in
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camY -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camY += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camX -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camX += panSpeed
	}

	// Camera zoom: mouse wheel or =/- keys.
	const zoomMin, zoomMax = 1.0, 4.0
	_, wy := ebiten.Wheel()
	if wy != 0 {
		g.camZoom *= math.Pow(1.12, wy)
	}
	if pressed(ebiten.KeyEqual) {
		g.camZoom *= 1.25
	}
	if pressed(ebiten.KeyMinus) {
		g.camZoom /= 1.25
	}
	if g.camZoom < zoomMin {
		g.camZoom = zoomMin
	}
	if g.camZoom > zoomMax {
		g.camZoom = zoomMax
	}

	// Clamp the camera centre so the viewport never leaves the city.
	halfV := fieldPixels / 2 / g.camZoom
	if g.camX < halfV {
		g.camX = halfV
	}
	if g.camX > fieldPixels-halfV {
		g.camX = fieldPixels - halfV
	}
	if g.camY < halfV {
		g.camY = halfV
	}
	if g.camY > fieldPixels-halfV {
		g.camY = fieldPixels - halfV
	}

	g.prevKeys = currentKeys
}

// worldToBuf projects a world-space point into the offscreen buffer.
// World +Y is north; buffer Y grows downward.
func (g *Game) worldToBuf(wx, wy float64) (float32, float32) {
	bx := (wx + g.world.Cfg.BoundaryX()) * g.scale
	by := (g.world.Cfg.BoundaryY() - wy) * g.scale
	return float32(bx), float32(by)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 14, G: 14, B: 18, A: 255})

	// Render the city to the buffer, then blit with the camera transform.
	g.worldBuf.Fill(color.RGBA{R: 24, G: 26, B: 30, A: 255})
	g.drawCity(g.worldBuf)
	g.drawHospitals(g.worldBuf)
	g.drawDrones(g.worldBuf)
	g.drawClouds(g.worldBuf) // clouds last: they float above everything

	var blit ebiten.DrawImageOptions
	blit.GeoM.Translate(-g.camX, -g.camY)
	blit.GeoM.Scale(g.camZoom, g.camZoom)
	blit.GeoM.Translate(fieldPixels/2, fieldPixels/2)
	blit.GeoM.Translate(float64(g.offX), float64(g.offY))
	screen.DrawImage(g.worldBuf, &blit)

	// City boundary frame, drawn at screen coords, not transformed.
	ox, oy := float32(g.offX), float32(g.offY)
	fp := float32(fieldPixels)
	borderCol := color.RGBA{R: 70, G: 75, B: 95, A: 255}
	vector.StrokeRect(screen, ox-1, oy-1, fp+2, fp+2, 2.0, borderCol, false)

	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawCity(buf *ebiten.Image) {
	cfg := &g.world.Cfg
	for i := range g.world.Buildings {
		b := &g.world.Buildings[i]
		// Taller buildings render lighter, reading as closer to the camera.
		t := (b.Height - cfg.MinFloors) / (cfg.MaxFloors - cfg.MinFloors)
		shade := uint8(45 + t*70)
		fill := color.RGBA{R: shade, G: shade, B: shade + 8, A: 255}

		bx, by := g.worldToBuf(b.X-b.Width/2, b.Y+b.Depth/2)
		w := float32(b.Width * g.scale)
		h := float32(b.Depth * g.scale)
		vector.FillRect(buf, bx, by, w, h, fill, false)
		// Roof edge highlight.
		vector.StrokeLine(buf, bx, by, bx+w, by, 1.0,
			color.RGBA{R: shade + 20, G: shade + 20, B: shade + 28, A: 180}, false)
	}
}

func (g *Game) drawHospitals(buf *ebiten.Image) {
	cfg := &g.world.Cfg
	r := float32(cfg.HospitalRadius * g.scale)
	for i := range g.world.Hospitals {
		h := &g.world.Hospitals[i]
		bx, by := g.worldToBuf(h.Pos.X, h.Pos.Y)

		// Protected zone ring: the margin clouds bounce away from.
		zr := float32((cfg.HospitalRadius + cfg.CloudRadius) * g.scale)
		vector.StrokeCircle(buf, bx, by, zr, 1.0, color.RGBA{R: 140, G: 40, B: 40, A: 70}, true)

		vector.FillCircle(buf, bx, by, r, color.RGBA{R: 190, G: 30, B: 30, A: 255}, true)
		// White cross marking the pad.
		cw := r * 0.55
		vector.StrokeLine(buf, bx-cw, by, bx+cw, by, 2.0, color.RGBA{R: 255, G: 255, B: 255, A: 230}, true)
		vector.StrokeLine(buf, bx, by-cw, bx, by+cw, 2.0, color.RGBA{R: 255, G: 255, B: 255, A: 230}, true)
	}
}

func (g *Game) drawDrones(buf *ebiten.Image) {
	cfg := &g.world.Cfg
	bodyR := float32(cfg.DroneSize / 3 * g.scale)
	propDist := cfg.DroneSize * 0.5 * g.scale
	propR := float32(cfg.DroneSize / 10 * g.scale)
	if propR < 1 {
		propR = 1
	}
	spin := float64(g.world.Tick()) * 0.4

	for i := range g.world.Drones {
		d := &g.world.Drones[i]
		bx, by := g.worldToBuf(d.Pos.X, d.Pos.Y)
		tx, ty := g.worldToBuf(d.Target.X, d.Target.Y)

		// Faint line to the current delivery target.
		vector.StrokeLine(buf, bx, by, tx, ty, 1.0, color.RGBA{R: 90, G: 200, B: 140, A: 50}, false)

		vector.FillCircle(buf, bx, by, bodyR, color.RGBA{R: 30, G: 30, B: 34, A: 255}, true)
		vector.StrokeCircle(buf, bx, by, bodyR, 1.0, color.RGBA{R: 120, G: 220, B: 160, A: 200}, true)
		for p := 0; p < 4; p++ {
			a := spin + math.Pi/2*float64(p)
			px := bx + float32(math.Cos(a)*propDist)
			py := by + float32(math.Sin(a)*propDist)
			vector.FillCircle(buf, px, py, propR, color.RGBA{R: 160, G: 160, B: 170, A: 220}, true)
		}
	}
}

func (g *Game) drawClouds(buf *ebiten.Image) {
	r := float32(g.world.Cfg.CloudRadius * g.scale)
	for i := range g.world.Clouds {
		c := &g.world.Clouds[i]
		bx, by := g.worldToBuf(c.Pos.X, c.Pos.Y)
		vector.FillCircle(buf, bx, by, r, color.RGBA{R: 200, G: 200, B: 205, A: 90}, true)
		vector.StrokeCircle(buf, bx, by, r, 1.0, color.RGBA{R: 230, G: 230, B: 235, A: 60}, true)
	}
}

// drawHUD renders the title and keyboard hints in the corners.
func (g *Game) drawHUD(screen *ebiten.Image) {
	title := fmt.Sprintf("SKY COURIER  tick %d", g.world.Tick())
	text.Draw(screen, title, g.face, g.offX+4, g.offY-8, color.RGBA{R: 200, G: 210, B: 220, A: 255})

	speedStr := fmt.Sprintf("%gx", g.simSpeed)
	if g.simSpeed == 0 {
		speedStr = "PAUSED"
	}
	lines := []string{
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speedStr),
		fmt.Sprintf("drones=%d clouds=%d hospitals=%d", len(g.world.Drones), len(g.world.Clouds), len(g.world.Hospitals)),
		fmt.Sprintf("deliveries=%d bounces=%d", g.world.Arrivals(), g.world.Bounces()),
		"WASD/arrows pan  wheel or =/- zoom",
		"[R] copy report  [H] toggle HUD",
	}
	if g.camZoom != 1.0 {
		lines = append(lines, fmt.Sprintf("zoom %.2fx", g.camZoom))
	}
	if g.copiedTick >= 0 && g.world.Tick()-g.copiedTick < 180 {
		lines = append(lines, "report copied to clipboard")
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, g.offX+4, g.offY+fieldPixels-len(lines)*14+i*14-6)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

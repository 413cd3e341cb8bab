//go:build !headless

// video_backend_ebiten.go - ebiten video backend for the cabinet display

/*
EbitenOutput blits the renderer's RGBA frame into a window and forwards
cabinet button presses to whatever handler the runner installed via
SetKeyHandler. It owns no CPU/machine state of its own.
*/

package main

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// cabinetKeyMap maps PC keyboard keys onto the cabinet's button bits.
var cabinetKeyMap = map[ebiten.Key]uint{
	ebiten.KeyC:          KeyCoin,
	ebiten.Key1:          KeyStartP1,
	ebiten.Key2:          KeyStartP2,
	ebiten.KeySpace:      KeyShoot1,
	ebiten.KeyArrowLeft:  KeyLeftP1,
	ebiten.KeyArrowRight: KeyRightP1,
	ebiten.KeyA:          KeyLeftP2,
	ebiten.KeyD:          KeyRightP2,
	ebiten.KeyW:          KeyShoot2,
}

type EbitenOutput struct {
	running     bool
	window      *ebiten.Image
	width       int
	height      int
	format      PixelFormat
	fullscreen  bool
	scale       int
	windowedW   int
	windowedH   int
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  uint64
	refreshRate int
	vsyncChan   chan struct{}
	keyHandler  func(key uint, down bool)
}

// NewVideoOutput returns the ebiten-backed VideoOutput, sized for the
// cabinet's native 224x256 display.
func NewVideoOutput() (VideoOutput, error) {
	return &EbitenOutput{
		width:       ScreenWidth,
		height:      ScreenHeight,
		format:      PixelFormatRGBA,
		scale:       2,
		windowedW:   ScreenWidth * 2,
		windowedH:   ScreenHeight * 2,
		frameBuffer: make([]byte, ScreenWidth*ScreenHeight*4),
		refreshRate: 60,
		vsyncChan:   make(chan struct{}, 1),
	}, nil
}

func (eo *EbitenOutput) Start() error {
	if eo.running {
		return nil
	}
	eo.running = true
	ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	ebiten.SetWindowTitle("Space Invaders")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if eo.fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		if err := ebiten.RunGame(eo); err != nil {
			fmt.Printf("ebiten error: %v\n", err)
		}
	}()

	<-eo.vsyncChan
	return nil
}

func (eo *EbitenOutput) Stop() error {
	eo.running = false
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

func (eo *EbitenOutput) UpdateFrame(data []byte) error {
	eo.bufferMutex.Lock()
	copy(eo.frameBuffer, data)
	eo.bufferMutex.Unlock()
	return nil
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()

	eo.scale = ClampScale(config.Scale)
	eo.fullscreen = config.Fullscreen
	eo.windowedW = eo.width * eo.scale
	eo.windowedH = eo.height * eo.scale
	ebiten.SetFullscreen(eo.fullscreen)
	if !eo.fullscreen {
		ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	}
	return nil
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Width:       eo.width,
		Height:      eo.height,
		Scale:       eo.scale,
		PixelFormat: eo.format,
		RefreshRate: eo.refreshRate,
		Fullscreen:  eo.fullscreen,
	}
}

func (eo *EbitenOutput) WaitForVSync() error {
	<-eo.vsyncChan
	return nil
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	return eo.frameCount
}

func (eo *EbitenOutput) GetRefreshRate() int {
	return eo.refreshRate
}

func (eo *EbitenOutput) IsStarted() bool {
	return eo.running
}

func (eo *EbitenOutput) SetKeyHandler(fn func(key uint, down bool)) {
	eo.bufferMutex.Lock()
	eo.keyHandler = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) handleCabinetInput() {
	eo.bufferMutex.RLock()
	handler := eo.keyHandler
	eo.bufferMutex.RUnlock()
	if handler == nil {
		return
	}
	for key, bit := range cabinetKeyMap {
		if inpututil.IsKeyJustPressed(key) {
			handler(bit, true)
		}
		if inpututil.IsKeyJustReleased(key) {
			handler(bit, false)
		}
	}
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() || !eo.running {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.bufferMutex.Lock()
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
		}
		eo.bufferMutex.Unlock()
	}
	eo.handleCabinetInput()
	return nil
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	if eo.window == nil {
		eo.window = ebiten.NewImage(eo.width, eo.height)
	}

	eo.bufferMutex.RLock()
	eo.window.WritePixels(eo.frameBuffer)
	eo.bufferMutex.RUnlock()
	screen.DrawImage(eo.window, nil)

	eo.frameCount++
	select {
	case eo.vsyncChan <- struct{}{}:
	default:
	}
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return eo.width, eo.height
}

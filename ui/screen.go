package ui

import (
	"fmt"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/peers"
	"github.com/automoto/doomerang-arena/session"
	"github.com/gdamore/tcell/v2"
)

// Screen draws the radar and HUD onto a tcell screen.
type Screen struct {
	screen tcell.Screen
	maxX   float64
	feed   feed
}

// NewScreen initialises the terminal.
func NewScreen(maxX float64) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return NewScreenWith(s, maxX), nil
}

// NewScreenWith wraps an already initialised screen.
func NewScreenWith(s tcell.Screen, maxX float64) *Screen {
	s.SetStyle(tcell.StyleDefault)
	s.HideCursor()
	return &Screen{screen: s, maxX: maxX}
}

// Events forwards terminal events until done is closed.
func (u *Screen) Events(done <-chan struct{}) <-chan tcell.Event {
	ch := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case ch <- ev:
			case <-done:
				return
			}
		}
	}()
	return ch
}

func (u *Screen) Sync() { u.screen.Sync() }
func (u *Screen) Fini() { u.screen.Fini() }

// Cue plays a sound cue. The terminal only has a bell, so only deaths ring it.
func (u *Screen) Cue(id cfg.SoundID) {
	if id == cfg.SoundDeath {
		_ = u.screen.Beep()
	}
}

// Draw renders one frame.
func (u *Screen) Draw(v session.View) {
	s := u.screen
	s.Clear()
	w, h := s.Size()

	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	gray := tcell.StyleDefault.Foreground(tcell.ColorGray)
	yellow := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	health := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	if !v.Alive {
		health = tcell.StyleDefault.Foreground(tcell.ColorRed)
	}

	u.put(0, 0, w, HUDLine(v), white)
	u.put(0, 1, w, HealthLine(v), health)
	u.put(0, 2, w, IdentityLine(v), gray)

	rows := h - 4 - feedSize
	cols := w
	if rows > 2 && cols > 4 {
		side := min(rows, cols/2)
		u.drawRadar(0, 3, side, v)
	}

	top := h - 1 - len(u.feed.lines)
	for i, line := range u.feed.lines {
		u.put(0, top+i, w, line, gray)
	}
	u.put(0, h-1, w, v.Status, yellow)
	s.Show()
}

// drawRadar draws a top-down map of the arena. Each radar row is two columns
// wide so the square arena looks square in a terminal.
func (u *Screen) drawRadar(left, top, side int, v session.View) {
	s := u.screen
	border := tcell.StyleDefault.Foreground(tcell.ColorGray)
	width := side * 2

	for x := 0; x < width; x++ {
		s.SetContent(left+x, top, '-', nil, border)
		s.SetContent(left+x, top+side-1, '-', nil, border)
	}
	for y := 1; y < side-1; y++ {
		s.SetContent(left, top+y, '|', nil, border)
		s.SetContent(left+width-1, top+y, '|', nil, border)
	}

	for _, p := range v.Peers {
		col, row := u.radarCell(p.X, p.Z, side)
		style := tcell.StyleDefault.Foreground(tcell.NewHexColor(int32(peers.Tint(p.Color, p.HP, cfg.Player.MaxHP))))
		r := 'o'
		if p.Dying() {
			r = 'x'
			style = style.Dim(true)
		}
		s.SetContent(left+col, top+row, r, nil, style)
	}

	col, row := u.radarCell(v.Self.X, v.Self.Z, side)
	self := tcell.StyleDefault.Foreground(tcell.NewHexColor(int32(peers.ParseColor(v.Color)))).Bold(true)
	s.SetContent(left+col, top+row, Heading(v.Self.Yaw), nil, self)
}

// radarCell maps arena x/z to a cell inside the radar border. -Z is up.
func (u *Screen) radarCell(x, z float64, side int) (col, row int) {
	inner := side - 2
	fx := (x + u.maxX) / (2 * u.maxX)
	fz := (z + u.maxX) / (2 * u.maxX)
	col = 1 + int(fx*float64(inner*2-1)+0.5)
	row = 1 + int(fz*float64(inner-1)+0.5)
	col = max(1, min(side*2-2, col))
	row = max(1, min(side-2, row))
	return col, row
}

func (u *Screen) put(x, y, w int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= w {
			return
		}
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

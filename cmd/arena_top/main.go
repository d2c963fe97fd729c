package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/core"
	"github.com/decker502/waveshooter/pkg/utils"
)

const (
	frameDt = 1.0 / 60
	// hudLines 顶部状态栏占用的行数
	hudLines = 3
	// moveFrames 一次方向键持续移动的帧数（终端没有按键抬起事件）
	moveFrames = 8
)

var (
	configPath = flag.String("config", "", "竞技场配置文件（为空时使用内置默认值）")
	seed       = flag.Int64("seed", 1, "随机种子")
	viewRange  = flag.Float64("range", 40, "以玩家为中心显示的半径（世界单位）")
)

// glyphs 各原型在终端中的字符
var glyphs = map[components.Archetype]rune{
	components.ArchetypeMinion:     'o',
	components.ArchetypeBossMinion: 'O',
	components.ArchetypeCluster:    '#',
	components.ArchetypeRoster:     '%',
	components.ArchetypeTriangle:   'A',
	components.ArchetypeCone:       'V',
	components.ArchetypePipe:       'H',
	components.ArchetypeDrone:      '*',
}

// Monitor 终端竞技场监视器
type Monitor struct {
	screen tcell.Screen
	sim    *core.Simulation
	width  int
	height int

	move       utils.Vec3
	moveFrames int
	status     string
}

// NewMonitor 初始化终端与模拟
func NewMonitor(sim *core.Simulation) (*Monitor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}

	m := &Monitor{screen: screen, sim: sim}
	m.width, m.height = screen.Size()
	return m, nil
}

func (m *Monitor) run() {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- m.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !m.handleInput(ev) {
				return
			}
		case <-ticker.C:
			if m.moveFrames > 0 {
				m.sim.MovePlayer(m.move, frameDt)
				m.moveFrames--
			}
			m.sim.Tick(frameDt)
			m.draw()
		}
	}
}

func (m *Monitor) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			m.steer(utils.Vec3{Z: -1})
		case tcell.KeyDown:
			m.steer(utils.Vec3{Z: 1})
		case tcell.KeyLeft:
			m.steer(utils.Vec3{X: -1})
		case tcell.KeyRight:
			m.steer(utils.Vec3{X: 1})
		case tcell.KeyRune:
			return m.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		m.width, m.height = m.screen.Size()
		m.screen.Sync()
	}
	return true
}

func (m *Monitor) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'p':
		m.sim.TogglePause()
	case 'r':
		m.sim.Reset()
		m.status = "reset"
	case 'h':
		m.sim.ActivateHighPower()
		m.status = "high power"
	case 'f':
		af := m.sim.AutoFire()
		af.Enabled = !af.Enabled
		m.status = fmt.Sprintf("autofire %v", af.Enabled)
	case 'w':
		m.steer(utils.Vec3{Z: -1})
	case 's':
		m.steer(utils.Vec3{Z: 1})
	case 'a':
		m.steer(utils.Vec3{X: -1})
	case 'd':
		m.steer(utils.Vec3{X: 1})
	}
	return true
}

func (m *Monitor) steer(dir utils.Vec3) {
	m.move = dir
	m.moveFrames = moveFrames
	m.sim.Player().Facing = dir
}

// toCell 世界坐标映射到终端格子，竖直方向按字符宽高比压缩一半
func (m *Monitor) toCell(p, center utils.Vec3) (int, int, bool) {
	rows := m.height - hudLines
	if m.width <= 0 || rows <= 0 {
		return 0, 0, false
	}
	scaleX := float64(m.width) / (2 * *viewRange)
	scaleY := scaleX / 2
	x := m.width/2 + int((p.X-center.X)*scaleX)
	y := hudLines + rows/2 + int((p.Z-center.Z)*scaleY)
	if x < 0 || x >= m.width || y < hudLines || y >= m.height {
		return 0, 0, false
	}
	return x, y, true
}

func (m *Monitor) put(p, center utils.Vec3, r rune, style tcell.Style) {
	if x, y, ok := m.toCell(p, center); ok {
		m.screen.SetContent(x, y, r, nil, style)
	}
}

func (m *Monitor) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		if x+i >= m.width {
			return
		}
		m.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (m *Monitor) draw() {
	m.screen.Clear()
	snap := m.sim.Snapshot()
	center := snap.Player.Position

	for _, h := range snap.Hazards {
		m.put(h.Position, center, '~', tcell.StyleDefault.Foreground(tcell.ColorGreen))
	}
	for _, p := range snap.Portals {
		m.put(p.Position, center, '@', tcell.StyleDefault.Foreground(tcell.ColorPurple))
	}
	if snap.Milestone != nil {
		m.put(*snap.Milestone, center, '+', tcell.StyleDefault.Foreground(tcell.ColorGold))
	}
	for _, e := range snap.Enemies {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		if e.Boss {
			style = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
		}
		glyph, ok := glyphs[e.Archetype]
		if !ok {
			glyph = '?'
		}
		m.put(e.Position, center, glyph, style)
	}
	for _, p := range snap.Projectiles {
		m.put(p.Position, center, '.', tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	m.put(center, center, '■', tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(snap.Player.Invulnerable))

	hud := tcell.StyleDefault.Foreground(tcell.ColorLightSkyBlue)
	m.text(0, 0, fmt.Sprintf("level %d  score %d  kills %d  lives %d  hp %.0f  armor %.0f",
		snap.Level, snap.Score, snap.Kills, snap.Player.Lives, snap.Player.Health, snap.Player.Armor), hud)
	m.text(0, 1, fmt.Sprintf("active %d  bosses %d  drones %d  bullets %d  hazards %d  spawns %d/%d dropped %d",
		snap.Counts.Active, snap.Counts.Bosses, snap.Counts.Drones, len(snap.Projectiles), len(snap.Hazards),
		snap.Waves.Fired, snap.Waves.Planned, snap.Waves.Dropped), hud)
	state := m.status
	switch {
	case snap.Over:
		state = "GAME OVER (r to restart)"
	case snap.Paused:
		state = "PAUSED"
	}
	m.text(0, 2, fmt.Sprintf("[wasd/arrows] move [p] pause [h] high power [f] autofire [r] reset [q] quit  %s", state),
		tcell.StyleDefault.Foreground(tcell.ColorGray))

	m.screen.Show()
}

func (m *Monitor) cleanup() {
	m.screen.Fini()
}

func main() {
	flag.Parse()
	log.SetOutput(io.Discard)

	arena, err := core.LoadArena(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "arena_top: %v\n", err)
		os.Exit(1)
	}
	sim, err := core.NewSimulation(core.SimConfig{Arena: arena, Seed: *seed, AutoFire: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "arena_top: %v\n", err)
		os.Exit(1)
	}

	monitor, err := NewMonitor(sim)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer monitor.cleanup()

	monitor.run()
}

// Package app 提供竞技场的桌面调试画面
//
// App 把 core.Simulation 包装成 ebiten.Game，由根目录 main.go 调用 NewApp()。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/core"
	"github.com/decker502/waveshooter/pkg/game"
	"github.com/decker502/waveshooter/pkg/utils"
)

const (
	// WindowWidth 逻辑屏幕宽度
	WindowWidth = 960
	// WindowHeight 逻辑屏幕高度
	WindowHeight = 720
	// viewRange 画面中心到边缘对应的竞技场距离
	viewRange = 30.0
	// stunRoundsMs 按键开启眩晕弹的持续时间
	stunRoundsMs = 5000
	// shieldMs 按键开启护盾的持续时间
	shieldMs = 3000
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 竞技场配置文件，为空时使用内置默认值
	ConfigPath string
	// Seed 随机种子
	Seed int64
	// AutoFire 启动时开启自动射击
	AutoFire bool
	// Performance 启用性能模式的上限
	Performance bool
	// Checkpoints 检查点存储，可为 nil
	Checkpoints *game.CheckpointStore
	// Resume 从检查点继续
	Resume bool
}

// App 是竞技场调试画面，实现 ebiten.Game 接口
type App struct {
	sim     *core.Simulation
	verbose bool

	narrative      string
	narrativeColor color.RGBA
	narrativeTTL   int // 剩余显示帧数

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 使用配置文件时，调用此函数前应先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	arena, err := core.LoadArena(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Performance {
		arena.Performance.Enabled = true
	}

	sim, err := core.NewSimulation(core.SimConfig{
		Arena:       arena,
		Seed:        cfg.Seed,
		Checkpoints: cfg.Checkpoints,
		AutoFire:    cfg.AutoFire,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}
	if cfg.Resume {
		if restored, err := sim.Restore(); err != nil {
			log.Printf("[App] %v", err)
		} else if restored {
			log.Printf("[App] Resuming from checkpoint")
		}
	}

	a := &App{sim: sim, verbose: cfg.Verbose}
	sim.Events().SubscribeFunc(game.EventNarrative, func(e game.Event) {
		if n, ok := e.Data.(game.Narrative); ok {
			a.narrative = n.Text
			a.narrativeColor = n.Color
			a.narrativeTTL = 120
		}
	})
	return a, nil
}

// Simulation 返回模拟核心
func (a *App) Simulation() *core.Simulation {
	return a.sim
}

// Update 处理输入并推进模拟
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.handleInput()

	deltaTime := 1.0 / 60.0
	a.sim.Tick(deltaTime)
	if a.narrativeTTL > 0 {
		a.narrativeTTL--
	}
	return nil
}

// handleInput 键盘与鼠标
func (a *App) handleInput() {
	sim := a.sim
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		sim.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		sim.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		sim.ActivateHighPower()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		sim.ActivateStunRounds(stunRoundsMs)
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		sim.ActivateShield(shieldMs)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		af := sim.AutoFire()
		af.Enabled = !af.Enabled
	}

	var dir utils.Vec3
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dir.Z--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dir.Z++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dir.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dir.X++
	}
	sim.MovePlayer(dir, 1.0/60.0)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		target := a.toWorld(float64(mx), float64(my))
		sim.FireAt(target.Sub(sim.Player().Position))
	}
}

// scale 每个竞技场单位对应的像素
func (a *App) scale() float64 {
	return float64(WindowHeight) / 2 / viewRange
}

// toScreen 以玩家为中心把竞技场坐标映射到屏幕
func (a *App) toScreen(p utils.Vec3) (float32, float32) {
	center := a.sim.Player().Position
	s := a.scale()
	x := float64(WindowWidth)/2 + (p.X-center.X)*s
	y := float64(WindowHeight)/2 + (p.Z-center.Z)*s
	return float32(x), float32(y)
}

func (a *App) toWorld(x, y float64) utils.Vec3 {
	center := a.sim.Player().Position
	s := a.scale()
	return utils.Vec3{
		X: center.X + (x-float64(WindowWidth)/2)/s,
		Z: center.Z + (y-float64(WindowHeight)/2)/s,
	}
}

// enemyColors 按原型区分颜色
var enemyColors = map[components.Archetype]color.RGBA{
	components.ArchetypeMinion:     colornames.Lightgreen,
	components.ArchetypeBossMinion: colornames.Olivedrab,
	components.ArchetypeCluster:    colornames.Darkgreen,
	components.ArchetypeTriangle:   colornames.Crimson,
	components.ArchetypeCone:       colornames.Darkorange,
	components.ArchetypePipe:       colornames.Slategray,
	components.ArchetypeDrone:      colornames.Violet,
	components.ArchetypeRoster:     colornames.Teal,
}

var hazardColors = map[components.HazardKind]color.RGBA{
	components.HazardSlow:       {R: 80, G: 120, B: 255, A: 70},
	components.HazardToxin:      {R: 80, G: 255, B: 80, A: 70},
	components.HazardCorrosive:  {R: 255, G: 180, B: 40, A: 70},
	components.HazardFog:        {R: 200, G: 200, B: 200, A: 90},
	components.HazardCarcinogen: {R: 200, G: 40, B: 200, A: 70},
}

// Draw 绘制竞技场俯视图
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	snap := a.sim.Snapshot()
	s := float32(a.scale())

	// 竞技场边界
	b := a.sim.Config().Arena.Boundary
	x0, y0 := a.toScreen(utils.Vec3{X: -b, Z: -b})
	x1, y1 := a.toScreen(utils.Vec3{X: b, Z: b})
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, colornames.Dimgray, false)

	for _, z := range snap.Hazards {
		x, y := a.toScreen(z.Position)
		c := hazardColors[z.Kind]
		if z.Shape == "rect" {
			vector.DrawFilledRect(screen, x-float32(z.HalfW)*s, y-float32(z.HalfD)*s, float32(z.HalfW*2)*s, float32(z.HalfD*2)*s, c, false)
			continue
		}
		vector.DrawFilledCircle(screen, x, y, float32(z.Radius)*s, c, true)
	}

	for _, p := range snap.Portals {
		x, y := a.toScreen(p.Position)
		c := colornames.Mediumpurple
		if p.Behind {
			c = colornames.Orchid
		}
		// 出现时展开，临近关闭时收缩
		open := utils.EaseOutCubic(utils.Clamp(p.Progress*4, 0, 1)) * (1 - utils.SmoothStep((p.Progress-0.8)/0.2))
		vector.StrokeCircle(screen, x, y, float32(p.Radius*open)*s, 2, c, true)
	}

	if m := snap.Milestone; m != nil {
		x, y := a.toScreen(*m)
		vector.DrawFilledCircle(screen, x, y, 0.8*s, colornames.Gold, true)
	}

	for _, e := range snap.Enemies {
		x, y := a.toScreen(e.Position)
		c, ok := enemyColors[e.Archetype]
		if !ok {
			c = colornames.White
		}
		if e.State == "stunned" {
			c = colornames.Lightblue
		}
		for _, t := range e.Trail {
			tx, ty := a.toScreen(t)
			vector.DrawFilledCircle(screen, tx, ty, 0.15*s, colornames.Plum, false)
		}
		vector.DrawFilledCircle(screen, x, y, float32(e.Radius)*s, c, true)
	}

	for _, p := range snap.Projectiles {
		x, y := a.toScreen(p.Position)
		c := colornames.Yellow
		switch p.Style {
		case components.StyleHighPower.Name:
			c = colornames.Orangered
		case components.StyleStun.Name:
			c = colornames.Cyan
		}
		vector.DrawFilledCircle(screen, x, y, 0.2*s, c, false)
	}

	px, py := a.toScreen(snap.Player.Position)
	pc := colornames.White
	if snap.Player.Invulnerable {
		pc = colornames.Lightyellow
	}
	vector.DrawFilledCircle(screen, px, py, 0.7*s, pc, true)

	hud := fmt.Sprintf("Level %d  Score %d  Kills %d\nHP %.0f  Armor %.0f  Lives %d\nEnemies %d  Bosses %d  Drones %d  Bullets %d/%d",
		snap.Level, snap.Score, snap.Kills,
		snap.Player.Health, snap.Player.Armor, snap.Player.Lives,
		snap.Counts.Active, snap.Counts.Bosses, snap.Counts.Drones,
		len(snap.Projectiles), a.sim.Pool().Capacity())
	switch {
	case snap.Over:
		hud += "\nGAME OVER (R to restart)"
	case snap.Paused:
		hud += "\nPAUSED"
	}
	ebitenutil.DebugPrint(screen, hud)

	if a.narrativeTTL > 0 {
		ebitenutil.DebugPrintAt(screen, a.narrative, WindowWidth/2-len(a.narrative)*3, 80)
		vector.DrawFilledRect(screen, float32(WindowWidth/2-len(a.narrative)*3), 96, float32(len(a.narrative)*6), 2, a.narrativeColor, false)
	}
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

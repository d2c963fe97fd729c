package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/waveshooter/pkg/app"
	"github.com/decker502/waveshooter/pkg/embedded"
	"github.com/decker502/waveshooter/pkg/game"
)

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	configPath  = flag.String("config", "data/arena.yaml", "竞技场配置文件")
	seed        = flag.Int64("seed", 1, "随机种子")
	autoFire    = flag.Bool("autofire", true, "启动时开启自动射击")
	performance = flag.Bool("performance", false, "性能模式（更低的并发上限）")
	resume      = flag.Bool("resume", false, "从上次的检查点继续")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	// 打开失败时退化为内存存储
	checkpoints, err := game.OpenCheckpointStore("waveshooter")
	if err != nil {
		log.Printf("[Checkpoint] store unavailable: %v", err)
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		ConfigPath:  *configPath,
		Seed:        *seed,
		AutoFire:    *autoFire,
		Performance: *performance,
		Checkpoints: checkpoints,
		Resume:      *resume,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("failed to initialize: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Wave Shooter - 竞技场调试")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/decker502/waveshooter/pkg/core"
	"github.com/decker502/waveshooter/pkg/game"
	"github.com/decker502/waveshooter/pkg/spectate"
	"github.com/decker502/waveshooter/pkg/utils"
)

// frameDt 固定帧长（秒）
const frameDt = 1.0 / 60

var (
	configPath = flag.String("config", "", "竞技场配置文件（为空时使用内置默认值）")
	levels     = flag.Int("levels", 10, "运行到该等级后停止")
	seed       = flag.Int64("seed", 1, "随机种子")
	maxTicks   = flag.Int("ticks", 60*60*10, "最多运行的帧数")
	spectateAt = flag.String("spectate", "", "旁观者 websocket 监听地址，例如 :8080（开启后按实时速度运行）")
	every      = flag.Int("every", 3, "每隔多少帧广播一次快照")
	save       = flag.Bool("save", false, "保存检查点到用户数据目录")
	resume     = flag.Bool("resume", false, "从检查点继续（需要 -save）")
	outPath    = flag.String("out", "", "结束时把最终快照写入该 JSON 文件")
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "arena_sim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	arena, err := core.LoadArena(*configPath)
	if err != nil {
		return err
	}

	var checkpoints *game.CheckpointStore
	if *save {
		checkpoints, err = game.OpenCheckpointStore("waveshooter")
		if err != nil {
			log.Printf("[ArenaSim] %v", err)
		}
	}

	sim, err := core.NewSimulation(core.SimConfig{Arena: arena, Seed: *seed, Checkpoints: checkpoints, AutoFire: true})
	if err != nil {
		return err
	}
	if *resume {
		if _, err := sim.Restore(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var hub *spectate.Hub
	if *spectateAt != "" {
		hub = spectate.NewHub(spectate.HubConfig{})
		srv := &http.Server{Addr: *spectateAt, Handler: hub}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "arena_sim: spectate server: %v\n", err)
				stop()
			}
		}()
		defer func() {
			hub.Close()
			srv.Close()
		}()
		fmt.Printf("spectators: ws://%s/\n", *spectateAt)
	}

	pilot := &autopilot{}
	var ticker *time.Ticker
	if hub != nil {
		dt := frameDt
		ticker = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
	}

	ticks := 0
	for ; ticks < *maxTicks; ticks++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return finish(sim, ticks)
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			break
		}

		pilot.steer(sim)
		sim.Tick(frameDt)

		if hub != nil && ticks%*every == 0 {
			if _, err := hub.Broadcast(sim.Snapshot()); err != nil {
				log.Printf("[ArenaSim] %v", err)
			}
		}
		if sim.Over() || sim.Director().Level() > *levels {
			break
		}
	}
	return finish(sim, ticks)
}

// finish 打印统计并按需写出最终快照
func finish(sim *core.Simulation, ticks int) error {
	snap := sim.Snapshot()
	waves := snap.Waves
	fmt.Printf("ticks=%d level=%d score=%d kills=%d lives=%d over=%v\n",
		ticks, snap.Level, snap.Score, snap.Kills, snap.Player.Lives, snap.Over)
	fmt.Printf("spawns planned=%d fired=%d dropped=%d failed=%d\n",
		waves.Planned, waves.Fired, waves.Dropped, waves.Failed)
	fmt.Printf("combat hits=%d kills=%d stuns=%d nullified=%d\n",
		snap.Combat.Hits, snap.Combat.Kills, snap.Combat.Stuns, snap.Combat.Nullified)

	if *outPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// autopilot 简单的自动驾驶：绕场地中心转圈，最近的敌人靠得太近时背离它移动
type autopilot struct {
	angle float64
}

const (
	pilotOrbitRadius = 20.0
	pilotOrbitSpeed  = 0.4 // 弧度/秒
	pilotPanicRadius = 6.0
)

func (a *autopilot) steer(sim *core.Simulation) {
	pos := sim.Player().Position
	if e, _, ok := sim.Registry().Nearest(pos, pilotPanicRadius); ok {
		sim.MovePlayer(pos.Sub(e.Position()), frameDt)
		return
	}

	a.angle += pilotOrbitSpeed * frameDt
	target := utils.Vec3{X: math.Cos(a.angle) * pilotOrbitRadius, Z: math.Sin(a.angle) * pilotOrbitRadius}
	if d := target.Sub(pos); d.LenSq() > 0.01 {
		sim.MovePlayer(d, frameDt)
		if f, ok := d.Horizontal().Normalize(); ok {
			sim.Player().Facing = f
		}
	}
}

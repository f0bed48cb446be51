package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labsim/runtime/internal/asset"
	"github.com/labsim/runtime/internal/component"
	"github.com/labsim/runtime/internal/config"
	"github.com/labsim/runtime/internal/core/ecs"
	"github.com/labsim/runtime/internal/core/event"
	coresys "github.com/labsim/runtime/internal/core/system"
	"github.com/labsim/runtime/internal/data"
	"github.com/labsim/runtime/internal/feature"
	"github.com/labsim/runtime/internal/prefab"
	"github.com/labsim/runtime/internal/render"
	"github.com/labsim/runtime/internal/scripting"
	"github.com/labsim/runtime/internal/system"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(sceneName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m               labsim  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mscene:\033[0m %s\n\n", sceneName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch cfg.Profile.Mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook).Stop()
	}

	printBanner(cfg.Scene.Name)

	// 3. Services components draw on
	printSection("services")
	host := render.NewMemoryHost()
	loader := asset.NewLoader(cfg.Paths.Assets, log)
	defer loader.Close()

	scripts, err := scripting.NewEngine(cfg.Paths.Scripts, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()
	printOK("lua engine ready")

	bus := event.NewBus()
	drag := feature.NewDrag(cfg.Features.DragMaxDistance, bus, log)
	loco := feature.NewLocomotion(log)

	registry, err := component.NewRegistry(&component.Env{
		Host:    host,
		Assets:  loader,
		Scripts: scripts,
		Locks:   drag,
		Log:     log,
	})
	if err != nil {
		return fmt.Errorf("component kinds: %w", err)
	}
	printStat("component kinds", registry.Kinds().Count())

	// 4. Prefab catalog
	table, err := loadCatalog(cfg.Paths.Catalog)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	printStat("prefabs", table.Count())
	factory := prefab.NewFactory(table, registry, log)
	fmt.Println()

	// 5. Scene
	printSection("scene")
	scene := ecs.NewScene(cfg.Scene.Name, ecs.WithLogger(log), ecs.WithBus(bus))
	defer scene.Close()

	st := &stage{scene: scene, registry: registry, drag: drag, loco: loco, cfg: cfg}
	if err := st.build(); err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	spawned := 0
	for _, sp := range cfg.Scene.Spawn {
		n, err := spawn(scene, factory, sp)
		spawned += n
		if err != nil {
			log.Warn("spawn failed", zap.String("prefab", sp.Prefab), zap.Error(err))
		}
	}
	printStat("entities", scene.Len())
	printStat("spawned prefabs", spawned)
	fmt.Println()

	// 6. Systems
	runner := coresys.NewRunner()
	runner.Register(system.NewAssetPumpSystem(loader))
	runner.Register(system.NewEventSystem(bus))
	runner.Register(system.NewEntityUpdateSystem(scene))
	runner.Register(system.NewScriptSystem(scene, registry.Script))
	runner.Register(loco)
	runner.Register(system.NewCleanupSystem(scene))

	// 7. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	// nil unless keyboard shortcuts are enabled
	var debugCh chan os.Signal
	debug := &debugLayer{log: log, scene: scene, host: host}
	if cfg.Scene.Defaults.KeyboardShortcuts {
		debugCh = make(chan os.Signal, 1)
		signal.Notify(debugCh, syscall.SIGHUP)
		printOK("debug layer on SIGHUP")
	}

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	printSection("running")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Loop.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Loop.TickRate)
			if cfg.Loop.MaxTicks > 0 && runner.Ticks() >= cfg.Loop.MaxTicks {
				log.Info("tick limit reached", zap.Uint64("ticks", runner.Ticks()))
				return shutdown(log, scene, host)
			}
		case <-debugCh:
			debug.toggle()
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return shutdown(log, scene, host)
		}
	}
}

func shutdown(log *zap.Logger, scene *ecs.Scene, host *render.MemoryHost) error {
	scene.Close()
	if n := host.Count(); n > 0 {
		log.Warn("render nodes leaked", zap.Int("nodes", n))
	}
	log.Info("scene stopped")
	return nil
}

func loadConfig() (*config.Config, error) {
	if p := os.Getenv("LABSIM_CONFIG"); p != "" {
		return config.Load(p)
	}
	cfg, err := config.Load("config/labsim.toml")
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func loadCatalog(path string) (*data.PrefabTable, error) {
	t, err := data.LoadPrefabTable(path)
	if errors.Is(err, fs.ErrNotExist) {
		return data.NewPrefabTable(nil)
	}
	return t, err
}

func spawn(scene *ecs.Scene, factory *prefab.Factory, sp config.SpawnConfig) (int, error) {
	count := sp.Count
	if count == 0 {
		count = 1
	}
	name := sp.Name
	if name == "" {
		name = sp.Prefab
	}
	for i := 0; i < count; i++ {
		n := name
		if count > 1 {
			n = fmt.Sprintf("%s%d", name, i)
		}
		inst, err := factory.Spawn(scene, sp.Prefab, n)
		if err != nil {
			return i, err
		}
		b := inst.Base()
		b.Transform.Position = b.Transform.Position.Add(ecs.Vec3{X: sp.Position[0], Y: sp.Position[1], Z: sp.Position[2]})
	}
	return count, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

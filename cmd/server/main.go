package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gloom-server/internal/core"
	"gloom-server/internal/engine"
	"gloom-server/internal/maploader"
	"gloom-server/internal/server"
	"gloom-server/internal/version"
	"gloom-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var seed int64
	var levelsPath string
	var policyName string
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Simulation seed (0 for random)")
	flag.StringVar(&levelsPath, "levels", "", "Path to a .gloom level file (empty for built-in)")
	flag.StringVar(&policyName, "policy", "exit", "Level completion policy: exit|clear")
	flag.Parse()

	logger.Log.Info("Starting GLOOM server...")
	logger.Log.Info(version.String())

	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Log.Infof("🎲 Using random seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using explicit seed: %d", seed)
	}

	cfg := engine.NewConfig(seed)
	policy, err := engine.ParsePolicy(policyName)
	if err != nil {
		logger.Log.Fatal(err)
	}
	cfg.Policy = policy

	// 2. Загрузка уровней
	var set *maploader.LevelSet
	if levelsPath != "" {
		set, err = maploader.Load(levelsPath)
		if err != nil {
			logger.Log.Fatal("Failed to load levels: ", err)
		}
	} else {
		logger.Log.Info("No level file given, using built-in level set.")
		set = maploader.DefaultSet()
	}

	// 3. Инициализация ядра
	sim, err := engine.NewSimulation(set, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to start simulation: ", err)
	}

	hub := core.NewBroadcaster()
	runner := engine.NewRunner(sim, hub)
	go runner.Run()

	port := os.Getenv("GLOOM_PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 4. Запуск сервера
	srv := server.New(runner, port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")
	runner.Stop()
	logger.Log.Info("Done.")
}

// Command server is the coordinator process: it wires the Snapshot Store,
// Room Registry, Idle Room Reaper, Admission REST surface, and the
// WebSocket session layer together and serves them over gin, grounded on
// the reference server's server/main.go wiring (flag parsing, NATS
// connect, RunRestServer).
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/pokerledger/server/actor"
	"github.com/pokerledger/server/admission"
	"github.com/pokerledger/server/cache"
	"github.com/pokerledger/server/config"
	"github.com/pokerledger/server/logging"
	"github.com/pokerledger/server/registry"
	"github.com/pokerledger/server/session"
	"github.com/pokerledger/server/store"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	useMemoryStore := flag.Bool("memory-store", false, "use the in-memory snapshot store instead of Redis (development only)")
	flag.Parse()

	if err := run(*configPath, *useMemoryStore); err != nil {
		mainLogger.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run(configPath string, useMemoryStore bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var st store.Store
	if useMemoryStore {
		st = store.NewMemory()
	} else {
		st = store.NewRedis(cfg.RedisAddr(), cfg.RedisPW, cfg.RedisDB)
	}

	var bus actor.Bus = actor.NoopBus{}
	if natsBus, err := actor.NewNatsBus(cfg.NatsURL, jsoniter.ConfigCompatibleWithStandardLibrary.Marshal); err != nil {
		mainLogger.Warn().Err(err).Msg("could not connect to NATS, advisory events disabled")
	} else {
		bus = natsBus
		defer natsBus.Close()
	}

	reg := registry.New(st, bus)
	reaper := registry.GetReaper(reg, cfg.IdleRoomTTL, cfg.ReaperTick)
	defer reaper.Stop()

	if err := restoreOpenRooms(reg, st); err != nil {
		mainLogger.Error().Err(err).Msg("failed to restore rooms from store on boot")
	}

	devices, err := cache.NewDeviceRoomCache(cfg.DeviceCacheSize)
	if err != nil {
		return err
	}
	admissionSvc := admission.NewService(reg, devices, admission.NewRoomID)

	watcher := session.NewWatcher(cfg.HeartbeatTick)
	watcher.Start()
	defer watcher.Stop()
	hub := session.NewHub(reg, watcher)

	r := gin.Default()
	r.Use(admission.RateLimitMiddleware(rate.Limit(cfg.AdmissionRatePS), cfg.AdmissionBurst))
	admission.RegisterRoutes(r, admissionSvc)
	r.GET("/ws/:room_id/:player_id", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request, c.Param("room_id"), c.Param("player_id"))
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLogger.Error().Err(err).Msg("http server stopped unexpectedly")
		}
	}()
	mainLogger.Info().Str("addr", cfg.HTTPAddr).Msg("coordinator listening")

	waitForShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func waitForShutdown() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	mainLogger.Info().Msg("shutdown signal received")
}

// restoreOpenRooms reopens every room the store still has a snapshot for,
// so a process restart doesn't strand in-progress hands.
func restoreOpenRooms(reg *registry.Registry, st store.Store) error {
	ids, err := st.ListActive(context.Background())
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := reg.Restore(context.Background(), id); err != nil {
			mainLogger.Error().Err(err).Str(logging.RoomIDKey, id).Msg("failed to restore room")
			continue
		}
		mainLogger.Info().Str(logging.RoomIDKey, id).Msg("restored room from snapshot store")
	}
	return nil
}

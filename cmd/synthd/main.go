package main

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/config"
	"github.com/pitabwire/util"

	synthconfig "github.com/voicetyped/synthd/config"
	"github.com/voicetyped/synthd/internal/httputil"
	"github.com/voicetyped/synthd/internal/speech/registry"
	"github.com/voicetyped/synthd/internal/synth"
	"github.com/voicetyped/synthd/internal/synth/api"
	"github.com/voicetyped/synthd/pkg/styles"

	// Register speech backends via init().
	_ "github.com/voicetyped/synthd/internal/speech/backends/styletts2"
	_ "github.com/voicetyped/synthd/internal/speech/backends/system"
)

func main() {
	ctx := context.Background()

	cfg, err := config.FromEnv[synthconfig.SynthConfig]()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, srv := frame.NewService(
		frame.WithConfig(&cfg),
		frame.WithName("synthd"),
	)
	defer srv.Stop(ctx)

	pool, err := srv.WorkManager().GetPool()
	if err != nil {
		log.Fatalf("getting worker pool: %v", err)
	}

	serviceConfig := map[string]string{
		"voice":       cfg.SystemVoice,
		"rate":        strconv.Itoa(cfg.SystemVoiceRate),
		"binary_path": cfg.StyleTTS2Binary,
		"checkpoint":  cfg.StyleTTS2Checkpoint,
	}

	systemEngine, err := registry.TTS.Create(synth.EngineSystem, serviceConfig)
	if err != nil {
		log.Fatalf("creating system engine: %v", err)
	}
	neuralEngine, err := registry.TTS.Create(synth.EngineStyleTTS2, serviceConfig)
	if err != nil {
		log.Fatalf("creating styletts2 engine: %v", err)
	}

	var presets *styles.Loader
	if cfg.StylePresetDir != "" {
		presets = styles.NewLoader(cfg.StylePresetDir)
		if _, err := presets.LoadAll(); err != nil {
			util.Log(ctx).WithError(err).Warn("style presets unavailable")
			presets = nil
		} else {
			watch := func() {
				if err := presets.WatchAndReload(ctx.Done()); err != nil {
					util.Log(ctx).WithError(err).Error("style preset watcher exited")
				}
			}
			if err := pool.Submit(ctx, watch); err != nil {
				go watch()
			}
		}
	}

	svc := synth.NewService(systemEngine, neuralEngine, cfg.DefaultEngine, pool, presets)

	mux := http.NewServeMux()
	api.NewHandler(svc).RegisterRoutes(mux)

	srv.Init(ctx, frame.WithHTTPHandler(httputil.H2CHandler(mux)))

	if err := srv.Run(ctx, cfg.HTTPListenAddr); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}

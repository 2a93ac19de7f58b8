package main

import (
	"context"
	"log"
	"net/http"

	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/config"
	"github.com/pitabwire/util"

	vrconfig "github.com/voicerelay/voicerelay/config"
	"github.com/voicerelay/voicerelay/internal/httputil"
	"github.com/voicerelay/voicerelay/internal/speech/catalog"
	synthhandler "github.com/voicerelay/voicerelay/internal/speech/handler"
	"github.com/voicerelay/voicerelay/pkg/events"

	// Register speech backends via init().
	_ "github.com/voicerelay/voicerelay/internal/speech/backends/sagemaker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadWithOIDC[vrconfig.SynthConfig](ctx)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	eventRef := cfg.GetEventsQueueName()
	eventURL := cfg.GetEventsQueueURL()

	ctx, srv := frame.NewService(
		frame.WithConfig(&cfg),
		frame.WithName("voicerelay"),
		frame.WithRegisterServerOauth2Client(),
		frame.WithRegisterPublisher(eventRef, eventURL),
	)
	defer srv.Stop(ctx)

	pool, err := srv.WorkManager().GetPool()
	if err != nil {
		log.Fatalf("getting worker pool: %v", err)
	}

	authenticator := srv.SecurityManager().GetAuthenticator(ctx)

	pub := events.NewPublisher(srv.QueueManager(), "voicerelay", eventRef)

	cat := catalog.New(cfg.ModelCatalogDir)
	if _, err := cat.LoadAll(); err != nil {
		util.Log(ctx).WithError(err).Error("model catalog not loaded, continuing without cards")
	} else {
		watch := func() {
			if err := cat.WatchAndReload(ctx.Done()); err != nil {
				util.Log(ctx).WithError(err).Error("model catalog watch stopped")
			}
		}
		if pool == nil || pool.Submit(ctx, watch) != nil {
			go watch()
		}
	}

	handler := synthhandler.NewSynthHandler(cfg.DefaultTTSBackend, pool, cfg.ProviderDefaults(), cat, pub)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	var root http.Handler = httputil.LoggingMiddleware(mux)
	root = httputil.AuthenticatedMiddleware(root, authenticator)

	srv.Init(ctx, frame.WithHTTPHandler(httputil.H2CHandler(root)))

	if err := srv.Run(ctx, ""); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}

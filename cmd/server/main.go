package main

import (
	"log"
	"net/http"
	"time"

	"isl_signage/internal/announce"
	"isl_signage/internal/config"
	"isl_signage/internal/controllers"
	"isl_signage/internal/hub"
	"isl_signage/internal/logger"
	"isl_signage/internal/middleware"
	"isl_signage/internal/routes"
	"isl_signage/internal/saga"
	"isl_signage/internal/store"
	"isl_signage/internal/translate"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	settings := config.LoadSettings()
	timeout := time.Duration(settings.RequestTimeoutSec) * time.Second

	routeStore := store.NewRouteStore(config.DB)
	translationStore := store.NewTranslationStore(config.DB)
	gateway := translate.NewGateway(settings.TranslateAPIURL, timeout)
	provisioner := saga.New(routeStore, translationStore, gateway)

	statusHub := hub.NewHub()
	renderer := announce.NewRenderer(settings.RenderAPIURL, timeout)
	announcements := announce.NewService(config.DB, statusHub, renderer)

	r := routes.SetupRouter(routes.Controllers{
		TrainRoutes:   controllers.NewTrainRouteController(routeStore, translationStore, provisioner),
		Announcements: controllers.NewLiveAnnouncementController(announcements),
		Translations:  controllers.NewTranslationController(gateway),
		Videos:        controllers.NewVideoController(renderer),
		Socket:        controllers.NewWebSocketController(statusHub),
	})

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Printf("🚀 Signage server running at %s", settings.ListenAddr)
	log.Fatal(http.ListenAndServe(settings.ListenAddr, handler))
}

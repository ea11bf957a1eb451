package cmd

import (
	"os"

	"streamalloc/api"
	"streamalloc/internal/app"
	"streamalloc/internal/config"
	"streamalloc/internal/logger"
	l1_service "streamalloc/internal/service/l1"
	l2_service "streamalloc/internal/service/l2"
	l3_service "streamalloc/internal/service/l3"
)

// InitializeDependencies wires the engine bottom-up: tables feed the l1
// services, which feed the predictor and optimizer, which the api handler
// fronts. Everything below the handler is immutable after this returns.
func InitializeDependencies() (*api.ApiHandler, *config.Config, error) {
	cfg, err := config.Load(os.Getenv("STREAMALLOC_CONFIG"))
	if err != nil {
		return nil, nil, err
	}

	log := logger.New()

	tables := l1_service.DefaultEngineTables()
	genreService := l1_service.NewGenreService(tables)
	featureService := l1_service.NewFeatureService(tables, genreService)
	predictorService := l2_service.NewPredictorService()

	optimizerService := l3_service.NewOptimizerService(genreService, featureService, predictorService, log)

	handler := &api.ApiHandler{
		AllocationHandler: app.AllocationHandler{
			Optimizer:   optimizerService,
			Validator:   l3_service.NewValidatorService(),
			Projections: l3_service.NewProjectionService(),
		},
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
	}

	return handler, cfg, nil
}

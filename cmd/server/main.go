package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	foiapersistence "github.com/Dcavise/SEEK-sub001/modules/foia/infrastructure/persistence"
	foiacontrollers "github.com/Dcavise/SEEK-sub001/modules/foia/presentation/controllers"
	foiaservices "github.com/Dcavise/SEEK-sub001/modules/foia/services"
	registrypersistence "github.com/Dcavise/SEEK-sub001/modules/registry/infrastructure/persistence"
	registrycontrollers "github.com/Dcavise/SEEK-sub001/modules/registry/presentation/controllers"
	registryservices "github.com/Dcavise/SEEK-sub001/modules/registry/services"
	"github.com/Dcavise/SEEK-sub001/pkg/composables"
	"github.com/Dcavise/SEEK-sub001/pkg/configuration"
	"github.com/Dcavise/SEEK-sub001/pkg/eventbus"
	"github.com/Dcavise/SEEK-sub001/pkg/metrics"
	"github.com/Dcavise/SEEK-sub001/pkg/schema"
	"github.com/Dcavise/SEEK-sub001/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := schema.Up(ctx, conf.Database.Opts); err != nil {
		logger.WithError(err).Fatal("schema migration failed")
	}

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	defer pool.Close()

	bus := eventbus.NewEventPublisher(logger)

	propertyRepo := registrypersistence.NewPropertyRepository()
	sessionRepo := foiapersistence.NewSessionRepository()
	matchRepo := foiapersistence.NewMatchResultRepository()
	updateRepo := foiapersistence.NewFOIAUpdateRepository()

	propertySvc := registryservices.NewPropertyService(propertyRepo)
	sessionSvc := foiaservices.NewSessionService(sessionRepo, bus)
	_ = foiaservices.NewUpdateExecutor(
		sessionRepo, matchRepo, updateRepo, propertyRepo,
		conf.FOIA.AuditRetryAttempts, logger,
	)
	rollbackSvc := foiaservices.NewRollbackService(sessionRepo, updateRepo, propertyRepo, logger)

	controllers := []server.Controller{
		foiacontrollers.NewFOIAAPIController(sessionSvc, matchRepo, updateRepo, rollbackSvc),
		registrycontrollers.NewRegistryAPIController(propertySvc),
	}
	if conf.Prometheus.Enabled {
		controllers = append(controllers, metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	srv := server.NewHTTPServer(controllers, poolMiddleware(pool), loggingMiddleware(conf))
	logger.WithField("address", conf.SocketAddress).Info("server listening")
	if err := srv.Start(conf.SocketAddress); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func poolMiddleware(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

func loggingMiddleware(conf *configuration.Configuration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			next.ServeHTTP(w, r)
			conf.Logger().WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(started).String(),
			}).Debug("request handled")
		})
	}
}

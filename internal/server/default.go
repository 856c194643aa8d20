package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/tanzim-io/tanzim/pkg/application"
	"github.com/tanzim-io/tanzim/pkg/configuration"
	"github.com/tanzim-io/tanzim/pkg/constants"
	"github.com/tanzim-io/tanzim/pkg/middleware"
	"github.com/tanzim-io/tanzim/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, middleware.DefaultLoggerOptions()),

		middleware.TracedMiddleware("database"),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),

		middleware.TracedMiddleware("cors"),
		middleware.Cors(options.Configuration.Origin),

		middleware.TracedMiddleware("requestParams"),
		middleware.RequestParams(),
	}

	app.RegisterMiddleware(middlewares...)

	return server.NewHTTPServer(
		app,
		errorHandler(http.StatusNotFound, "NOT_FOUND", "resource not found"),
		errorHandler(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed"),
	), nil
}

func errorHandler(status int, code, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    code,
			"message": message,
		})
	})
}

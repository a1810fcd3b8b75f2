package router

import (
	"net/http"
	"net/url"

	docs "github.com/optibudget/backend/api"
	"github.com/optibudget/backend/internal/config"
	"github.com/optibudget/backend/internal/controllers/healthz"
	v1 "github.com/optibudget/backend/internal/controllers/v1"
	"github.com/optibudget/backend/internal/httputil"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

func Config(cfg config.Application) (*gin.Engine, error) {
	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "This HTTP method is not allowed for the endpoint you called"})
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))
	r.Use(MetricsMiddleware())

	// CORS settings
	if len(cfg.CORSOrigins) > 0 {
		log.Debug().Strs("CORS Allowed Origins", cfg.CORSOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "X-User-ID"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	apiURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("API Base URL", apiURL.String()).Str("Host", apiURL.Host).Str("Path", apiURL.Path).Msg("Router")
	log.Info().Str("version", version).Msg("Router")

	docs.SwaggerInfo.Host = apiURL.Host
	docs.SwaggerInfo.BasePath = apiURL.Path
	docs.SwaggerInfo.Title = "Optibudget"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for Optibudget, a budgeting solution with balance propagation, payroll batches and generated advice."

	return r, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in.
// Separating this from Config() allows attaching the routes to different
// paths for different use cases.
func AttachRoutes(cfg config.Application, co v1.Controller, group *gin.RouterGroup) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)

	// pprof performance profiles
	if cfg.EnablePprof {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/metrics", gin.WrapH(promhttp.Handler()))
	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	healthz.RegisterRoutes(group.Group("/healthz"))

	// API v1 setup
	apiV1 := group.Group("/v1")
	{
		apiV1.GET("", GetV1)
		apiV1.OPTIONS("", OptionsV1)
	}

	v1.RegisterExportRoutes(apiV1.Group("/export"), version)
	co.RegisterRoutes(apiV1)
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/docs/index.html"` // Swagger API documentation
	Healthz string `json:"healthz" example:"https://example.com/healthz"`      // Healthz endpoint
	Version string `json:"version" example:"https://example.com/version"`      // Endpoint returning the version of the backend
	Metrics string `json:"metrics" example:"https://example.com/metrics"`      // Prometheus metrics
	V1      string `json:"v1" example:"https://example.com/v1"`                // List endpoint for all v1 endpoints
}

// GetRoot returns the link list for the API root
//
//	@Summary		API root
//	@Description	Entrypoint for the API, listing all endpoints
//	@Tags			General
//	@Success		200	{object}	RootResponse
//	@Router			/ [get]
func GetRoot(c *gin.Context) {
	url := httputil.RequestHost(c)

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:    url + "/docs/index.html",
			Healthz: url + "/healthz",
			Version: url + "/version",
			Metrics: url + "/metrics",
			V1:      url + "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"` // Data object for the version endpoint
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"` // the running version of the backend
}

// GetVersion returns the API version object
//
//	@Summary		API version
//	@Description	Returns the software version of the API
//	@Tags			General
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// OptionsRoot returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// OptionsVersion returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Budgets       string `json:"budgets" example:"https://example.com/v1/budgets"`             // List endpoint for budgets
	Categories    string `json:"categories" example:"https://example.com/v1/categories"`       // List endpoint for categories
	Expenses      string `json:"expenses" example:"https://example.com/v1/expenses"`           // List endpoint for expenses
	Incomes       string `json:"incomes" example:"https://example.com/v1/incomes"`             // List endpoint for incomes
	Employees     string `json:"employees" example:"https://example.com/v1/employees"`         // List endpoint for employees
	Payments      string `json:"payments" example:"https://example.com/v1/payments"`           // List endpoint for payments
	SalaryScale   string `json:"salaryScale" example:"https://example.com/v1/salary-scale"`    // The salary scale of the account
	Notifications string `json:"notifications" example:"https://example.com/v1/notifications"` // List endpoint for notifications
	Advice        string `json:"advice" example:"https://example.com/v1/advice"`               // List endpoint for advice
	Reports       string `json:"reports" example:"https://example.com/v1/reports/global"`      // Aggregated reports
	Users         string `json:"users" example:"https://example.com/v1/users"`                 // List endpoint for users
	Export        string `json:"export" example:"https://example.com/v1/export"`               // Export of all data on the instance
}

// GetV1 returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Entrypoint for the v1 API, listing all endpoints
//	@Tags			v1
//	@Success		200	{object}	V1Response
//	@Router			/v1 [get]
func GetV1(c *gin.Context) {
	url := httputil.RequestPathV1(c)

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Budgets:       url + "/budgets",
			Categories:    url + "/categories",
			Expenses:      url + "/expenses",
			Incomes:       url + "/incomes",
			Employees:     url + "/employees",
			Payments:      url + "/payments",
			SalaryScale:   url + "/salary-scale",
			Notifications: url + "/notifications",
			Advice:        url + "/advice",
			Reports:       url + "/reports/global",
			Users:         url + "/users",
			Export:        url + "/export",
		},
	})
}

// OptionsV1 returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}

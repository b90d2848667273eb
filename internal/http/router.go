// README: HTTP router registration.
package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"taxibook/internal/http/handlers"
	"taxibook/internal/http/middleware"
	"taxibook/internal/maps"
	"taxibook/internal/modules/booking"
	"taxibook/internal/modules/driver"
	"taxibook/internal/modules/pricing"
	"taxibook/internal/ratelimit"
)

type RouterDeps struct {
	Bookings *booking.Service
	Pricing  *pricing.Service
	Geocoder maps.Geocoder
	Drivers  *driver.Service
	// Limiter is optional; nil disables rate limiting.
	Limiter     ratelimit.Limiter
	CORSOrigins []string
	// StaticDir, when set, serves the booking site and /admin.
	StaticDir string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery(), middleware.CORS(deps.CORSOrigins))
	_ = r.SetTrustedProxies(nil)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	bookingHandler := handlers.NewBookingHandler(deps.Bookings)
	bookings := api.Group("/bookings")
	bookings.POST("", middleware.RateLimit(deps.Limiter, "bookings"), bookingHandler.Create)
	bookings.GET("", bookingHandler.List)
	bookings.GET("/stats", bookingHandler.Stats)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.PATCH("/:id", bookingHandler.Update)
	bookings.PUT("/:id", bookingHandler.Update)
	bookings.DELETE("/:id", bookingHandler.Delete)

	fareHandler := handlers.NewFareHandler(deps.Pricing)
	api.GET("/fares/quote", fareHandler.Quote)
	api.GET("/fares/rates", fareHandler.Rates)

	geo := middleware.RateLimit(deps.Limiter, "geolocation")

	placesHandler := handlers.NewPlacesHandler(deps.Geocoder)
	api.GET("/places/reverse", geo, placesHandler.Reverse)
	api.GET("/places/autocomplete", geo, placesHandler.Autocomplete)

	driverHandler := handlers.NewDriverHandler(deps.Drivers)
	api.GET("/drivers/nearby", geo, driverHandler.Nearby)

	mountStatic(r, deps.StaticDir)
	return r
}

// mountStatic serves the site for GET requests no API route claimed.
func mountStatic(r *gin.Engine, dir string) {
	if dir == "" {
		r.NoRoute(notFound)
		return
	}
	r.GET("/admin", func(c *gin.Context) {
		c.File(filepath.Join(dir, "admin.html"))
	})
	files := http.FileServer(http.Dir(dir))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			notFound(c)
			return
		}
		name := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+c.Request.URL.Path)))
		if _, err := os.Stat(name); err != nil {
			notFound(c)
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// README: Entry point; loads config, wires services, and serves HTTP until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"taxibook/internal/config"
	httptransport "taxibook/internal/http"
	"taxibook/internal/infra"
	"taxibook/internal/maps"
	"taxibook/internal/modules/booking"
	"taxibook/internal/modules/driver"
	"taxibook/internal/modules/pricing"
	"taxibook/internal/pkg/logger"
	"taxibook/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Environment: cfg.Env, LogFile: cfg.Log.File})
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedule, err := pricing.LoadSchedule(cfg.Pricing.RatesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Pricing.RatesFile).Msg("load rate schedule")
	}
	pricingSvc, err := pricing.NewService(schedule)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid rate schedule")
	}

	store, err := booking.NewStore(cfg.Booking.File)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Booking.File).Msg("init bookings file")
	}

	var events booking.Publisher = booking.NopPublisher{}
	if brokers := infra.ParseBrokers(cfg.Kafka.Brokers); len(brokers) > 0 {
		kp := infra.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
		defer kp.Close()
		events = kp
		log.Info().Strs("brokers", brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing booking events")
	}

	bookingSvc := booking.NewService(store, pricingSvc, events, booking.Options{
		StrictStatus: cfg.Booking.StrictStatus,
		Location:     cfg.Location(),
	})

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		rl := ratelimit.Config{MaxCalls: cfg.RateLimit.MaxCalls, Window: cfg.RateLimit.Window}
		limiter = ratelimit.NewMemory(rl)
		if cfg.Redis.Addr != "" {
			rdb := infra.NewRedis(cfg.Redis.Addr)
			defer rdb.Close()
			if err := infra.PingRedis(ctx, rdb); err != nil {
				log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, using in-memory rate limits")
			} else {
				limiter = ratelimit.NewRedis(rdb, rl, "taxibook:ratelimit")
			}
		}
	}

	var geocoder maps.Geocoder = maps.Disabled{}
	if cfg.Maps.APIKey != "" {
		g, err := maps.NewGoogleGeocoder(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("init maps client")
		}
		geocoder = g
	}

	server := httptransport.NewServer(cfg.HTTP.Addr, httptransport.RouterDeps{
		Bookings:    bookingSvc,
		Pricing:     pricingSvc,
		Geocoder:    geocoder,
		Drivers:     driver.NewService(),
		Limiter:     limiter,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		StaticDir:   cfg.HTTP.StaticDir,
	})

	log.Info().
		Str("bookings_file", store.Path()).
		Bool("strict_status", cfg.Booking.StrictStatus).
		Msg("taxibook api starting")
	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server")
	}
	log.Info().Msg("shutdown complete")
}

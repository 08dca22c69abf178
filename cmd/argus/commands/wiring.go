package commands

import (
	"fmt"

	"github.com/jwchen/argus/internal/backtest"
	"github.com/jwchen/argus/internal/factor"
	"github.com/jwchen/argus/internal/marketdata"
	"github.com/jwchen/argus/internal/screen"
	"github.com/jwchen/argus/pkg/config"
	"github.com/jwchen/argus/pkg/logger"
	"github.com/jwchen/argus/pkg/redis"
)

// runtime bundles the dependencies every command starts from: config,
// logger, and the vendor client with its optional Redis cache.
type runtime struct {
	cfg    *config.Config
	log    *logger.Logger
	client *marketdata.Client
	loader *marketdata.PanelLoader

	redis *redis.Client
}

// initRuntime wires config, logger, cache and the vendor client.
// Redis is optional: when disabled or unreachable the client runs
// uncached.
func initRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	var cache *redis.Cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.New(cfg)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, running uncached")
		} else {
			cache = redis.NewCache(redisClient, "argus")
		}
	}

	client := marketdata.NewClient(cfg.Vendor, cache, log)
	loader := marketdata.NewPanelLoader(client, cfg.Vendor.FetchWorkers, log)

	return &runtime{
		cfg:    cfg,
		log:    log,
		client: client,
		loader: loader,
		redis:  redisClient,
	}, nil
}

// close releases held connections.
func (rt *runtime) close() {
	if rt.redis != nil {
		rt.redis.Close()
	}
}

// newScorer builds the factor scorer from config, honoring the global
// --five-factor flag.
func (rt *runtime) newScorer() *factor.Scorer {
	fcfg := factor.DefaultConfig()
	fcfg.Weights = factor.Weights{
		Value:   rt.cfg.Factor.ValueWeight,
		Quality: rt.cfg.Factor.QualityWeight,
		Growth:  rt.cfg.Factor.GrowthWeight,
	}
	fcfg.WinsorLower = rt.cfg.Factor.WinsorLower
	fcfg.WinsorUpper = rt.cfg.Factor.WinsorUpper
	if fiveFactor {
		fcfg.SubWeights = factor.FiveFactorSubWeights()
	}
	return factor.NewScorer(fcfg, rt.log)
}

// newScreener builds the screener over the live vendor feeds.
func (rt *runtime) newScreener() *screen.Screener {
	return screen.New(rt.client, rt.client, rt.newScorer(), rt.cfg.Factor.TopFraction, rt.log)
}

// newEngine builds the backtest engine.
func (rt *runtime) newEngine() *backtest.Engine {
	return backtest.NewEngine(rt.log)
}

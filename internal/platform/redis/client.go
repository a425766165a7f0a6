package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"hrconsole/internal/platform/config"
)

// Client wraps the go-redis client used by the shared token store.
type Client struct {
	*redis.Client
}

// New connects to the configured Redis instance and verifies it with a ping.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// PoolCollector exposes connection pool statistics at scrape time.
func (c *Client) PoolCollector() prometheus.Collector {
	return &poolCollector{client: c.Client}
}

var (
	poolTotalDesc = prometheus.NewDesc("hrconsole_redis_pool_total_conns",
		"Number of total connections in the pool", nil, nil)
	poolIdleDesc = prometheus.NewDesc("hrconsole_redis_pool_idle_conns",
		"Number of idle connections in the pool", nil, nil)
	poolTimeoutsDesc = prometheus.NewDesc("hrconsole_redis_pool_timeouts_total",
		"Number of times a connection was not obtained due to timeout", nil, nil)
)

type poolCollector struct {
	client *redis.Client
}

func (p *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- poolTotalDesc
	ch <- poolIdleDesc
	ch <- poolTimeoutsDesc
}

func (p *poolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := p.client.PoolStats()
	ch <- prometheus.MustNewConstMetric(poolTotalDesc, prometheus.GaugeValue, float64(stats.TotalConns))
	ch <- prometheus.MustNewConstMetric(poolIdleDesc, prometheus.GaugeValue, float64(stats.IdleConns))
	ch <- prometheus.MustNewConstMetric(poolTimeoutsDesc, prometheus.CounterValue, float64(stats.Timeouts))
}

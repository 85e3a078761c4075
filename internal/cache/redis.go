package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmaslov/flightbooking/config"
	"github.com/vmaslov/flightbooking/internal/domain"
)

type RedisCache struct {
	client      *redis.Client
	scheduleTTL time.Duration
	pnrTTL      time.Duration
}

func NewRedisCache(cfg config.RedisConfig, scheduleTTL, pnrTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		scheduleTTL: scheduleTTL,
		pnrTTL:      pnrTTL,
	}
}

// GetSchedule returns the cached snapshot, or nil on a miss.
func (c *RedisCache) GetSchedule(ctx context.Context, scheduleID string) (*domain.ScheduleInventory, error) {
	data, err := c.client.Get(ctx, scheduleKey(scheduleID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var schedule domain.ScheduleInventory
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *RedisCache) SetSchedule(ctx context.Context, schedule *domain.ScheduleInventory) error {
	payload, err := json.Marshal(schedule)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, scheduleKey(schedule.ID), payload, c.scheduleTTL).Err()
}

// InvalidateSchedule drops the snapshot after a seat mutation so the next
// lookup reads the store.
func (c *RedisCache) InvalidateSchedule(ctx context.Context, scheduleID string) error {
	return c.client.Del(ctx, scheduleKey(scheduleID)).Err()
}

// ReservePNR claims a freshly generated PNR across booking-service replicas.
// Returns false when another replica holds the same code.
func (c *RedisCache) ReservePNR(ctx context.Context, pnr string) (bool, error) {
	return c.client.SetNX(ctx, pnrKey(pnr), "reserved", c.pnrTTL).Result()
}

func scheduleKey(scheduleID string) string {
	return fmt.Sprintf("cache:schedule:%s", scheduleID)
}

func pnrKey(pnr string) string {
	return fmt.Sprintf("pnr:%s", pnr)
}

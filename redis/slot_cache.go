package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const openDaysTTL = 15 * time.Minute

// SlotCache caches each doctor's open weekdays in redis. Every failure path
// degrades to a cache miss so a redis outage never fails a request.
type SlotCache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewSlotCache(client *redis.Client, log *zap.Logger) *SlotCache {
	return &SlotCache{client: client, log: log}
}

func openDaysKey(doctorID uint) string {
	return fmt.Sprintf("doctor:%d:open-days", doctorID)
}

func (c *SlotCache) GetOpenDays(ctx context.Context, doctorID uint) ([]models.DayOfWeek, bool) {
	raw, err := c.client.Get(ctx, openDaysKey(doctorID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("open-days cache read failed", zap.Uint("doctor_id", doctorID), zap.Error(err))
		}
		return nil, false
	}

	var days []models.DayOfWeek
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		c.log.Warn("open-days cache entry corrupt", zap.Uint("doctor_id", doctorID), zap.Error(err))
		return nil, false
	}
	return days, true
}

func (c *SlotCache) SetOpenDays(ctx context.Context, doctorID uint, days []models.DayOfWeek) {
	raw, err := json.Marshal(days)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, openDaysKey(doctorID), raw, openDaysTTL).Err(); err != nil {
		c.log.Warn("open-days cache write failed", zap.Uint("doctor_id", doctorID), zap.Error(err))
	}
}

func (c *SlotCache) InvalidateOpenDays(ctx context.Context, doctorID uint) {
	if err := c.client.Del(ctx, openDaysKey(doctorID)).Err(); err != nil {
		c.log.Warn("open-days cache invalidation failed", zap.Uint("doctor_id", doctorID), zap.Error(err))
	}
}

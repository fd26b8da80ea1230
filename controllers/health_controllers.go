package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restaurant-biller/utils"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

func (hc *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true

	sqlDB, err := hc.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("health check: database unreachable")
		checks["database"] = "unavailable"
		healthy = false
	}

	if hc.Redis != nil {
		checks["redis"] = "ok"
		if err := hc.Redis.Ping(ctx).Err(); err != nil {
			utils.ErrorLogger.WithError(err).Warn("health check: redis unreachable")
			checks["redis"] = "unavailable"
			healthy = false
		}
	}

	if !healthy {
		utils.RespondJSON(c, http.StatusServiceUnavailable, "unhealthy", checks)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "ok", checks)
}

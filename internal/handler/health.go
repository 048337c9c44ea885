package handler

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the API and its dependencies: postgres, redis
// (optional; "disabled" when running without it) and the foto storage
// directory the check-in flow writes to. Never exposes credentials or paths.
func Health(db *gorm.DB, rdb *redis.Client, fotoPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		switch {
		case rdb == nil:
			redisStatus = "disabled"
		case rdb.Ping(ctx).Err() != nil:
			redisStatus = "error"
		}

		fotosStatus := "ok"
		if info, err := os.Stat(fotoPath); err != nil || !info.IsDir() {
			fotosStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" || fotosStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"fotos": fotosStatus,
		})
	}
}

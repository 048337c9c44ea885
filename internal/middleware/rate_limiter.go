package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dizanrev24/control-rutas/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ── General API rate limiter (redis fixed window) ─────────────────────────────

// RateLimiter limits requests per IP using a redis counter so the limit holds
// across instances. The window is fixed (INCR on a bucketed key + EXPIRE).
// Fails open: with a nil client or redis down, requests pass.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	if rdb == nil {
		log.Warn().Msg("rate limiter deshabilitado: sin redis")
		return func(c *gin.Context) { c.Next() }
	}

	windowSecs := int64(window.Seconds())

	return func(c *gin.Context) {
		now := time.Now().Unix()
		bucket := now - now%windowSecs
		key := "ratelimit:" + c.ClientIP() + ":" + strconv.FormatInt(bucket, 10)

		pipe := rdb.Pipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			log.Debug().Err(err).Msg("rate limiter: fallo redis, solicitud permitida")
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			restante := bucket + windowSecs - now
			c.Header("Retry-After", strconv.FormatInt(restante, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// ── Login rate limiter (in-memory) ────────────────────────────────────────────
// Stays local on purpose: login must keep its limit even with redis down.

const (
	loginLimit  = 20
	loginWindow = time.Minute
)

type loginEntry struct {
	count     int
	windowEnd time.Time
}

var (
	loginMap   = make(map[string]*loginEntry)
	loginMapMu sync.Mutex
)

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		loginMapMu.Lock()
		entry, ok := loginMap[ip]
		if !ok || now.After(entry.windowEnd) {
			entry = &loginEntry{windowEnd: now.Add(loginWindow)}
			loginMap[ip] = entry
		}
		entry.count++
		excedido := entry.count > loginLimit
		loginMapMu.Unlock()

		if excedido {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// Periodically drop expired login entries so IPs that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeLoginEntries()
}

func purgeLoginEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		loginMapMu.Lock()
		purged := 0
		for ip, entry := range loginMap {
			if now.After(entry.windowEnd) {
				delete(loginMap, ip)
				purged++
			}
		}
		restantes := len(loginMap)
		loginMapMu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("purged", purged).
				Int("remaining", restantes).
				Msg("login rate limiter purged")
		}
	}
}

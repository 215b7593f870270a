// Command lingod serves the translation HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vireolabs/lingo"
	"github.com/vireolabs/lingo/cache"
	"github.com/vireolabs/lingo/engine"
	"github.com/vireolabs/lingo/registry"
	"github.com/vireolabs/lingo/textproc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	log := logrus.New()
	if level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(level)
	}

	store := newStore(log)
	defer store.Close()

	loader := engine.NewRetryLoader(
		engine.NewOpenAILoader(engine.OpenAIConfig{
			APIKey:  os.Getenv("ENGINE_API_KEY"),
			BaseURL: os.Getenv("ENGINE_BASE_URL"),
		}),
		engine.DefaultRetryConfig(),
	)

	catalog := lingo.DefaultCatalog()
	reg := registry.New(catalog, loader, registry.WithLogger(log))
	defer reg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	preload := parsePairs(envOr("PRELOAD_PAIRS", "en:hi,hi:en"))
	for pair, err := range reg.Preload(ctx, preload) {
		if err == nil {
			log.WithField("pair", pair.String()).Info("engine preloaded")
		}
	}

	pipe := lingo.New(catalog, reg,
		lingo.WithCache(store),
		lingo.WithMaxTextLength(envInt("MAX_LENGTH", lingo.DefaultMaxTextLength)),
		lingo.WithLogger(log),
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, pipe, store)

	srv := &http.Server{
		Addr:              ":" + envOr("PORT", "8000"),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"version": lingo.FullVersion(),
		}).Info("lingod listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newStore picks the cache backend from the environment: Redis when
// REDIS_URL is set, otherwise an in-memory store, optionally seeded from a
// previous export.
func newStore(log *logrus.Logger) cache.Store {
	ttl := envDuration("CACHE_TTL", cache.DefaultTTL)

	if url := os.Getenv("REDIS_URL"); url != "" {
		return cache.NewRedisStore(cache.RedisConfig{
			URL:    url,
			TTL:    ttl,
			Logger: log,
		})
	}

	mem := cache.NewMemoryStore(ttl)
	if seed := os.Getenv("CACHE_SEED_FILE"); seed != "" {
		result, err := cache.NewImporter(mem).ImportFromFile(seed)
		if err != nil {
			log.WithError(err).WithField("file", seed).Warn("cache seed import failed")
		} else {
			log.WithField("imported", result.Imported).Info("cache seeded")
		}
	}
	return mem
}

type translateRequest struct {
	Text       string `json:"text" binding:"required"`
	SourceLang string `json:"source_lang" binding:"required"`
	TargetLang string `json:"target_lang" binding:"required"`
	Format     string `json:"format"` // "html" extracts text before translating
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	Model          string `json:"model,omitempty"`
	Cached         bool   `json:"cached"`
	LatencyMS      int64  `json:"latency_ms"`
}

func registerRoutes(router *gin.Engine, pipe *lingo.Pipeline, store cache.Store) {
	router.GET("/health", func(c *gin.Context) {
		status := pipe.HealthStatus(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"version":         lingo.FullVersion(),
			"models_loaded":   len(status.LoadedPairs),
			"cache_connected": status.CacheConnected,
		})
	})

	api := router.Group("/api/v1")

	api.POST("/translate", func(c *gin.Context) {
		var req translateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text, source_lang and target_lang are required"})
			return
		}

		text := req.Text
		if req.Format == "html" {
			extracted, err := textproc.ExtractHTMLText(text)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid HTML content"})
				return
			}
			text = extracted
		}

		result, err := pipe.Translate(c.Request.Context(), lingo.TranslationRequest{
			Text:   text,
			Source: req.SourceLang,
			Target: req.TargetLang,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, translateResponse{
			TranslatedText: result.TranslatedText,
			SourceLang:     req.SourceLang,
			TargetLang:     req.TargetLang,
			Model:          result.EngineID,
			Cached:         result.FromCache,
			LatencyMS:      result.Latency.Milliseconds(),
		})
	})

	api.GET("/languages", func(c *gin.Context) {
		pairs := pipe.SupportedPairs()
		out := make([]gin.H, len(pairs))
		for i, p := range pairs {
			out[i] = gin.H{"source": p.Source, "target": p.Target}
		}
		c.JSON(http.StatusOK, gin.H{"supported_pairs": out})
	})

	api.GET("/cache/stats", func(c *gin.Context) {
		stats := store.Stats(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"connected":    stats.Connected,
			"hit_count":    stats.HitCount,
			"miss_count":   stats.MissCount,
			"memory_usage": stats.MemoryUsage,
		})
	})
}

func writeError(c *gin.Context, err error) {
	var validationErr *lingo.ValidationError
	var pairErr *lingo.UnsupportedPairError
	var engineErr *lingo.EngineError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &pairErr):
		pairs := make([]gin.H, len(pairErr.Supported))
		for i, p := range pairErr.Supported {
			pairs[i] = gin.H{"source": p.Source, "target": p.Target}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           err.Error(),
			"supported_pairs": pairs,
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "translation timed out"})
	case errors.As(err, &engineErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "translation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// parsePairs parses "en:hi,hi:en" into language pairs, skipping malformed
// entries.
func parsePairs(s string) []lingo.LanguagePair {
	var pairs []lingo.LanguagePair
	for _, part := range strings.Split(s, ",") {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
			continue
		}
		pairs = append(pairs, lingo.LanguagePair{Source: fields[0], Target: fields[1]})
	}
	return pairs
}

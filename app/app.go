package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"delivery-trends/analytics"
	"delivery-trends/api"
	"delivery-trends/cache"
	"delivery-trends/config"
	"delivery-trends/database"
	"delivery-trends/geo"
	"delivery-trends/helpers"
	"delivery-trends/llm"
	"delivery-trends/notifications"
	"delivery-trends/realtime"
	"delivery-trends/trends"
	"delivery-trends/views"
	"delivery-trends/websocket"
)

// App represents the main application
type App struct {
	config         *config.Config
	db             *database.Database
	redis          *cache.RedisClient
	repo           *database.TrendRepository
	service        *TrendService
	broker         *realtime.Broker
	hub            *websocket.Hub
	webhookManager *notifications.WebhookManager
	refresher      *TrendRefresher
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config: cfg,
	}
}

// Start starts the application
func (a *App) Start() error {
	// 1. Database Connection
	fmt.Println("🗄️  Connecting to database...")
	db, err := database.Connect(
		a.config.DatabaseHost,
		a.config.DatabasePort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	a.repo = database.NewTrendRepository(db)
	if err := a.repo.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 2. Redis Connection
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Falling back to in-process snapshot cache.")
	} else {
		a.redis = redisClient
	}

	// 3. Trends service: provider client behind the TTL cache
	snapshotCache := cache.NewSnapshotCache(a.redis, a.config.Trends.CacheTTL, nil)
	client := trends.NewClient(
		a.config.Trends.BaseURL,
		a.config.Trends.Brands,
		a.config.Trends.Geo,
		a.config.Trends.Timeframe,
		a.config.Trends.FetchTimeout,
	)
	a.service = NewTrendService(client, snapshotCache, a.config.Trends.Brands, a.config.Trends.Geo, a.config.Trends.Timeframe, nil)

	// 4. Realtime fan-out
	a.broker = realtime.NewBroker()
	go a.broker.Run()
	a.hub = websocket.NewHub()

	// 5. Webhook notifications
	a.webhookManager = notifications.NewWebhookManager(a.repo)

	// 6. Views, with the optional LLM narrative on the story page
	viewManager := views.NewManager()
	var narrative views.NarrativeFunc
	if a.config.LLM.Enabled {
		llmClient := llm.NewClient(a.config.LLM.Endpoint, a.config.LLM.APIKey, a.config.LLM.Model)
		narrative = narrativeFunc(llmClient)
		log.Printf("✅ LLM narrative ENABLED (Model: %s)", a.config.LLM.Model)
	} else {
		log.Println("ℹ️  LLM narrative DISABLED")
	}
	views.RegisterDefaults(viewManager, narrative)

	// 7. Background refresher
	a.refresher = NewTrendRefresher(a.service, a.repo, a.webhookManager, a.broker, a.hub, a.config.Analytics)
	go a.refresher.Start()

	// 8. API server
	boundaries := geo.NewBoundaryProvider(a.config.GeoBoundaryURL, a.config.GeoBoundaryTimeout)
	apiServer := api.NewServer(a.repo, a.service, viewManager, a.broker, a.hub, boundaries, a.config)
	go func() {
		if err := apiServer.Start(a.config.Port); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	// 9. Wait for interrupt and perform graceful shutdown
	return a.gracefulShutdown()
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown() error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	shutdownComplete := make(chan struct{})
	go func() {
		if a.refresher != nil {
			fmt.Println("🔄 Stopping trend refresher...")
			a.refresher.Stop()
		}

		if a.db != nil {
			if err := a.db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			} else {
				fmt.Println("✅ Database connection closed")
			}
		}

		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				log.Printf("Error closing redis: %v", err)
			} else {
				fmt.Println("✅ Redis connection closed")
			}
		}

		close(shutdownComplete)
	}()

	select {
	case <-shutdownComplete:
		fmt.Println("✅ Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		fmt.Println("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}

// narrativeFunc adapts the LLM client into a story-view narrative builder.
func narrativeFunc(client *llm.Client) views.NarrativeFunc {
	return func(ctx context.Context, in views.Inputs) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return client.Narrate(ctx, buildDigest(in))
	}
}

// buildDigest summarizes the derived tables into the plain-text prompt the
// narrative model sees.
func buildDigest(in views.Inputs) string {
	var b strings.Builder

	b.WriteString("Weekly search-interest summary.\n")
	for _, peak := range analytics.Peaks(in.Snapshot.Series) {
		fmt.Fprintf(&b, "%s peaked at %s on %s.\n",
			peak.Brand, helpers.FormatIndex(peak.Value), peak.Date.Format("2006-01-02"))
	}
	for brand, mean := range analytics.Means(in.Snapshot.Series) {
		fmt.Fprintf(&b, "%s mean interest: %s.\n", brand, helpers.FormatIndex(mean))
	}
	for i := 0; i < len(in.Matrix.Brands); i++ {
		for j := i + 1; j < len(in.Matrix.Brands); j++ {
			a, c := in.Matrix.Brands[i], in.Matrix.Brands[j]
			fmt.Fprintf(&b, "Correlation %s/%s: %s.\n", a, c, helpers.FormatCoefficient(in.Matrix.Coef[a][c]))
		}
	}
	if in.Snapshot.Placeholder {
		b.WriteString("Note: placeholder data, provider unavailable.\n")
	}
	return b.String()
}

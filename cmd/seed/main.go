// Command seed writes randomized interactions into the tenant
// schemas, exercising the insert and status-update paths that drive
// the live notification pipeline. Useful for watching events flow to
// connected WebSocket clients during development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Priya8975/interaction-stream/internal/config"
	"github.com/Priya8975/interaction-stream/internal/domain"
	"github.com/Priya8975/interaction-stream/internal/store"
)

var channels = []domain.InteractionChannel{
	domain.ChannelWhatsApp,
	domain.ChannelTwitter,
	domain.ChannelFacebook,
	domain.ChannelEmail,
}

var statuses = []domain.InteractionStatus{
	domain.StatusInProgress,
	domain.StatusWaitingForResponse,
	domain.StatusResolved,
	domain.StatusClosed,
}

var sampleTexts = []string{
	"Need help with my order",
	"Is this product still available?",
	"My delivery hasn't arrived yet",
	"Thanks for the great service!",
	"How do I reset my password?",
	"Can I change my subscription plan?",
}

func main() {
	count := flag.Int("count", 10, "interactions to create per tenant")
	interval := flag.Duration("interval", 500*time.Millisecond, "delay between writes")
	updates := flag.Bool("updates", true, "also apply random status updates")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	interactions := store.NewInteractionStore(pgStore, cfg.Tenants, logger)

	for _, tenant := range cfg.Tenants {
		for i := 0; i < *count; i++ {
			id, err := interactions.Create(ctx, tenant, randomInteraction())
			if err != nil {
				logger.Error("create failed", "tenant", tenant, "error", err)
				continue
			}

			if *updates && rand.Intn(2) == 0 {
				status := statuses[rand.Intn(len(statuses))]
				if _, err := interactions.UpdateStatus(ctx, tenant, id, status); err != nil {
					logger.Error("status update failed", "tenant", tenant, "id", id, "error", err)
				}
			}

			time.Sleep(*interval)
		}
		logger.Info("tenant seeded", "tenant", tenant, "count", *count)
	}
}

func randomInteraction() domain.CreateInteractionRequest {
	channel := channels[rand.Intn(len(channels))]
	return domain.CreateInteractionRequest{
		Channel:              channel,
		ChannelInteractionID: uuid.NewString(),
		UserIdentifier:       fmt.Sprintf("user_%03d", rand.Intn(1000)),
		Text:                 sampleTexts[rand.Intn(len(sampleTexts))],
	}
}

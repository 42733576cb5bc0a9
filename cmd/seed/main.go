package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hurdl/internal/app"
	"hurdl/internal/config"
	"hurdl/internal/logger"
	"hurdl/internal/model"
)

var (
	demoDepartments = []string{"Engineering", "Marketing", "Sales", "Product", "HR", "Finance"}
	demoLocations   = []string{"Remote", "HQ", "Regional Office"}
	demoTexts       = []string{
		"I'm feeling great about our team's progress.",
		"There's too much work and not enough time.",
		"My manager has been very supportive.",
		"I'm concerned about the project timeline.",
		"The workplace environment is positive and productive.",
		"Communication could be improved in our team.",
	}
)

const demoDays = 30

func main() {
	count := flag.Int("n", 50, "number of responses to insert")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, "console", "hurdl-seed")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.OpenStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to connect", zap.Error(err))
	}
	defer a.Close(context.Background())

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, r := range generate(rng, *count, time.Now().UTC()) {
		if err := a.Repo.Insert(ctx, r); err != nil {
			zl.Fatal("failed to insert response", zap.Error(err))
		}
	}
	zl.Info("demo responses inserted", zap.Int("count", *count), zap.String("store", cfg.StoreDriver))
}

// generate builds n random responses spread over the demoDays before now
func generate(rng *rand.Rand, n int, now time.Time) []*model.Response {
	out := make([]*model.Response, 0, n)
	for i := 0; i < n; i++ {
		r := &model.Response{
			ResponseID: uuid.New().String(),
			Timestamp:  now.AddDate(0, 0, -rng.Intn(demoDays)),
			Department: demoDepartments[rng.Intn(len(demoDepartments))],
			Location:   demoLocations[rng.Intn(len(demoLocations))],
		}
		for _, k := range model.ScaleKeys {
			r.SetScale(k, model.ScaleMin+rng.Intn(model.ScaleMax))
		}
		for _, k := range model.TextKeys {
			r.SetText(k, demoTexts[rng.Intn(len(demoTexts))])
		}
		out = append(out, r)
	}
	return out
}

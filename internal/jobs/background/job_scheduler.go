// Package background runs the periodic jobs behind the register: sales
// summary refresh and low stock scans.
package background

import (
	"context"
	"log"
	"sync"

	"kiranapos/internal/config"
	"kiranapos/internal/repositories"
	"kiranapos/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the recurring background jobs.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	salesService services.SalesService
	productRepo  repositories.ProductRepository
	userRepo     repositories.UserRepository
	cfg          config.JobsConfig
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

func NewJobScheduler(salesService services.SalesService, productRepo repositories.ProductRepository, userRepo repositories.UserRepository, cfg config.JobsConfig) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		salesService: salesService,
		productRepo:  productRepo,
		userRepo:     userRepo,
		cfg:          cfg,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Printf("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	summaryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.cfg.SummaryInterval),
		gocron.NewTask(js.refreshSalesSummaries, context.Background()),
		gocron.WithName("sales-summary-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("failed to create sales summary job: %v", err)
	} else {
		js.jobs["sales-summary"] = summaryJob
	}

	lowStockJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.cfg.SummaryInterval*6),
		gocron.NewTask(js.scanLowStock, context.Background()),
		gocron.WithName("low-stock-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("failed to create low stock job: %v", err)
	} else {
		js.jobs["low-stock"] = lowStockJob
	}

	log.Printf("registered %d background jobs", len(js.jobs))
}

// refreshSalesSummaries recomputes today's cached summary for every
// account so the dashboard reads stay warm.
func (js *JobScheduler) refreshSalesSummaries(ctx context.Context) {
	accountIDs, err := js.userRepo.ListAccountIDs(ctx)
	if err != nil {
		log.Printf("sales summary refresh: failed to list accounts: %v", err)
		return
	}

	for _, accountID := range accountIDs {
		if err := js.salesService.RefreshSummary(ctx, accountID); err != nil {
			log.Printf("sales summary refresh failed for account %s: %v", accountID.String(), err)
		}
	}
}

// scanLowStock logs products at or below the configured threshold.
func (js *JobScheduler) scanLowStock(ctx context.Context) {
	accountIDs, err := js.userRepo.ListAccountIDs(ctx)
	if err != nil {
		log.Printf("low stock scan: failed to list accounts: %v", err)
		return
	}

	for _, accountID := range accountIDs {
		products, err := js.productRepo.ListLowStock(ctx, accountID, js.cfg.LowStockThreshold)
		if err != nil {
			log.Printf("low stock scan failed for account %s: %v", accountID.String(), err)
			continue
		}
		for _, product := range products {
			log.Printf("low stock: account=%s product=%q stock=%d threshold=%d",
				accountID.String(), product.Name, product.Stock, js.cfg.LowStockThreshold)
		}
	}
}

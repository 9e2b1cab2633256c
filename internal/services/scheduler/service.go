// Package scheduler runs the daily gift pipeline: it finds active gift
// schedules whose occasion falls inside the lead window, reserves the
// gift cost on the user's wallet and places the storefront order.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"giftwise/internal/dates"
	"giftwise/internal/models"
	"giftwise/internal/repositories"
	"giftwise/internal/services/catalog"
	"giftwise/internal/services/ledger"
	"giftwise/internal/services/notification"

	"github.com/robfig/cron/v3"
)

// DefaultCronSpec runs the pipeline every morning at 06:00 server time.
const DefaultCronSpec = "0 6 * * *"

// RunReport summarizes one pipeline run.
type RunReport struct {
	Processed int
	Ordered   int
	Skipped   int
	Failed    int
}

// Service drives the scheduled gift pipeline.
type Service struct {
	schedules  repositories.ScheduleRepository
	recipients repositories.RecipientRepository
	ledger     ledger.Service
	catalog    catalog.Service
	notifier   notification.Notifier
	engine     *dates.Engine
	cron       *cron.Cron
	cronSpec   string
}

// NewService creates the scheduler. The cron job is not registered
// until Start is called, so tests can drive RunOnce directly.
func NewService(
	schedules repositories.ScheduleRepository,
	recipients repositories.RecipientRepository,
	ledgerSvc ledger.Service,
	catalogSvc catalog.Service,
	notifier notification.Notifier,
	engine *dates.Engine,
	cronSpec string,
) *Service {
	if schedules == nil || recipients == nil || ledgerSvc == nil || catalogSvc == nil {
		panic("scheduler requires schedule, recipient, ledger and catalog dependencies")
	}
	if notifier == nil {
		notifier = notification.NewLogNotifier()
	}
	if engine == nil {
		engine = dates.NewEngine(nil)
	}
	if cronSpec == "" {
		cronSpec = DefaultCronSpec
	}
	return &Service{
		schedules:  schedules,
		recipients: recipients,
		ledger:     ledgerSvc,
		catalog:    catalogSvc,
		notifier:   notifier,
		engine:     engine,
		cron:       cron.New(),
		cronSpec:   cronSpec,
	}
}

// Start registers the daily job and starts the cron loop.
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		report, err := s.RunOnce(context.Background())
		if err != nil {
			log.Printf("Gift pipeline run failed: %v", err)
			return
		}
		log.Printf("Gift pipeline run: processed=%d ordered=%d skipped=%d failed=%d",
			report.Processed, report.Ordered, report.Skipped, report.Failed)
	})
	if err != nil {
		return fmt.Errorf("failed to register gift pipeline job: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop. Running jobs finish.
func (s *Service) Stop() {
	s.cron.Stop()
}

// RunOnce executes a single pipeline pass over all active schedules.
// Individual schedule failures are logged and counted, never fatal to
// the run.
func (s *Service) RunOnce(ctx context.Context) (*RunReport, error) {
	active, err := s.schedules.ListByStatus(ctx, models.ScheduleStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active schedules: %w", err)
	}

	report := &RunReport{}
	for i := range active {
		schedule := &active[i]
		report.Processed++

		due, err := s.isDue(schedule)
		if err != nil {
			log.Printf("Schedule %d: %v", schedule.ID, err)
			report.Failed++
			continue
		}
		if !due {
			report.Skipped++
			continue
		}

		if err := s.process(ctx, schedule); err != nil {
			log.Printf("Schedule %d: %v", schedule.ID, err)
			report.Failed++
			continue
		}
		report.Ordered++
	}
	return report, nil
}

func (s *Service) isDue(schedule *models.GiftSchedule) (bool, error) {
	occasion, err := s.recipients.GetOccasion(schedule.OccasionID)
	if err != nil {
		return false, fmt.Errorf("failed to load occasion: %w", err)
	}
	leadDays := schedule.LeadDays
	if leadDays <= 0 {
		leadDays = 7
	}
	return s.engine.IsWithinDays(occasion.Date, leadDays), nil
}

func (s *Service) process(ctx context.Context, schedule *models.GiftSchedule) error {
	product, err := s.catalog.GetProduct(ctx, schedule.ProductID)
	if err != nil {
		s.notify(ctx, schedule.UserID, "Gift order problem",
			fmt.Sprintf("We could not look up the product for your gift schedule #%d.", schedule.ID))
		return fmt.Errorf("product lookup failed: %w", err)
	}
	if !product.Available {
		s.notify(ctx, schedule.UserID, "Gift unavailable",
			fmt.Sprintf("%s is currently unavailable; we will retry tomorrow.", product.Title))
		return fmt.Errorf("product %s unavailable", product.ID)
	}
	if product.Price > schedule.Budget {
		s.notify(ctx, schedule.UserID, "Gift over budget",
			fmt.Sprintf("%s now costs %.2f, above your %.2f budget.", product.Title, product.Price, schedule.Budget))
		return fmt.Errorf("product price %.2f exceeds budget %.2f", product.Price, schedule.Budget)
	}

	cost := ledger.CalculateGiftCost(product.Price)
	view := s.ledger.AvailableBalance(ctx, schedule.UserID)
	if view.Degraded {
		// Balance state is unknown; leave the schedule untouched and
		// let the next run retry.
		return fmt.Errorf("balance view degraded, deferring")
	}
	if view.Available < cost {
		s.notify(ctx, schedule.UserID, "Insufficient funds for scheduled gift",
			fmt.Sprintf("Your gift for schedule #%d needs %.2f but only %.2f is available.",
				schedule.ID, cost, view.Available))
		return fmt.Errorf("insufficient funds: need %.2f, available %.2f", cost, view.Available)
	}

	hold, err := s.ledger.Reserve(ctx, schedule.UserID, cost, &schedule.ID,
		fmt.Sprintf("Gift hold: %s", product.Title))
	if err != nil {
		return fmt.Errorf("failed to reserve funds: %w", err)
	}
	if err := s.schedules.UpdateStatus(schedule.ID, models.ScheduleStatusReserved); err != nil {
		return fmt.Errorf("failed to mark schedule reserved: %w", err)
	}

	recipientName := ""
	if recipient, err := s.recipients.GetByID(schedule.RecipientID); err == nil {
		recipientName = recipient.Name
	}

	order, err := s.catalog.PlaceOrder(ctx, catalog.OrderRequest{
		ProductID:     schedule.ProductID,
		RecipientName: recipientName,
	})
	if err != nil {
		// Give the money back and retry the schedule tomorrow.
		if releaseErr := s.ledger.Release(ctx, hold.Reference); releaseErr != nil {
			log.Printf("Schedule %d: failed to release hold %s: %v",
				schedule.ID, hold.Reference, releaseErr)
		}
		if statusErr := s.schedules.UpdateStatus(schedule.ID, models.ScheduleStatusActive); statusErr != nil {
			log.Printf("Schedule %d: failed to reactivate: %v", schedule.ID, statusErr)
		}
		return fmt.Errorf("failed to place order: %w", err)
	}

	if err := s.ledger.Settle(ctx, hold.Reference); err != nil {
		// The order is placed; keep it and surface the ledger problem.
		return fmt.Errorf("order %s placed but settlement failed: %w", order.Reference, err)
	}

	schedule.Status = models.ScheduleStatusOrdered
	schedule.OrderRef = order.Reference
	schedule.DeliveryDate = order.DeliveryDate
	if err := s.schedules.Update(schedule); err != nil {
		return fmt.Errorf("order %s placed but schedule update failed: %w", order.Reference, err)
	}

	s.notify(ctx, schedule.UserID, "Gift ordered",
		fmt.Sprintf("%s is on its way to %s, expected %s.", product.Title, recipientName, order.DeliveryDate))
	return nil
}

func (s *Service) notify(ctx context.Context, userID uint, subject, body string) {
	if err := s.notifier.Notify(ctx, userID, subject, body); err != nil {
		log.Printf("Failed to notify user %d: %v", userID, err)
	}
}

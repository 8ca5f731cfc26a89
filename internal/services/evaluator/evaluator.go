package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/solofarma/alerts/internal/metrics"
	"github.com/solofarma/alerts/internal/models"
	"github.com/solofarma/alerts/internal/repository"
)

// AlertStore is the narrow persistence surface the evaluation job depends on.
type AlertStore interface {
	// ActiveAlerts returns every armed, not-yet-notified alert.
	ActiveAlerts(ctx context.Context) ([]models.Alert, error)
	// ProductsByIDs returns the products matching the given id set.
	ProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	// UsersByIDs returns the users matching the given id set.
	UsersByIDs(ctx context.Context, ids []int64) ([]models.User, error)
	// LatestPrice returns the most recent price observation for a product,
	// or repository.ErrNoPriceData when none exists.
	LatestPrice(ctx context.Context, productID int64) (*models.PriceObservation, error)
	// MarkNotified flags the alert as sent for the current arming cycle.
	MarkNotified(ctx context.Context, alertID int64) error
	// Deactivate disarms the alert.
	Deactivate(ctx context.Context, alertID int64) error
}

// Notifier delivers a price-drop notification to a single recipient.
// Implementations report delivery failure as false, never as an error.
type Notifier interface {
	SendPriceAlert(ctx context.Context, payload models.NotificationPayload) bool
}

// Evaluator is the orchestrator that performs one full alert evaluation pass.
type Evaluator struct {
	log      *slog.Logger
	store    AlertStore
	notifier Notifier
}

type Interface interface {
	// Run performs one full evaluation pass over the active alerts.
	Run(ctx context.Context) (*models.Report, error)
}

// New creates a new Evaluator instance.
func New(log *slog.Logger, store AlertStore, notifier Notifier) *Evaluator {
	return &Evaluator{log: log, store: store, notifier: notifier}
}

// Run loads the active, unsent alerts, joins them against their products and
// users, evaluates each one independently and returns the aggregate report.
// Per-alert problems never abort the run; only a failure loading the
// candidate set itself returns an error.
func (e *Evaluator) Run(ctx context.Context) (*models.Report, error) {
	const opn = "evaluator.Run"
	log := e.log.With("op", opn)
	start := time.Now()

	alerts, err := e.store.ActiveAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to fetch active alerts: %w", opn, err)
	}

	report := &models.Report{TotalAlerts: len(alerts), Results: []models.Result{}}
	if len(alerts) == 0 {
		log.InfoContext(ctx, "No active alerts to evaluate")
		return report, nil
	}
	log.InfoContext(ctx, "Fetched active alerts", "count", len(alerts))

	enriched, err := e.enrich(ctx, alerts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	for _, alert := range enriched {
		res := e.evaluate(ctx, alert)
		if res.Outcome == models.OutcomeSent {
			report.Sent++
		}
		report.Results = append(report.Results, res)
		metrics.AlertOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	}
	report.Processed = len(report.Results)

	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	log.InfoContext(ctx, "Evaluation run complete",
		"total", report.TotalAlerts, "processed", report.Processed, "sent", report.Sent)

	return report, nil
}

// enrich performs the two batched reads and the in-memory join. Failures here
// happen before any alert has been evaluated, so they abort the run.
func (e *Evaluator) enrich(ctx context.Context, alerts []models.Alert) ([]models.EnrichedAlert, error) {
	productIDs := collectIDs(alerts, func(a models.Alert) int64 { return a.ProductID })
	userIDs := collectIDs(alerts, func(a models.Alert) int64 { return a.UserID })

	products, err := e.store.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch related products: %w", err)
	}

	users, err := e.store.UsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch related users: %w", err)
	}

	productByID := buildLookup(products, func(p models.Product) int64 { return p.ID })
	userByID := buildLookup(users, func(u models.User) int64 { return u.ID })

	return resolveAlerts(alerts, productByID, userByID), nil
}

// evaluate classifies a single alert and applies its state transition. Every
// failure is contained in the returned result; nothing propagates to the
// caller's loop.
func (e *Evaluator) evaluate(ctx context.Context, alert models.EnrichedAlert) models.Result {
	res := models.Result{AlertID: alert.ID}

	if alert.Product == nil || alert.User == nil {
		res.Outcome = models.OutcomeIncomplete
		return res
	}
	res.Product = alert.Product.Name
	res.Pharmacy = alert.Product.Pharmacy

	obs, err := e.store.LatestPrice(ctx, alert.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNoPriceData) {
			res.Outcome = models.OutcomeNoPrice
			return res
		}
		res.Outcome = models.OutcomeError
		res.Error = err.Error()
		return res
	}
	if strings.TrimSpace(obs.CurrentPrice) == "" {
		res.Outcome = models.OutcomeNoPrice
		return res
	}

	current, errCurrent := parsePrice(obs.CurrentPrice)
	armed, errArmed := parsePrice(alert.ArmedPrice)
	if errCurrent != nil || errArmed != nil {
		res.Outcome = models.OutcomeInvalidPrices
		return res
	}
	res.PreviousPrice = &armed
	res.CurrentPrice = &current

	if current >= armed {
		diff := current - armed
		res.Outcome = models.OutcomeUnchanged
		res.Difference = &diff
		return res
	}

	discount := armed - current
	percent := round1(discount / armed * 100)

	payload := models.NotificationPayload{
		Recipient:       alert.User.Email,
		UserName:        alert.User.Name,
		Product:         *alert.Product,
		PreviousPrice:   armed,
		CurrentPrice:    current,
		Discount:        discount,
		DiscountPercent: percent,
	}

	if !e.notifier.SendPriceAlert(ctx, payload) {
		// The alert stays armed and unsent, so the next run retries.
		res.Outcome = models.OutcomeDeliveryFailed
		return res
	}
	res.Discount = &discount
	res.DiscountPercent = &percent
	res.Recipient = alert.User.Email

	// Mark before deactivating: an interruption in between leaves a
	// notified-but-active row, which the candidate filter already excludes
	// from future runs, so the email is never sent twice.
	if err = e.store.MarkNotified(ctx, alert.ID); err != nil {
		e.log.ErrorContext(ctx, "Failed to mark alert as notified after delivery",
			"alert_id", alert.ID, "error", err)
		res.Outcome = models.OutcomeError
		res.Error = err.Error()
		return res
	}
	if err = e.store.Deactivate(ctx, alert.ID); err != nil {
		e.log.ErrorContext(ctx, "Failed to deactivate alert after delivery",
			"alert_id", alert.ID, "error", err)
		res.Outcome = models.OutcomeError
		res.Error = err.Error()
		return res
	}

	res.Outcome = models.OutcomeSent
	return res
}

// parsePrice converts a stored price to a finite float64.
func parsePrice(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number: %w", raw, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("price %q is not finite", raw)
	}
	return value, nil
}

// round1 rounds to one decimal place.
func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

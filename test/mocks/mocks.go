// Package mocks provides testify mocks for the collaborator interfaces of
// the evaluation job and the HTTP transport.
package mocks

import (
	"context"

	"github.com/solofarma/alerts/internal/models"
	"github.com/stretchr/testify/mock"
)

// AlertStore mocks evaluator.AlertStore.
type AlertStore struct {
	mock.Mock
}

func (m *AlertStore) ActiveAlerts(ctx context.Context) ([]models.Alert, error) {
	args := m.Called(ctx)
	alerts, _ := args.Get(0).([]models.Alert)
	return alerts, args.Error(1)
}

func (m *AlertStore) ProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *AlertStore) UsersByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *AlertStore) LatestPrice(ctx context.Context, productID int64) (*models.PriceObservation, error) {
	args := m.Called(ctx, productID)
	obs, _ := args.Get(0).(*models.PriceObservation)
	return obs, args.Error(1)
}

func (m *AlertStore) MarkNotified(ctx context.Context, alertID int64) error {
	args := m.Called(ctx, alertID)
	return args.Error(0)
}

func (m *AlertStore) Deactivate(ctx context.Context, alertID int64) error {
	args := m.Called(ctx, alertID)
	return args.Error(0)
}

// Notifier mocks evaluator.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) SendPriceAlert(ctx context.Context, payload models.NotificationPayload) bool {
	args := m.Called(ctx, payload)
	return args.Bool(0)
}

// Evaluator mocks server.Evaluator.
type Evaluator struct {
	mock.Mock
}

func (m *Evaluator) Run(ctx context.Context) (*models.Report, error) {
	args := m.Called(ctx)
	report, _ := args.Get(0).(*models.Report)
	return report, args.Error(1)
}

// ToggleStore mocks server.AlertStore.
type ToggleStore struct {
	mock.Mock
}

func (m *ToggleStore) SetAlertState(
	ctx context.Context,
	userID, productID int64,
	active bool,
	armedPrice string,
) (*models.Alert, error) {
	args := m.Called(ctx, userID, productID, active, armedPrice)
	alert, _ := args.Get(0).(*models.Alert)
	return alert, args.Error(1)
}

func (m *ToggleStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

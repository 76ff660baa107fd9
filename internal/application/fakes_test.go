package application_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

// --- Mock implementations ---

type mockDirectory struct {
	apps  []model.Application
	err   error
	calls int
}

func (m *mockDirectory) FetchApplications(_ context.Context) ([]model.Application, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.apps, nil
}

type mockNotifier struct {
	name   string
	mu     sync.Mutex
	sent   []model.ExpiringApplication
	failOn map[string]bool // key IDs whose delivery fails
}

func (m *mockNotifier) Name() string { return m.name }

func (m *mockNotifier) Notify(_ context.Context, exp model.ExpiringApplication) error {
	if m.failOn[exp.KeyID] {
		return errors.New("sink returned 500")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, exp)
	return nil
}

func (m *mockNotifier) keyIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sent))
	for _, exp := range m.sent {
		ids = append(ids, exp.KeyID)
	}
	return ids
}

type deliveryCall struct {
	sink string
	err  error
}

type mockObserver struct {
	mu         sync.Mutex
	reports    []model.RunReport
	deliveries []deliveryCall
}

func (m *mockObserver) ObserveRun(report model.RunReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
}

func (m *mockObserver) ObserveDelivery(sink string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, deliveryCall{sink: sink, err: err})
}

// --- Fixtures ---

// fixedNow is a UTC-midnight-aligned reference time.
var fixedNow = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

func credential(keyID, credType string, expiresIn int) model.Credential {
	expiry := fixedNow.AddDate(0, 0, expiresIn)
	return model.Credential{
		KeyID:       keyID,
		Type:        credType,
		EndDateTime: expiry.Format("2006-01-02T15:04:05Z"),
		ExpiresAt:   &expiry,
	}
}

package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/spexpiry/internal/application"
	"github.com/ericfisherdev/spexpiry/internal/domain/model"
	"github.com/ericfisherdev/spexpiry/internal/domain/port/driven"
)

func newCheckService(dir *mockDirectory, observer *mockObserver, notifiers ...driven.Notifier) *application.CheckService {
	var obs driven.RunObserver
	if observer != nil {
		obs = observer
	}

	dispatcher := application.NewDispatcher(notifiers, 2, obs)
	return application.NewCheckService(dir, dispatcher, obs).
		WithClock(func() time.Time { return fixedNow })
}

func TestRun_KeyCredentialSevenDays(t *testing.T) {
	cred := credential("key-7", "AsymmetricX509Cert", 7)
	dir := &mockDirectory{apps: []model.Application{{
		ID:             "00000000-aaaa",
		DisplayName:    "payments",
		KeyCredentials: []model.Credential{cred},
	}}}
	teams := &mockNotifier{name: "teams"}

	report := newCheckService(dir, nil, teams).Run(context.Background(), model.Trigger{Source: "cli"})

	require.NoError(t, report.Err)
	require.Len(t, teams.sent, 1)
	assert.Equal(t, 7, teams.sent[0].DaysToExpire)
	assert.Equal(t, cred.EndDateTime, teams.sent[0].EndDateTime)
	assert.Equal(t, "AsymmetricX509Cert", teams.sent[0].KeyType)
	assert.Equal(t, 1, report.Applications)
	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 0, report.Failed)
}

func TestRun_PasswordCredentialTenDays(t *testing.T) {
	dir := &mockDirectory{apps: []model.Application{{
		ID:                  "app-pw",
		DisplayName:         "crm",
		PasswordCredentials: []model.Credential{credential("pw-10", "", 10)},
	}}}
	teams := &mockNotifier{name: "teams"}

	report := newCheckService(dir, nil, teams).Run(context.Background(), model.Trigger{Source: "cli"})

	require.True(t, report.OK())
	require.Len(t, teams.sent, 1)
	assert.Equal(t, "Password", teams.sent[0].KeyType)
	assert.Equal(t, 10, teams.sent[0].DaysToExpire)
}

func TestRun_FetchFailureSendsNothing(t *testing.T) {
	dir := &mockDirectory{err: errors.New("acquiring token: invalid_client")}
	teams := &mockNotifier{name: "teams"}
	observer := &mockObserver{}

	var report model.RunReport
	require.NotPanics(t, func() {
		report = newCheckService(dir, observer, teams).Run(context.Background(), model.Trigger{Source: "timer"})
	})

	require.Error(t, report.Err)
	assert.False(t, report.OK())
	assert.Empty(t, teams.sent)
	assert.Empty(t, report.Expiring)
	require.Len(t, observer.reports, 1)
	assert.Error(t, observer.reports[0].Err)
	assert.Empty(t, observer.deliveries)
}

func TestRun_OneDeliveryFailureDoesNotStopOthers(t *testing.T) {
	dir := &mockDirectory{apps: []model.Application{{
		ID: "app",
		KeyCredentials: []model.Credential{
			credential("bad", "Symmetric", 1),
			credential("good", "Symmetric", 2),
		},
	}}}
	teams := &mockNotifier{name: "teams", failOn: map[string]bool{"bad": true}}
	observer := &mockObserver{}

	report := newCheckService(dir, observer, teams).Run(context.Background(), model.Trigger{Source: "timer"})

	require.NoError(t, report.Err)
	assert.Equal(t, []string{"good"}, teams.keyIDs())
	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, observer.deliveries, 2)
}

func TestRun_NothingDue(t *testing.T) {
	dir := &mockDirectory{apps: []model.Application{
		{ID: "no-creds"},
		{ID: "far-away", KeyCredentials: []model.Credential{credential("k", "Symmetric", 45)}},
	}}
	teams := &mockNotifier{name: "teams"}
	observer := &mockObserver{}

	report := newCheckService(dir, observer, teams).Run(context.Background(), model.Trigger{Source: "timer"})

	require.NoError(t, report.Err)
	assert.Equal(t, 2, report.Applications)
	assert.Empty(t, report.Expiring)
	assert.Empty(t, teams.sent)
	assert.Len(t, observer.reports, 1)
}

func TestRun_EveryNotifierReceivesEveryRecord(t *testing.T) {
	dir := &mockDirectory{apps: []model.Application{{
		ID:                  "app",
		KeyCredentials:      []model.Credential{credential("k1", "Symmetric", 3)},
		PasswordCredentials: []model.Credential{credential("p1", "", 5)},
	}}}
	teams := &mockNotifier{name: "teams"}
	github := &mockNotifier{name: "github"}

	report := newCheckService(dir, nil, teams, github).Run(context.Background(), model.Trigger{Source: "cli"})

	assert.Equal(t, 4, report.Delivered)
	assert.ElementsMatch(t, []string{"k1", "p1"}, teams.keyIDs())
	assert.ElementsMatch(t, []string{"k1", "p1"}, github.keyIDs())
}

func TestRun_Idempotent(t *testing.T) {
	dir := &mockDirectory{apps: []model.Application{
		{ID: "a", KeyCredentials: []model.Credential{credential("k1", "Symmetric", 0), credential("k2", "Symmetric", 20)}},
		{ID: "b", PasswordCredentials: []model.Credential{credential("p1", "", 25)}},
	}}

	first := &mockNotifier{name: "teams"}
	second := &mockNotifier{name: "teams"}

	r1 := newCheckService(dir, nil, first).Run(context.Background(), model.Trigger{Source: "cli"})
	r2 := newCheckService(dir, nil, second).Run(context.Background(), model.Trigger{Source: "cli"})

	assert.Equal(t, r1.Expiring, r2.Expiring)
	assert.ElementsMatch(t, first.sent, second.sent)
	assert.Equal(t, 2, dir.calls)
}

func TestRun_PastDueTriggerStillRuns(t *testing.T) {
	dir := &mockDirectory{apps: []model.Application{{
		ID:             "app",
		KeyCredentials: []model.Credential{credential("k", "Symmetric", 14)},
	}}}
	teams := &mockNotifier{name: "teams"}

	report := newCheckService(dir, nil, teams).Run(context.Background(), model.Trigger{Source: "timer", IsPastDue: true})

	assert.True(t, report.Trigger.IsPastDue)
	assert.Len(t, teams.sent, 1)
}

func TestPreview_DoesNotNotify(t *testing.T) {
	dir := &mockDirectory{apps: []model.Application{{
		ID:             "app",
		KeyCredentials: []model.Credential{credential("k", "Symmetric", 2)},
	}}}
	teams := &mockNotifier{name: "teams"}
	observer := &mockObserver{}

	expiring, apps, err := newCheckService(dir, observer, teams).Preview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, apps)
	require.Len(t, expiring, 1)
	assert.Equal(t, 2, expiring[0].DaysToExpire)
	assert.Empty(t, teams.sent)
	assert.Empty(t, observer.reports)
}

func TestPreview_FetchError(t *testing.T) {
	dir := &mockDirectory{err: errors.New("boom")}

	expiring, _, err := newCheckService(dir, nil).Preview(context.Background())

	require.Error(t, err)
	assert.Nil(t, expiring)
}

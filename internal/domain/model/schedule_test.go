package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

func ptr(t time.Time) *time.Time { return &t }

func TestDaysToExpire_ScheduledOffsets(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	for _, d := range model.WarningSchedule {
		expiry := now.AddDate(0, 0, d)
		assert.Equal(t, d, model.DaysToExpire(now, &expiry), "offset %d", d)
	}
}

func TestDaysToExpire_UnscheduledOffsets(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	for _, d := range []int{4, 6, 8, 9, 11, 12, 13, 15, 19, 21, 24, 26, 29, 31, 90} {
		expiry := now.AddDate(0, 0, d)
		assert.Equal(t, model.NotDue, model.DaysToExpire(now, &expiry), "offset %d", d)
	}
}

func TestDaysToExpire_Expired(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, model.NotDue, model.DaysToExpire(now, ptr(now.AddDate(0, 0, -1))))
	assert.Equal(t, model.NotDue, model.DaysToExpire(now, ptr(now.AddDate(-1, 0, 0))))
}

func TestDaysToExpire_NilExpiry(t *testing.T) {
	assert.Equal(t, model.NotDue, model.DaysToExpire(time.Now(), nil))
}

func TestDaysToExpire_IgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, model.DaysToExpire(now, ptr(now.AddDate(0, 0, 3))))
	assert.Equal(t, 3, model.DaysToExpire(now, ptr(now.AddDate(0, 0, 3).Add(5*time.Hour))))
	assert.Equal(t, 3, model.DaysToExpire(now.Add(23*time.Hour), ptr(now.AddDate(0, 0, 3))))

	// 30.5 days from midnight lands on day 30.
	assert.Equal(t, 30, model.DaysToExpire(now, ptr(now.AddDate(0, 0, 30).Add(12*time.Hour))))
	// 30.5 days from noon crosses into day 31.
	noon := now.Add(12 * time.Hour)
	assert.Equal(t, model.NotDue, model.DaysToExpire(noon, ptr(noon.AddDate(0, 0, 30).Add(12*time.Hour))))
}

func TestDaysToExpire_ComparesInUTC(t *testing.T) {
	tz := time.FixedZone("UTC+10", 10*60*60)
	// 2026-03-10 23:00 UTC is already 2026-03-11 in UTC+10.
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, tz)
	expiry := time.Date(2026, 3, 17, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 7, model.DaysToExpire(now, &expiry))
}

func TestDaysToExpire_SameDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	expiry := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, model.DaysToExpire(now, &expiry))
}

func TestTruncateToDay(t *testing.T) {
	got := model.TruncateToDay(time.Date(2026, 1, 31, 16, 54, 12, 99, time.UTC))
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), got)
}

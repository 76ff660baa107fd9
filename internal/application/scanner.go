package application

import (
	"time"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

// ScanApplication returns one record per credential of app whose expiry falls
// on the warning schedule relative to now. Key credentials are scanned before
// password credentials, each list in directory order.
func ScanApplication(app model.Application, now time.Time) []model.ExpiringApplication {
	if !app.HasCredentials() {
		return nil
	}

	var expiring []model.ExpiringApplication
	for _, cred := range app.Credentials() {
		days := model.DaysToExpire(now, cred.ExpiresAt)
		if days < 0 {
			continue
		}

		expiring = append(expiring, model.ExpiringApplication{
			ID:           app.ID,
			DisplayName:  app.DisplayName,
			KeyID:        cred.KeyID,
			KeyType:      cred.TypeOrDefault(),
			DaysToExpire: days,
			EndDateTime:  cred.EndDateTime,
		})
	}

	return expiring
}

// ScanAll concatenates ScanApplication results for apps in input order. The
// result is never nil.
func ScanAll(apps []model.Application, now time.Time) []model.ExpiringApplication {
	expiring := []model.ExpiringApplication{}
	for _, app := range apps {
		expiring = append(expiring, ScanApplication(app, now)...)
	}
	return expiring
}

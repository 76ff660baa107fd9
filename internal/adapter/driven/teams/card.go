package teams

import (
	"fmt"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

const (
	cardSummary    = "Service Principal Expiration Warning!"
	cardThemeColor = "0078D7"
)

// MessageCard is the legacy Office 365 connector card accepted by Teams
// incoming webhooks.
type MessageCard struct {
	Type       string    `json:"@type"`
	Context    string    `json:"@context"`
	Summary    string    `json:"summary"`
	ThemeColor string    `json:"themeColor"`
	Sections   []Section `json:"sections"`
}

// Section is one block of a MessageCard.
type Section struct {
	ActivityTitle string `json:"activityTitle"`
	Facts         []Fact `json:"facts"`
}

// Fact is a name/value row rendered as a two-column table.
type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewExpirationCard builds the warning card for one expiring credential. The
// expiry timestamp is passed through exactly as the directory returned it.
func NewExpirationCard(exp model.ExpiringApplication) MessageCard {
	return MessageCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		Summary:    cardSummary,
		ThemeColor: cardThemeColor,
		Sections: []Section{
			{
				ActivityTitle: fmt.Sprintf("Service Principal Expires in %d days!", exp.DaysToExpire),
				Facts: []Fact{
					{Name: "Application Name", Value: exp.DisplayName},
					{Name: "Application ID", Value: exp.ID},
					{Name: "Key Type", Value: exp.KeyType},
					{Name: "Key ID", Value: exp.KeyID},
					{Name: "Expires at", Value: exp.EndDateTime},
				},
			},
		},
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/scylladb/termtables"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

type scanOutput struct {
	Applications int              `json:"applications"`
	Credentials  []scanCredential `json:"credentials"`
}

// scanCredential mirrors model.ExpiringApplication field for field.
type scanCredential struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	KeyID        string `json:"keyId"`
	KeyType      string `json:"keyType"`
	DaysToExpire int    `json:"daysToExpire"`
	EndDateTime  string `json:"endDateTime"`
}

// printExpiring writes the scan result in the chosen format.
func printExpiring(w io.Writer, format string, expiring []model.ExpiringApplication, apps int) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		out := scanOutput{Applications: apps, Credentials: make([]scanCredential, 0, len(expiring))}
		for _, exp := range expiring {
			out.Credentials = append(out.Credentials, scanCredential(exp))
		}
		return enc.Encode(out)
	case "table":
		_, err := io.WriteString(w, renderTable(expiring, apps))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderTable(expiring []model.ExpiringApplication, apps int) string {
	if len(expiring) == 0 {
		return fmt.Sprintf("No credentials due for a warning today (%d applications scanned).\n", apps)
	}

	table := termtables.CreateTable()
	table.AddHeaders("Days", "Application", "Application ID", "Key Type", "Key ID", "Expires at")
	for _, exp := range expiring {
		table.AddRow(
			strconv.Itoa(exp.DaysToExpire),
			exp.DisplayName,
			exp.ID,
			exp.KeyType,
			exp.KeyID,
			exp.EndDateTime,
		)
	}

	return table.Render() + fmt.Sprintf("%d credentials due across %d applications scanned.\n", len(expiring), apps)
}

package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// InvokeRequest is the body the Functions host posts to a custom handler.
// Data is keyed by binding name.
type InvokeRequest struct {
	Data     map[string]json.RawMessage `json:"Data"`
	Metadata map[string]json.RawMessage `json:"Metadata"`
}

// TimerInfo is the timer trigger binding payload.
type TimerInfo struct {
	IsPastDue bool `json:"IsPastDue"`
}

// timerPastDue reports whether any timer binding in the invocation is past
// due. Binding data may arrive as an object or as a JSON-encoded string.
func (r InvokeRequest) timerPastDue() bool {
	for _, raw := range r.Data {
		var info TimerInfo
		if err := json.Unmarshal(raw, &info); err == nil {
			if info.IsPastDue {
				return true
			}
			continue
		}

		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(encoded), &info); err == nil && info.IsPastDue {
			return true
		}
	}
	return false
}

// InvokeResponse is the body a custom handler returns to the Functions host.
type InvokeResponse struct {
	Outputs     map[string]any `json:"Outputs"`
	Logs        []string       `json:"Logs"`
	ReturnValue any            `json:"ReturnValue"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ExpiringResponse is the JSON representation of one due credential.
type ExpiringResponse struct {
	ApplicationID   string `json:"application_id"`
	ApplicationName string `json:"application_name"`
	KeyID           string `json:"key_id"`
	KeyType         string `json:"key_type"`
	DaysToExpire    int    `json:"days_to_expire"`
	EndDateTime     string `json:"end_date_time"`
}

// ExpiringListResponse is the body of the expiring credentials listing.
type ExpiringListResponse struct {
	Applications int                `json:"applications"`
	Credentials  []ExpiringResponse `json:"credentials"`
}

func toExpiringResponse(exp model.ExpiringApplication) ExpiringResponse {
	return ExpiringResponse{
		ApplicationID:   exp.ID,
		ApplicationName: exp.DisplayName,
		KeyID:           exp.KeyID,
		KeyType:         exp.KeyType,
		DaysToExpire:    exp.DaysToExpire,
		EndDateTime:     exp.EndDateTime,
	}
}

package webhook

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Notification is the canonical form every recognized payload shape is
// normalized into before any control flow runs.
type Notification struct {
	TransactionID string
	RawStatus     string
}

// The gateway's callback shape is not contractually stable. These tables
// are data, not branching logic: new field spellings and status synonyms
// get appended here without touching the reconciler.
var (
	// transactionIDFields in priority order; first non-empty wins.
	transactionIDFields = []string{"idtransaction", "id_transaction", "identifier", "externalreference"}

	statusFields = []string{"status", "payment_status"}
)

// SynonymSet maps provider status spellings onto one local outcome.
type SynonymSet []string

func (s SynonymSet) contains(status string) bool {
	for _, v := range s {
		if v == status {
			return true
		}
	}
	return false
}

type Classifier struct {
	Paid   SynonymSet
	Failed SynonymSet
}

// DefaultClassifier carries every spelling the gateway has been observed
// to send across integrations.
func DefaultClassifier() Classifier {
	return Classifier{
		Paid:   SynonymSet{"PAID", "PAID_OUT", "CONFIRMED", "APROVADO", "COMPLETED", "SUCCEEDED"},
		Failed: SynonymSet{"FAILED", "CANCELLED", "RECUSADO"},
	}
}

type Outcome string

const (
	OutcomePaid    Outcome = "PAID"
	OutcomeFailed  Outcome = "FAILED"
	OutcomePending Outcome = "PENDING"
)

// Classify maps a normalized status onto a local outcome. Unknown statuses
// leave the order untouched.
func (c Classifier) Classify(rawStatus string) Outcome {
	switch {
	case c.Paid.contains(rawStatus):
		return OutcomePaid
	case c.Failed.contains(rawStatus):
		return OutcomeFailed
	default:
		return OutcomePending
	}
}

// ParseNotification decodes a callback body into the canonical form. The
// provider sometimes wraps the real payload in a "data" envelope; that is
// unwrapped first. An error means the body is not structurally valid JSON.
func ParseNotification(raw []byte) (*Notification, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("webhook: payload is not valid JSON: %w", err)
	}

	payload := body
	if inner, ok := body["data"].(map[string]interface{}); ok {
		payload = inner
	}

	n := &Notification{}
	for _, field := range transactionIDFields {
		if v := stringValue(payload[field]); v != "" {
			n.TransactionID = v
			break
		}
	}
	for _, field := range statusFields {
		if v := stringValue(payload[field]); v != "" {
			n.RawStatus = strings.ToUpper(v)
			break
		}
	}

	return n, nil
}

// stringValue renders the loose JSON value the provider sends; transaction
// ids have arrived as both strings and numbers.
func stringValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

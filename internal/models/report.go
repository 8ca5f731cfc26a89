package models

// Outcome classifies the result of evaluating a single alert. The set is
// closed: every evaluated alert maps to exactly one of these.
type Outcome string

const (
	// OutcomeIncomplete - the alert's product or user could not be resolved.
	OutcomeIncomplete Outcome = "incomplete"
	// OutcomeNoPrice - no current price observation exists for the product.
	OutcomeNoPrice Outcome = "no_current_price"
	// OutcomeInvalidPrices - the current or armed price is not a finite number.
	OutcomeInvalidPrices Outcome = "invalid_prices"
	// OutcomeSent - the price dropped and the notification was delivered.
	OutcomeSent Outcome = "sent"
	// OutcomeDeliveryFailed - the price dropped but delivery failed; the alert
	// stays armed so a later run retries.
	OutcomeDeliveryFailed Outcome = "delivery_failed"
	// OutcomeUnchanged - the current price is equal to or above the armed price.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeError - an unexpected failure while evaluating this one alert.
	OutcomeError Outcome = "error"
)

// Result is the per-alert entry of an evaluation report. Optional fields are
// populated depending on the outcome.
type Result struct {
	AlertID         int64    `json:"alertId"`
	Outcome         Outcome  `json:"outcome"`
	Product         string   `json:"product,omitempty"`
	Pharmacy        string   `json:"pharmacy,omitempty"`
	PreviousPrice   *float64 `json:"previousPrice,omitempty"`
	CurrentPrice    *float64 `json:"currentPrice,omitempty"`
	Discount        *float64 `json:"discount,omitempty"`
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
	Difference      *float64 `json:"difference,omitempty"`
	Recipient       string   `json:"recipient,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Report is the aggregate outcome of one evaluation run.
type Report struct {
	TotalAlerts int      `json:"totalAlerts"`
	Processed   int      `json:"processed"`
	Sent        int      `json:"sent"`
	Results     []Result `json:"results"`
}

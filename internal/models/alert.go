package models

import "time"

// Alert is a persisted (user, product) price monitoring relation.
// ArmedPrice holds the price snapshot taken when the alert was activated;
// it stays numeric-as-text until the evaluation job parses it.
type Alert struct {
	ID         int64  `json:"id"`
	ProductID  int64  `json:"productId"`
	UserID     int64  `json:"userId"`
	ArmedPrice string `json:"armedPrice"`
	Active     bool   `json:"active"`
	Notified   bool   `json:"notified"`
}

// Product describes a monitored pharmacy item. Read-only for the evaluation job.
type Product struct {
	ID           int64
	Name         string
	Manufacturer string
	Presentation string
	Pharmacy     string
	URL          string
	ImageURL     string
}

// User is an alert subscriber.
type User struct {
	ID    int64
	Name  string
	Email string
}

// PriceObservation is one timestamped price reading for a product, produced
// by the ingestion feed. The job only ever consumes the most recent one.
type PriceObservation struct {
	ProductID    int64
	CurrentPrice string
	NormalPrice  string
	ObservedAt   time.Time
}

// EnrichedAlert is an alert joined with its related entities. Product or User
// is nil when the referenced record could not be resolved.
type EnrichedAlert struct {
	Alert
	Product *Product
	User    *User
}

// NotificationPayload carries the fully resolved data for one price-drop
// email. It is derived per alert and never persisted.
type NotificationPayload struct {
	Recipient       string
	UserName        string
	Product         Product
	PreviousPrice   float64
	CurrentPrice    float64
	Discount        float64
	DiscountPercent float64
}

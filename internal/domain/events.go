package domain

// BackgroundMessage is handed to background workers (e.g. welcome email
// after sign-up). Delivery is fire-and-forget.
type BackgroundMessage struct {
	MessageName string `json:"messageName"`
	EntityID    string `json:"entityId"`
	EntityType  string `json:"entityType"`
}

// AnalyticsEvent mirrors entity changes into the analytics pipeline.
// Delivery is fire-and-forget.
type AnalyticsEvent struct {
	EventName       string `json:"eventName"`
	EntityID        string `json:"entityId"`
	EntityType      string `json:"entityType"`
	TypeOfOperation string `json:"typeOfOperation"`
}

package domain

import "time"

const AccessRequestPending = "PENDING"

// AccessRequest is a prospective user's request for an account.
type AccessRequest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

const NotificationAccessRequest = "access_request"

// Notification is a job handed to the outbound notifier. Key groups jobs
// that must be delivered in order.
type Notification struct {
	Kind      string            `json:"kind"`
	Key       string            `json:"key"`
	To        string            `json:"to,omitempty"`
	Subject   string            `json:"subject"`
	Payload   map[string]string `json:"payload"`
	CreatedAt time.Time         `json:"createdAt"`
}

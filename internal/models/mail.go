package models

// ActivationMail is the message published to the mailer queue after a
// tenant is provisioned. The sender worker renders and delivers it.
type ActivationMail struct {
	OrderID       int     `json:"order_id"`
	TenantID      int     `json:"tenant_id"`
	TenantName    string  `json:"tenant_name"`
	PlanName      string  `json:"plan_name"`
	TotalAmount   float64 `json:"total_amount"`
	Email         string  `json:"email"`
	ActivationURL string  `json:"activation_url"`
}

package asaas

// Customer is the Asaas customer record used by checkout.
type Customer struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	MobilePhone string `json:"mobilePhone,omitempty"`
}

type customerListResponse struct {
	Data []Customer `json:"data"`
}

// CreatePaymentRequest is the body of POST /payments.
type CreatePaymentRequest struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference"`
	InstallmentCount  int     `json:"installmentCount,omitempty"`
	InstallmentValue  float64 `json:"installmentValue,omitempty"`
}

// CreatePaymentResponse is the gateway answer for a created charge.
type CreatePaymentResponse struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	Value             float64 `json:"value"`
	InvoiceURL        string  `json:"invoiceUrl"`
	BankSlipURL       string  `json:"bankSlipUrl,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
}

// WebhookEvent is the payload Asaas posts to the webhook endpoint.
type WebhookEvent struct {
	Event   string         `json:"event"`
	Payment WebhookPayment `json:"payment"`
}

// WebhookPayment is the payment object inside a webhook event.
type WebhookPayment struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	Value             float64 `json:"value"`
	ExternalReference string  `json:"externalReference"`
}

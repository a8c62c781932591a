// Package asaas implements the billing gateway client used by checkout.
package asaas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrGateway marks failures talking to the billing gateway so handlers
// can answer 502 instead of 500.
var ErrGateway = errors.New("billing gateway error")

const orderReferencePrefix = "order:"

type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient creates an Asaas API client.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(method, path string, body any) (*http.Request, error) {
	reqURL := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, reqURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("access_token", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: unexpected status %s", ErrGateway, resp.Status)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", ErrGateway, err)
		}
	}
	return nil
}

// findOrCreateCustomer resolves the Asaas customer for an email, creating
// one when the lookup comes back empty.
func (c *Client) findOrCreateCustomer(name, email, mobilePhone string) (string, error) {
	req, err := c.newRequest("GET", "/customers?email="+url.QueryEscape(email), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	var list customerListResponse
	if err := c.do(req, &list); err != nil {
		return "", err
	}
	if len(list.Data) > 0 {
		return list.Data[0].ID, nil
	}

	req, err = c.newRequest("POST", "/customers", Customer{
		Name:        name,
		Email:       email,
		MobilePhone: mobilePhone,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	var created Customer
	if err := c.do(req, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// CreatePayment creates a charge for an order and returns the provider
// payment id and the hosted invoice URL.
func (c *Client) CreatePayment(orderID int, customerName, customerEmail, customerWhatsapp, description string, totalAmount float64, maxInstallments int) (*CreatePaymentResponse, error) {
	customerID, err := c.findOrCreateCustomer(customerName, customerEmail, customerWhatsapp)
	if err != nil {
		return nil, err
	}

	payment := CreatePaymentRequest{
		Customer:          customerID,
		BillingType:       "UNDEFINED",
		Value:             totalAmount,
		DueDate:           time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		Description:       description,
		ExternalReference: FormatOrderReference(orderID),
	}
	if maxInstallments > 1 {
		payment.InstallmentCount = maxInstallments
		payment.InstallmentValue = totalAmount / float64(maxInstallments)
	}

	req, err := c.newRequest("POST", "/payments", payment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	var resp CreatePaymentResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FormatOrderReference builds the external reference stored on a charge.
func FormatOrderReference(orderID int) string {
	return orderReferencePrefix + strconv.Itoa(orderID)
}

// ParseOrderReference extracts the local order id from an external
// reference. Returns (0, false) for anything that is not "order:<id>".
func ParseOrderReference(ref string) (int, bool) {
	if !strings.HasPrefix(ref, orderReferencePrefix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(ref, orderReferencePrefix))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// IsPaidEvent reports whether a webhook signals a completed payment,
// either through the event name or the payment status.
func IsPaidEvent(event WebhookEvent) bool {
	switch event.Event {
	case "PAYMENT_CONFIRMED", "PAYMENT_RECEIVED", "PAYMENT_RECEIVED_IN_CASH", "PAYMENT_RECEIVED_AFTER_DUE_DATE":
		return true
	}
	switch event.Payment.Status {
	case "RECEIVED", "CONFIRMED", "PAID":
		return true
	}
	return false
}

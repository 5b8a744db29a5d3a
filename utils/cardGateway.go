package utils

import (
	"encoding/json"
	"fmt"
	"lms/config"
	"log"

	"github.com/go-resty/resty/v2"
)

// CheckoutSession is the gateway's handle on a hosted card payment
type CheckoutSession struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// GatewaySession is the gateway's view of a session at retrieval time
type GatewaySession struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"` // paid, unpaid, expired
	PaymentIntent string `json:"payment_intent"`
}

// CreateCheckoutSession opens a hosted checkout session at the card-network
// gateway for a single course purchase. Amounts are sent in minor units.
func CreateCheckoutSession(courseTitle, courseDescription string, amount float64, currency string, metadata map[string]string) (*CheckoutSession, error) {
	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.GatewaySecretKey).
		SetBody(map[string]interface{}{
			"mode":        "payment",
			"currency":    currency,
			"amount":      int64(amount * 100),
			"name":        courseTitle,
			"description": courseDescription,
			"success_url": config.AppConfig.FrontendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
			"cancel_url":  config.AppConfig.FrontendURL + "/payment/cancel",
			"metadata":    metadata,
		}).
		Post(config.AppConfig.GatewayApiURL + "/checkout/sessions")
	if err != nil {
		log.Printf("Failed to reach card gateway: %v", err)
		return nil, err
	}
	if resp.StatusCode() != 200 {
		log.Printf("Gateway session create failed: %s", resp.String())
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode())
	}

	var session CheckoutSession
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("invalid gateway response: %w", err)
	}
	return &session, nil
}

// RetrieveCheckoutSession fetches the current state of a checkout session
func RetrieveCheckoutSession(sessionID string) (*GatewaySession, error) {
	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.GatewaySecretKey).
		Get(config.AppConfig.GatewayApiURL + "/checkout/sessions/" + sessionID)
	if err != nil {
		log.Printf("Failed to reach card gateway: %v", err)
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode())
	}

	var session GatewaySession
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("invalid gateway response: %w", err)
	}
	return &session, nil
}

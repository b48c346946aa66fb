package config

import (
	"fmt"
	"os"
)

// Config carries everything a consumer needs to wire the stores and the
// payment gateway client. The payment secret is read from the environment
// and must never be sent to a browser.
type Config struct {
	DatabaseURL      string
	PaymentBaseURL   string
	PaymentSecretKey string
}

const defaultPaymentBaseURL = "https://api.tosspayments.com"

func Load() (Config, error) {
	var c Config

	c.DatabaseURL = os.Getenv("DATABASE_URL")
	if c.DatabaseURL == "" {
		return c, fmt.Errorf("DATABASE_URL is not set")
	}

	c.PaymentSecretKey = os.Getenv("PAYMENT_SECRET_KEY")
	if c.PaymentSecretKey == "" {
		return c, fmt.Errorf("PAYMENT_SECRET_KEY is not set")
	}

	c.PaymentBaseURL = os.Getenv("PAYMENT_BASE_URL")
	if c.PaymentBaseURL == "" {
		c.PaymentBaseURL = defaultPaymentBaseURL
	}

	return c, nil
}

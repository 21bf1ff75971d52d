// Package types provides the shared domain types for the TokenWatcher client.
// All entities mirror the REST API's JSON wire format; server-assigned fields
// (IDs, timestamps) are never fabricated client-side.
package types

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// User is the authenticated account profile returned by /auth/users/me.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	IsActive     bool   `json:"is_active"`
	IsAdmin      bool   `json:"is_admin"`
	PlanName     string `json:"plan_name"`
	WatcherCount int    `json:"watcher_count"`
	WatcherLimit int    `json:"watcher_limit"`
}

// Watcher is a configured ERC-20 transfer monitor owned by a user.
// WebhookURL is nullable: required at creation, clearable afterwards.
type Watcher struct {
	ID           int       `json:"id"`
	OwnerID      int       `json:"owner_id"`
	Name         string    `json:"name"`
	TokenAddress string    `json:"token_address"`
	ThresholdUSD float64   `json:"threshold"`
	WebhookURL   *string   `json:"webhook_url"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Event is a transfer that crossed a watcher's threshold. Events are produced
// by the backend and are strictly read-only here.
type Event struct {
	ID           int       `json:"id"`
	WatcherID    int       `json:"watcher_id"`
	TokenAddress string    `json:"token_address"`
	TokenSymbol  string    `json:"token_symbol"`
	TokenName    string    `json:"token_name"`
	FromAddress  string    `json:"from_address"`
	ToAddress    string    `json:"to_address"`
	Amount       float64   `json:"amount"`
	USDValue     *float64  `json:"usd_value"`
	TxHash       string    `json:"transaction_hash"`
	BlockNumber  uint64    `json:"block_number"`
	CreatedAt    time.Time `json:"created_at"`
}

// Plan is a subscription tier. Prices are integer minor-currency units.
type Plan struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	PriceMonthly         int    `json:"price_monthly"`
	PriceAnnual          int    `json:"price_annual"`
	WatcherLimit         int    `json:"watcher_limit"`
	IsActive             bool   `json:"is_active"`
	StripePriceMonthlyID string `json:"stripe_price_id_monthly,omitempty"`
	StripePriceAnnualID  string `json:"stripe_price_id_annual,omitempty"`
}

// FreePlanName is the plan that must always exist; the client refuses to
// delete it (UI-level guard, the server enforces its own rules).
const FreePlanName = "Free"

// ValidationError reports a client-side input failure. It is raised before
// any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CreateWatcherInput carries the fields required to create a watcher.
// Unlike updates, a webhook URL is mandatory here.
type CreateWatcherInput struct {
	Name         string  `json:"name"`
	TokenAddress string  `json:"token_address"`
	ThresholdUSD float64 `json:"threshold"`
	WebhookURL   string  `json:"webhook_url"`
}

// Validate checks the input without touching the network.
func (in CreateWatcherInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !common.IsHexAddress(in.TokenAddress) {
		return &ValidationError{Field: "token_address", Message: "not a valid 0x contract address"}
	}
	if in.ThresholdUSD < 0 {
		return &ValidationError{Field: "threshold", Message: "threshold must be >= 0"}
	}
	if strings.TrimSpace(in.WebhookURL) == "" {
		return &ValidationError{Field: "webhook_url", Message: "webhook URL is required"}
	}
	return validateWebhookURL(in.WebhookURL)
}

// UpdateWatcherInput is a partial update: nil fields are left untouched by the
// server. All fields are editable, including the token address and webhook URL
// (an empty-string webhook clears it).
type UpdateWatcherInput struct {
	Name         *string  `json:"name,omitempty"`
	TokenAddress *string  `json:"token_address,omitempty"`
	ThresholdUSD *float64 `json:"threshold,omitempty"`
	WebhookURL   *string  `json:"webhook_url,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// Validate checks only the fields that are present.
func (in UpdateWatcherInput) Validate() error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return &ValidationError{Field: "name", Message: "name cannot be empty"}
	}
	if in.TokenAddress != nil && !common.IsHexAddress(*in.TokenAddress) {
		return &ValidationError{Field: "token_address", Message: "not a valid 0x contract address"}
	}
	if in.ThresholdUSD != nil && *in.ThresholdUSD < 0 {
		return &ValidationError{Field: "threshold", Message: "threshold must be >= 0"}
	}
	if in.WebhookURL != nil && *in.WebhookURL != "" {
		return validateWebhookURL(*in.WebhookURL)
	}
	return nil
}

// PlanInput covers both plan creation and full plan updates (admin only).
type PlanInput struct {
	Name                 string `json:"name"`
	Description          string `json:"description"`
	PriceMonthly         int    `json:"price_monthly"`
	PriceAnnual          int    `json:"price_annual"`
	WatcherLimit         int    `json:"watcher_limit"`
	IsActive             bool   `json:"is_active"`
	StripePriceMonthlyID string `json:"stripe_price_id_monthly,omitempty"`
	StripePriceAnnualID  string `json:"stripe_price_id_annual,omitempty"`
}

// Validate checks the plan fields client-side.
func (in PlanInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if in.PriceMonthly < 0 || in.PriceAnnual < 0 {
		return &ValidationError{Field: "price", Message: "prices must be >= 0"}
	}
	if in.WatcherLimit < 0 {
		return &ValidationError{Field: "watcher_limit", Message: "watcher limit must be >= 0"}
	}
	return nil
}

func validateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: "webhook_url", Message: "must be a valid http or https URL"}
	}
	return nil
}

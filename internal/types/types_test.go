package types

import (
	"errors"
	"testing"
)

const goodAddress = "0x6B175474E89094C44Da98b954EedeAC495271d0F"

func TestCreateWatcherInputValidate(t *testing.T) {
	base := CreateWatcherInput{
		Name:         "DAI whale alert",
		TokenAddress: goodAddress,
		ThresholdUSD: 50000,
		WebhookURL:   "https://hooks.example.com/abc",
	}

	tests := []struct {
		name      string
		mutate    func(*CreateWatcherInput)
		wantField string
	}{
		{"valid", func(in *CreateWatcherInput) {}, ""},
		{"empty name", func(in *CreateWatcherInput) { in.Name = "  " }, "name"},
		{"bad address", func(in *CreateWatcherInput) { in.TokenAddress = "0x123" }, "token_address"},
		{"not hex", func(in *CreateWatcherInput) { in.TokenAddress = "hello" }, "token_address"},
		{"negative threshold", func(in *CreateWatcherInput) { in.ThresholdUSD = -1 }, "threshold"},
		{"zero threshold ok", func(in *CreateWatcherInput) { in.ThresholdUSD = 0 }, ""},
		{"missing webhook", func(in *CreateWatcherInput) { in.WebhookURL = "" }, "webhook_url"},
		{"ftp webhook", func(in *CreateWatcherInput) { in.WebhookURL = "ftp://example.com/x" }, "webhook_url"},
		{"hostless webhook", func(in *CreateWatcherInput) { in.WebhookURL = "https://" }, "webhook_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestUpdateWatcherInputValidate(t *testing.T) {
	str := func(s string) *string { return &s }
	f64 := func(f float64) *float64 { return &f }

	tests := []struct {
		name      string
		in        UpdateWatcherInput
		wantField string
	}{
		{"all nil", UpdateWatcherInput{}, ""},
		{"good partial", UpdateWatcherInput{Name: str("renamed")}, ""},
		{"empty name", UpdateWatcherInput{Name: str(" ")}, "name"},
		{"bad address", UpdateWatcherInput{TokenAddress: str("nope")}, "token_address"},
		{"negative threshold", UpdateWatcherInput{ThresholdUSD: f64(-0.01)}, "threshold"},
		// An empty webhook means "clear it", which is always allowed.
		{"clear webhook", UpdateWatcherInput{WebhookURL: str("")}, ""},
		{"bad webhook", UpdateWatcherInput{WebhookURL: str("not a url")}, "webhook_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestPlanInputValidate(t *testing.T) {
	good := PlanInput{Name: "Pro", PriceMonthly: 900, PriceAnnual: 9000, WatcherLimit: 25, IsActive: true}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	bad := good
	bad.Name = ""
	if err := bad.Validate(); err == nil {
		t.Error("empty name accepted")
	}

	bad = good
	bad.PriceMonthly = -1
	if err := bad.Validate(); err == nil {
		t.Error("negative price accepted")
	}

	bad = good
	bad.WatcherLimit = -5
	if err := bad.Validate(); err == nil {
		t.Error("negative watcher limit accepted")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "threshold", Message: "threshold must be >= 0"}
	if got, want := err.Error(), "threshold: threshold must be >= 0"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

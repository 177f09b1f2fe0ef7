package validators

import (
	"strings"
	"testing"

	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/models"
)

func validHouse() *models.House {
	return &models.House{
		HouseNumber: "A-1-01",
		BlockNumber: "A",
		LandNumber:  "1",
		HouseType:   models.HouseTypeTownhouse,
		Model:       "Lotus",
		Price:       1000000,
		Status:      models.HouseStatusAvailable,
	}
}

func TestValidateCreate(t *testing.T) {
	v := NewHouseValidator()
	if err := v.ValidateCreate(validHouse()); err != nil {
		t.Fatalf("ValidateCreate(valid) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(h *models.House)
		want   string
	}{
		{"missing number", func(h *models.House) { h.HouseNumber = "" }, "HouseNumber is required"},
		{"bad type", func(h *models.House) { h.HouseType = "Villa" }, "HouseType must be one of"},
		{"bad status", func(h *models.House) { h.Status = "sold" }, "Status must be one of"},
		{"negative price", func(h *models.House) { h.Price = -1 }, "Price must be at least 0"},
		{"has id", func(h *models.House) { h.ID = "9" }, "must not carry an id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHouse()
			tt.mutate(h)
			err := v.ValidateCreate(h)
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.HasCode(err, apperrors.ErrCodeInvalidParameters) {
				t.Errorf("error code = %v, want INVALID_PARAMETERS", err)
			}
			if !strings.Contains(apperrors.Message(err, ""), tt.want) {
				t.Errorf("message = %q, want it to contain %q", apperrors.Message(err, ""), tt.want)
			}
		})
	}
}

func TestValidateUpdateIDMismatch(t *testing.T) {
	h := validHouse()
	h.ID = "1"
	if err := NewHouseValidator().ValidateUpdate("2", h); err == nil {
		t.Error("expected id mismatch error")
	}
	if err := NewHouseValidator().ValidateUpdate("1", h); err != nil {
		t.Errorf("ValidateUpdate(matching id) = %v", err)
	}
}

func TestValidateFilter(t *testing.T) {
	v := NewHouseValidator()
	min, max := int64(10), int64(5)
	if err := v.ValidateFilter(&models.HouseFilter{PriceRange: &models.PriceRange{Min: &min, Max: &max}}); err == nil {
		t.Error("expected error for min > max")
	}
	if err := v.ValidateFilter(&models.HouseFilter{SortBy: "area"}); err == nil {
		t.Error("expected error for unknown sort key")
	}
	if err := v.ValidateFilter(nil); err != nil {
		t.Errorf("ValidateFilter(nil) = %v", err)
	}
}

func TestValidateLogin(t *testing.T) {
	v := NewAuthValidator()
	tests := []struct {
		creds   models.LoginCredentials
		wantErr bool
	}{
		{models.LoginCredentials{Username: "agent@example.com", Password: "secret1"}, false},
		{models.LoginCredentials{Username: "agent", Password: "secret1"}, true},
		{models.LoginCredentials{Username: "agent@example.com", Password: "123"}, true},
		{models.LoginCredentials{Username: "", Password: ""}, true},
	}
	for _, tt := range tests {
		err := v.ValidateLogin(&tt.creds)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLogin(%q) error = %v, wantErr %v", tt.creds.Username, err, tt.wantErr)
		}
	}
}

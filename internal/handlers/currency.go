// handlers/currency.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"house-inventory/pkg/currency"
)

// CurrencyResponse shows one input in each of its forms.
type CurrencyResponse struct {
	Input      string   `json:"input"`
	Display    string   `json:"display"`
	Normalized string   `json:"normalized"`
	Value      *float64 `json:"value"`
}

// FormatCurrency godoc
// @Summary Format or parse a price
// @Description Reformats keystroke input with dot thousands and a comma decimal, and parses it
// @Tags Currency
// @Produce json
// @Param value query string true "Raw input"
// @Success 200 {object} CurrencyResponse
// @Router /currency [get]
func FormatCurrency(c *gin.Context) {
	input := c.Query("value")
	resp := CurrencyResponse{
		Input:      input,
		Display:    currency.FormatDisplay(input),
		Normalized: currency.Normalize(input),
	}
	if v, ok := currency.Parse(input); ok {
		resp.Value = &v
	}
	c.JSON(http.StatusOK, resp)
}

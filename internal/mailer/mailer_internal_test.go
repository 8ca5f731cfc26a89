package mailer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/solofarma/alerts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() models.NotificationPayload {
	return models.NotificationPayload{
		Recipient: "paula@example.com",
		UserName:  "Paula",
		Product: models.Product{
			ID:           10,
			Name:         "Paracetamol 500mg",
			Manufacturer: "Laboratorio Chile",
			Presentation: "16 comprimidos",
			Pharmacy:     "Cruz Verde",
			URL:          "https://example.com/p/paracetamol",
		},
		PreviousPrice:   1000,
		CurrentPrice:    800,
		Discount:        200,
		DiscountPercent: 20,
	}
}

func TestFormatCLP(t *testing.T) {
	testCases := []struct {
		value    float64
		expected string
	}{
		{0, "0"},
		{800, "800"},
		{1000, "1.000"},
		{12990, "12.990"},
		{999.9, "1.000"},
		{1234567, "1.234.567"},
		{-2500, "-2.500"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, formatCLP(tc.value))
		})
	}
}

func TestRenderBody(t *testing.T) {
	body, err := renderBody(testPayload())
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, "Paracetamol 500mg", strings.TrimSpace(doc.Find("#product-name").Text()))
	assert.Contains(t, doc.Find("#previous-price").Text(), "$1.000")
	assert.Contains(t, doc.Find("#current-price").Text(), "$800")
	assert.Contains(t, doc.Find("#savings").Text(), "$200")
	assert.Contains(t, doc.Find("#savings").Text(), "20.0%")

	href, exists := doc.Find("#cta-link").Attr("href")
	require.True(t, exists)
	assert.Equal(t, "https://example.com/p/paracetamol", href)
	assert.Contains(t, doc.Find("#cta-link").Text(), "Cruz Verde")

	assert.Contains(t, body, "Hola <strong>Paula</strong>")
	assert.Contains(t, body, "Laboratorio Chile")
	assert.Contains(t, body, "16 comprimidos")
}

func TestRenderBody_MissingOptionalFields(t *testing.T) {
	payload := testPayload()
	payload.Product.Manufacturer = ""
	payload.Product.Presentation = ""

	body, err := renderBody(payload)
	require.NoError(t, err)

	assert.Contains(t, body, "No especificado")
}

func newTestMailer(t *testing.T) *Mailer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Port 1 on loopback: nothing listens there, so the dial fails fast.
	m, err := New(logger, "127.0.0.1", 1, "user", "pass", "SoloFarma <alertas@solofarma.cl>", time.Second)
	require.NoError(t, err)

	return m
}

func TestSendPriceAlert_DeliveryFailure(t *testing.T) {
	m := newTestMailer(t)

	assert.False(t, m.SendPriceAlert(context.Background(), testPayload()))
}

func TestSendPriceAlert_InvalidRecipient(t *testing.T) {
	m := newTestMailer(t)
	payload := testPayload()
	payload.Recipient = "not-an-address"

	assert.False(t, m.SendPriceAlert(context.Background(), payload))
}

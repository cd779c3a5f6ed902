package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/Phaham/BoogieBites/controllers"
	apperrors "github.com/Phaham/BoogieBites/errors"
	"github.com/Phaham/BoogieBites/middleware"
	"github.com/Phaham/BoogieBites/models"
)

// ---- mock session creator ----

type mockSessionCreator struct {
	lines      []models.CheckoutLine
	email      string
	successURL string
	cancelURL  string
	err        error
}

func (m *mockSessionCreator) CreateCheckoutSession(_ context.Context, lines []models.CheckoutLine, customerEmail, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lines = lines
	m.email = customerEmail
	m.successURL = successURL
	m.cancelURL = cancelURL
	return &stripe.CheckoutSession{ID: "cs_test_123"}, nil
}

func setupCheckoutRouter(creator *mockSessionCreator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cc := &controllers.CheckoutController{
		Stripe:      creator,
		Logger:      zap.NewNop(),
		FrontendURL: "http://localhost:3000",
	}
	group := r.Group("/checkout")
	group.Use(middleware.AuthMiddleware())
	group.POST("/session", cc.InitiateCheckout)
	return r
}

func postCheckout(r *gin.Engine, body any, email string) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/checkout/session", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("X-User-Email", email)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestInitiateCheckout_Success(t *testing.T) {
	creator := &mockSessionCreator{}
	r := setupCheckoutRouter(creator)

	body := gin.H{"items": []models.CartItem{
		{Name: "Pizza", Image: "/pizza.png", Price: 1200, Quantity: 2},
	}}
	w := postCheckout(r, body, "a@example.com")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cs_test_123", resp["id"])

	assert.Equal(t, "a@example.com", creator.email)
	assert.Len(t, creator.lines, 1)
	assert.Equal(t, int64(1200), creator.lines[0].UnitAmount)
	assert.Equal(t, "http://localhost:3000/paymentSuccess?session_id={CHECKOUT_SESSION_ID}", creator.successURL)
	assert.Equal(t, "http://localhost:3000/paymentFailed?session_id={CHECKOUT_SESSION_ID}", creator.cancelURL)
}

func TestInitiateCheckout_Unauthorized(t *testing.T) {
	r := setupCheckoutRouter(&mockSessionCreator{})
	w := postCheckout(r, gin.H{"items": []models.CartItem{}}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInitiateCheckout_InvalidCart(t *testing.T) {
	creator := &mockSessionCreator{}
	r := setupCheckoutRouter(creator)

	body := gin.H{"items": []models.CartItem{
		{Name: "", Image: "/pizza.png", Price: 1200, Quantity: 2},
	}}
	w := postCheckout(r, body, "a@example.com")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name is required")
	// gateway never called on invalid input
	assert.Empty(t, creator.email)
}

func TestInitiateCheckout_GatewayRejected(t *testing.T) {
	creator := &mockSessionCreator{err: apperrors.GatewayRejected("payment gateway rejected the checkout request", nil)}
	r := setupCheckoutRouter(creator)

	body := gin.H{"items": []models.CartItem{
		{Name: "Pizza", Image: "/pizza.png", Price: 1200, Quantity: 2},
	}}
	w := postCheckout(r, body, "a@example.com")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

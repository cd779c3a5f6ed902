package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Phaham/BoogieBites/middleware"
	"github.com/Phaham/BoogieBites/repository"
)

type OrderController struct {
	Orders repository.OrderRepository
	Users  repository.UserRepository
	Logger *zap.Logger
}

// GetMyOrder returns the calling user's order aggregate.
func (oc *OrderController) GetMyOrder(c *gin.Context) {
	email := middleware.GetUserEmail(c)

	user, err := oc.Users.FindByEmail(c.Request.Context(), email)
	if errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		oc.Logger.Error("Failed to resolve user", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	order, err := oc.Orders.FindByUserID(c.Request.Context(), user.ID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no order yet"})
		return
	}
	if err != nil {
		oc.Logger.Error("Failed to fetch order", zap.String("user_id", user.ID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

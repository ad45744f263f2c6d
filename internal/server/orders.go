package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/smallbiznis/jielong/internal/ledger/domain"
	"github.com/smallbiznis/jielong/internal/reconcile"
)

// ReconcileOrder accepts the parsed relay submission and produces an order.
func (s *Server) ReconcileOrder(c *gin.Context) {
	var req reconcile.ParsedJielong
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, reconcile.ErrMissingNickname)
		return
	}

	order, err := s.reconciler.Reconcile(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": order})
}

func (s *Server) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.ledgerSvc.List(c.Request.Context())})
}

func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.ledgerSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (s *Server) DeleteOrder(c *gin.Context) {
	if err := s.ledgerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type statusRequest struct {
	Status ledgerdomain.Status `json:"status"`
}

func (s *Server) AdvanceOrder(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ledgerdomain.ErrInvalidStatus)
		return
	}

	order, err := s.ledgerSvc.Advance(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (s *Server) OverrideOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ledgerdomain.ErrInvalidStatus)
		return
	}

	order, err := s.ledgerSvc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

type updateItemsRequest struct {
	Items []ledgerdomain.OrderItem `json:"items"`
	Note  *string                  `json:"note"`
}

func (s *Server) UpdateOrderItems(c *gin.Context) {
	var req updateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ledgerdomain.ErrInvalidQuantity)
		return
	}

	order, err := s.ledgerSvc.UpdateItems(c.Request.Context(), c.Param("id"), req.Items, req.Note)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/jielong/internal/catalog/domain"
)

type productRequest struct {
	Name        string                    `json:"name"`
	Price       float64                   `json:"price"`
	Specs       []catalogdomain.SpecInput `json:"specs"`
	Image       string                    `json:"image"`
	Description string                    `json:"description"`
}

func (s *Server) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.catalogSvc.List(c.Request.Context())})
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, catalogdomain.ErrInvalidName)
		return
	}

	product, err := s.catalogSvc.Create(c.Request.Context(), catalogdomain.CreateProductRequest{
		Name:        req.Name,
		Price:       req.Price,
		Specs:       req.Specs,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": product})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, catalogdomain.ErrInvalidName)
		return
	}

	product, err := s.catalogSvc.Update(c.Request.Context(), catalogdomain.UpdateProductRequest{
		ID:          c.Param("id"),
		Name:        req.Name,
		Price:       req.Price,
		Specs:       req.Specs,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	if err := s.catalogSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	directorydomain "github.com/smallbiznis/jielong/internal/directory/domain"
)

type customerRequest struct {
	WechatNickname string `json:"wechatNickname"`
	RealName       string `json:"realName"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

func (s *Server) ListCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.directorySvc.List(c.Request.Context())})
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, directorydomain.ErrInvalidNickname)
		return
	}

	customer, err := s.directorySvc.Create(c.Request.Context(), directorydomain.CreateCustomerRequest{
		WechatNickname: req.WechatNickname,
		RealName:       req.RealName,
		Phone:          req.Phone,
		Address:        req.Address,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": customer})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, directorydomain.ErrInvalidNickname)
		return
	}

	customer, err := s.directorySvc.Update(c.Request.Context(), directorydomain.UpdateCustomerRequest{
		ID:             c.Param("id"),
		WechatNickname: req.WechatNickname,
		RealName:       req.RealName,
		Phone:          req.Phone,
		Address:        req.Address,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customer})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.directorySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

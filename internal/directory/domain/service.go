package domain

import (
	"context"
	"errors"
)

type CreateCustomerRequest struct {
	WechatNickname string
	RealName       string
	Phone          string
	Address        string
}

type UpdateCustomerRequest struct {
	ID             string
	WechatNickname string
	RealName       string
	Phone          string
	Address        string
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	Update(ctx context.Context, req UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) []Customer
	Get(ctx context.Context, id string) (Customer, error)

	// FindByNickname returns every customer with that exact nickname, in
	// stored order. Callers needing one match apply their own tie-break.
	FindByNickname(ctx context.Context, nickname string) []Customer

	// Replace overwrites the whole directory; used by backup import.
	Replace(ctx context.Context, customers []Customer) error
}

var (
	ErrNotFound        = errors.New("customer_not_found")
	ErrInvalidNickname = errors.New("invalid_wechat_nickname")
)

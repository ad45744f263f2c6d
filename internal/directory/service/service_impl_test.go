package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/jielong/internal/directory/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	customers []domain.Customer
}

func (r *memRepo) Load(ctx context.Context) ([]domain.Customer, error) {
	return r.customers, nil
}

func (r *memRepo) Save(ctx context.Context, customers []domain.Customer) error {
	r.customers = customers
	return nil
}

func newDirectory(t *testing.T) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	svc, err := New(Params{Log: zap.NewNop(), GenID: node, Repo: &memRepo{}})
	require.NoError(t, err)
	return svc
}

func TestFindByNickname_StoredOrder(t *testing.T) {
	svc := newDirectory(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateCustomerRequest{WechatNickname: "小明", RealName: "张三"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateCustomerRequest{WechatNickname: "小红", RealName: "王五"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.CreateCustomerRequest{WechatNickname: "小明", RealName: "李四"})
	require.NoError(t, err)

	matches := svc.FindByNickname(ctx, "小明")
	require.Len(t, matches, 2)
	assert.Equal(t, first.ID, matches[0].ID)
	assert.Equal(t, second.ID, matches[1].ID)

	assert.Empty(t, svc.FindByNickname(ctx, "不认识"))
}

func TestCreate_RequiresNickname(t *testing.T) {
	svc := newDirectory(t)
	_, err := svc.Create(context.Background(), domain.CreateCustomerRequest{WechatNickname: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidNickname)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newDirectory(t)
	ctx := context.Background()
	customer, err := svc.Create(ctx, domain.CreateCustomerRequest{
		WechatNickname: "小明", RealName: "张三", Phone: "13800000000", Address: "路A 1号",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateCustomerRequest{
		ID: customer.ID, WechatNickname: "小明", RealName: "张三", Address: "路B 2号",
	})
	require.NoError(t, err)
	assert.Equal(t, "路B 2号", updated.Address)

	require.NoError(t, svc.Delete(ctx, customer.ID))
	_, err = svc.Get(ctx, customer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

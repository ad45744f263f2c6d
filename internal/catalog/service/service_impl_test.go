package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/jielong/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	products []domain.Product
	saves    int
}

func (r *memRepo) Load(ctx context.Context) ([]domain.Product, error) {
	return r.products, nil
}

func (r *memRepo) Save(ctx context.Context, products []domain.Product) error {
	r.products = products
	r.saves++
	return nil
}

func newCatalog(t *testing.T) (domain.Service, *memRepo) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := &memRepo{}
	svc, err := New(Params{Log: zap.NewNop(), GenID: node, Repo: repo})
	require.NoError(t, err)
	return svc, repo
}

func TestCreate_AssignsIDsAndPersists(t *testing.T) {
	svc, repo := newCatalog(t)

	product, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Name:  "奶茶",
		Price: 10,
		Specs: []domain.SpecInput{{Name: "大杯", Price: 14}, {Name: "中杯", Price: 12}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	require.Len(t, product.Specs, 2)
	assert.NotEmpty(t, product.Specs[0].ID)
	assert.NotEqual(t, product.Specs[0].ID, product.Specs[1].ID)
	assert.Equal(t, 1, repo.saves)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateProductRequest{Name: "  ", Price: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateProductRequest{Name: "奶茶", Price: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestFindByName_ExactAndCaseSensitive(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, domain.CreateProductRequest{Name: "Latte", Price: 18})
	require.NoError(t, err)

	_, found := svc.FindByName(ctx, "Latte")
	assert.True(t, found)
	_, found = svc.FindByName(ctx, "latte")
	assert.False(t, found, "name matching is case-sensitive as stored")
	_, found = svc.FindByName(ctx, "Latte ")
	assert.False(t, found)
}

func TestUpdate_KeepsSpecIDsStable(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()
	product, err := svc.Create(ctx, domain.CreateProductRequest{
		Name:  "奶茶",
		Price: 10,
		Specs: []domain.SpecInput{{Name: "大杯", Price: 14}},
	})
	require.NoError(t, err)
	specID := product.Specs[0].ID

	updated, err := svc.Update(ctx, domain.UpdateProductRequest{
		ID:    product.ID,
		Name:  "奶茶",
		Price: 11,
		Specs: []domain.SpecInput{
			{ID: specID, Name: "大杯", Price: 15},
			{Name: "小杯", Price: 9},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Specs, 2)
	assert.Equal(t, specID, updated.Specs[0].ID)
	assert.Equal(t, 15.0, updated.Specs[0].Price)
	assert.NotEmpty(t, updated.Specs[1].ID)
}

func TestDelete(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()
	product, err := svc.Create(ctx, domain.CreateProductRequest{Name: "奶茶", Price: 10})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, product.ID))
	assert.Empty(t, svc.List(ctx))
	assert.ErrorIs(t, svc.Delete(ctx, product.ID), domain.ErrNotFound)
}

func TestReplace_Normalizes(t *testing.T) {
	svc, repo := newCatalog(t)
	ctx := context.Background()

	err := svc.Replace(ctx, []domain.Product{
		{ID: "p1", Name: "奶茶", Price: -5, Specs: nil},
	})
	require.NoError(t, err)

	list := svc.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, 0.0, list[0].Price)
	assert.NotNil(t, list[0].Specs)
	assert.NotNil(t, repo.products)
}

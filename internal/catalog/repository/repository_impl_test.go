package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/smallbiznis/jielong/internal/catalog/domain"
	"github.com/smallbiznis/jielong/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	values map[string]string
	err    error
}

func (s *fakeStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *fakeStore) Set(ctx context.Context, key, value string) error {
	if s.err != nil {
		return s.err
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
	return nil
}

func newRepo(store state.Store) domain.Repository {
	return Provide(Params{Store: store, Log: zap.NewNop()})
}

func TestLoad_AbsentKeyIsEmpty(t *testing.T) {
	repo := newRepo(&fakeStore{})

	products, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)
}

func TestLoad_CorruptBlobDegradesToEmpty(t *testing.T) {
	repo := newRepo(&fakeStore{values: map[string]string{
		state.KeyProducts: `{"this is": "not an array"`,
	}})

	products, err := repo.Load(context.Background())
	require.NoError(t, err, "corruption must not fail startup")
	assert.Empty(t, products)
}

func TestLoad_NormalizesStoredBlob(t *testing.T) {
	repo := newRepo(&fakeStore{values: map[string]string{
		state.KeyProducts: `[{"id":"p1","name":"奶茶","price":-3,"specs":null}]`,
	}})

	products, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 0.0, products[0].Price)
	assert.NotNil(t, products[0].Specs)
}

func TestSaveRoundTrip(t *testing.T) {
	store := &fakeStore{}
	repo := newRepo(store)
	ctx := context.Background()

	in := []domain.Product{{
		ID:    "p1",
		Name:  "奶茶",
		Price: 10,
		Specs: []domain.ProductSpec{{ID: "s1", Name: "大杯", Price: 14}},
	}}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoad_StoreFailurePropagates(t *testing.T) {
	repo := newRepo(&fakeStore{err: errors.New("disk gone")})

	_, err := repo.Load(context.Background())
	assert.Error(t, err)
}

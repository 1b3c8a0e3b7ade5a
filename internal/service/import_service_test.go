package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bizman-ws/internal/importer"
	"go-bizman-ws/internal/tenant"
	"go-bizman-ws/internal/ws"
)

// A preview produced by the importer must be committable under the same
// entity name, for both entities.
func TestCommitRoutesNormalizedPreviews(t *testing.T) {
	svc := &importService{hub: ws.NewHub()}

	products, err := importer.Normalize([][]string{{"Tên sản phẩm", "Số lượng"}}, ImportEntityProduct)
	require.NoError(t, err)
	assert.Equal(t, ImportEntityProduct, products.Entity)

	result, err := svc.Commit(tenant.Context{}, products)
	require.NoError(t, err)
	assert.Equal(t, ImportEntityProduct, result.Entity)

	customers, err := importer.Normalize([][]string{{"Tên khách hàng", "SĐT"}}, ImportEntityCustomer)
	require.NoError(t, err)
	assert.Equal(t, ImportEntityCustomer, customers.Entity)

	result, err = svc.Commit(tenant.Context{}, customers)
	require.NoError(t, err)
	assert.Equal(t, ImportEntityCustomer, result.Entity)
}

func TestCommitRejectsUnknownEntity(t *testing.T) {
	svc := &importService{}

	_, err := svc.Commit(tenant.Context{}, &importer.Preview{Entity: "đơn hàng"})
	assert.Error(t, err)
}

package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionAcceptsBareArray(t *testing.T) {
	var c Collection[CartLine]
	err := json.Unmarshal([]byte(`[{"id":"1","product":"p1","size":"M","quantity":2}]`), &c)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, ID("1"), c.Items[0].ID)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestCollectionAcceptsItemsContainer(t *testing.T) {
	var c Collection[CartLine]
	err := json.Unmarshal([]byte(`{"items":[{"id":"1","product":"p1","size":"M","quantity":1},{"id":"2","product":"p2","size":"L","quantity":3}]}`), &c)
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
	assert.Equal(t, ID("2"), c.Items[1].ID)
}

func TestProductRefBareID(t *testing.T) {
	var line CartLine
	err := json.Unmarshal([]byte(`{"id":"7","product":"p42","size":"S","quantity":1}`), &line)
	require.NoError(t, err)

	assert.Equal(t, ID("p42"), line.Product.ID())
	_, ok := line.Product.Product()
	assert.False(t, ok, "bare id must not fabricate a product")
}

func TestProductRefNumericID(t *testing.T) {
	var line CartLine
	err := json.Unmarshal([]byte(`{"id":3,"product":42,"size":"S","quantity":1}`), &line)
	require.NoError(t, err)

	assert.Equal(t, ID("3"), line.ID)
	assert.Equal(t, ID("42"), line.Product.ID())
}

func TestProductRefEmbeddedObject(t *testing.T) {
	var line CartLine
	err := json.Unmarshal([]byte(`{"id":"7","product":{"id":"p42","name":"Tee","price":"500"},"size":"M","quantity":2}`), &line)
	require.NoError(t, err)

	assert.Equal(t, ID("p42"), line.Product.ID())
	p, ok := line.Product.Product()
	require.True(t, ok)
	assert.Equal(t, "Tee", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(500)))
}

func TestProductRefMarshalsBareID(t *testing.T) {
	data, err := json.Marshal(Ref("p1"))
	require.NoError(t, err)
	assert.JSONEq(t, `"p1"`, string(data))
}

func TestProductLegacyImageField(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"id":"p1","name":"Tee","price":100,"image":"https://cdn/x.jpg"}`), &p)
	require.NoError(t, err)

	url, ok := p.ImageURL()
	require.True(t, ok)
	assert.Equal(t, "https://cdn/x.jpg", url)
}

func TestProductMultiImagePreferred(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"id":"p1","name":"Tee","price":100,"images":[{"url":"https://cdn/a.jpg"},{"url":"https://cdn/b.jpg"}],"image":"https://cdn/legacy.jpg"}`), &p)
	require.NoError(t, err)

	url, ok := p.ImageURL()
	require.True(t, ok)
	assert.Equal(t, "https://cdn/a.jpg", url)
}

func TestProductWithoutImages(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"id":"p1","name":"Tee","price":100}`), &p)
	require.NoError(t, err)

	_, ok := p.ImageURL()
	assert.False(t, ok)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    Size
		wantErr bool
	}{
		{"M", SizeM, false},
		{"xs", SizeXS, false},
		{" xl ", SizeXL, false},
		{"XXL", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

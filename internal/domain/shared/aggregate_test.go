package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseAggregateRoot_Version(t *testing.T) {
	a := NewBaseAggregateRoot()
	require.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, 1, a.Version)
	assert.NoError(t, a.CheckVersion("product", 1))

	a.IncrementVersion()
	assert.Equal(t, 2, a.Version)

	err := a.CheckVersion("product", 1)
	require.Error(t, err)
	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConcurrencyConflict, de.Code)
	assert.Equal(t, 2, de.Details["current_version"])
}

func TestBaseAggregateRoot_DomainEvents(t *testing.T) {
	a := NewBaseAggregateRoot()
	assert.Empty(t, a.GetDomainEvents())

	event := NewBaseDomainEvent("ProductUpdated", "Product", a.ID)
	a.AddDomainEvent(&event)
	require.Len(t, a.GetDomainEvents(), 1)
	assert.Equal(t, "ProductUpdated", a.GetDomainEvents()[0].EventType())

	a.ClearDomainEvents()
	assert.Empty(t, a.GetDomainEvents())
}

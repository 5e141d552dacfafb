package store

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/code-vine/reflectivesql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownStoreError_Error(t *testing.T) {
	err := &UnknownStoreError{
		Type:      "fake_db",
		Available: []string{"postgres", "sqlite"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "fake_db", "error should mention the unknown type")
	assert.Contains(t, msg, "reflectsql.yaml", "error should mention config file")
}

func TestRegister(t *testing.T) {
	Register("test_store_internal", func(_ *slog.Logger) Store { return nil })

	assert.True(t, IsRegistered("test_store_internal"))
	assert.Contains(t, ListStores(), "test_store_internal")

	factory, ok := Get("test_store_internal")
	assert.True(t, ok)
	assert.NotNil(t, factory)
}

func TestNewStore(t *testing.T) {
	_, err := NewStore(core.StoreConfig{}, nil)
	require.Error(t, err)
	assert.Equal(t, "store type not specified", err.Error())

	_, err = NewStore(core.StoreConfig{Type: "nope"}, nil)
	var unknown *UnknownStoreError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nope", unknown.Type)
}

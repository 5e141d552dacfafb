package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registryAuthor struct {
	ID int64 `db:"id,INTEGER,pk"`
}

func (registryAuthor) TableName() string { return "registry_authors" }

type registryImpostor struct {
	ID int64 `db:"id,INTEGER,pk"`
}

func (registryImpostor) TableName() string { return "Registry_Authors" }

func TestRegister(t *testing.T) {
	require.NoError(t, Register(registryAuthor{}, &registryAuthor{}))

	e, ok := Lookup("REGISTRY_AUTHORS")
	require.True(t, ok)
	assert.Equal(t, "registryAuthor", e.Name())

	count := 0
	for _, table := range Tables() {
		if table == "registry_authors" {
			count++
		}
	}
	assert.Equal(t, 1, count, "re-registering the same type is a no-op")
	assert.Contains(t, Registered(), e)
}

func TestRegister_DuplicateTable(t *testing.T) {
	require.NoError(t, Register(registryAuthor{}))

	err := Register(registryImpostor{})
	var dup *DuplicateTableError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "registryAuthor", dup.Existing)
	assert.Equal(t, "registryImpostor", dup.Type)
}

func TestMustRegister_Panics(t *testing.T) {
	assert.Panics(t, func() { MustRegister(noTable{}) })
}

func TestLookup_Missing(t *testing.T) {
	_, ok := Lookup("nope")
	assert.False(t, ok)
}

package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("voice.provider", "openai"))

	val, ok := store.Get("voice.provider")
	assert.True(t, ok)
	assert.Equal(t, "openai", val)

	_, ok = store.Get("voice.api_key")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("voice.rate", 175)
	_ = store.Set("voice.rate64", int64(90))
	_ = store.Set("voice.ratef", float64(120))
	_ = store.Set("matcher.cache", true)
	_ = store.Set("subjects.known", []string{"java", "ai"})
	_ = store.Set("subjects.decoded", []any{"daa", 3, "dbms"})

	assert.Equal(t, 175, store.GetInt("voice.rate"))
	assert.Equal(t, 90, store.GetInt("voice.rate64"))
	assert.Equal(t, 120, store.GetInt("voice.ratef"))
	assert.True(t, store.GetBool("matcher.cache"))
	assert.Equal(t, []string{"java", "ai"}, store.GetStringSlice("subjects.known"))
	assert.Equal(t, []string{"daa", "dbms"}, store.GetStringSlice("subjects.decoded"))
}

func TestConfigStore_TypedGetters_WrongType(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("key", 42)

	assert.Equal(t, "", store.GetString("key"))
	assert.False(t, store.GetBool("key"))
	assert.Nil(t, store.GetStringSlice("key"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_Delete(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("voice.rate", 200)

	require.NoError(t, store.Delete("voice.rate"))
	require.NoError(t, store.Delete("never.set"))

	_, ok := store.Get("voice.rate")
	assert.False(t, ok)
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("voice.provider", "none")
	_ = store.Set("knowledge.backend", "file")
	_ = store.Set("matcher.cache", false)

	assert.Equal(t, []string{"knowledge.backend", "matcher.cache", "voice.provider"}, store.Keys())
}

func TestConfigStore_SaveLoadNoOp(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("knowledge.dir", "/tmp/k")

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	assert.Equal(t, "/tmp/k", store.GetString("knowledge.dir"))
}

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = NewConfigStore()
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(n int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key.%d", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("key.%d", n))
		}(i)
		go func() {
			defer wg.Done()
			_ = store.Keys()
		}()
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 50)
}

package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationService_BeginIncrementsPerResource(t *testing.T) {
	service := NewGenerationService()

	assert.Equal(t, uint64(1), service.Begin("cows"))
	assert.Equal(t, uint64(2), service.Begin("cows"))
	assert.Equal(t, uint64(1), service.Begin("sales"))
}

func TestGenerationService_OlderLoadIsNoLongerCurrent(t *testing.T) {
	service := NewGenerationService()

	first := service.Begin("cows")
	second := service.Begin("cows")

	assert.False(t, service.IsCurrent("cows", first))
	assert.True(t, service.IsCurrent("cows", second))
}

func TestGenerationService_ResourcesDoNotInterfere(t *testing.T) {
	service := NewGenerationService()

	cows := service.Begin("cows")
	service.Begin("sales")

	assert.True(t, service.IsCurrent("cows", cows))
}

func TestGenerationService_ConcurrentBegins(t *testing.T) {
	service := NewGenerationService()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			service.Begin("cows")
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(101), service.Begin("cows"))
}

package syncing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("Primeira chamada retorna imediatamente", func(t *testing.T) {
		limiter := newRateLimiter(2) // 500ms entre requisições

		start := time.Now()
		limiter.Wait()
		elapsed := time.Since(start)

		assert.Less(t, elapsed, 100*time.Millisecond)
	})

	t.Run("Segunda chamada espera o intervalo mínimo", func(t *testing.T) {
		limiter := newRateLimiter(20) // 50ms entre requisições

		limiter.Wait()
		start := time.Now()
		limiter.Wait()
		elapsed := time.Since(start)

		assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
		assert.Less(t, elapsed, 500*time.Millisecond)
	})

	t.Run("Intervalo já decorrido não bloqueia", func(t *testing.T) {
		limiter := newRateLimiter(100) // 10ms entre requisições

		limiter.Wait()
		time.Sleep(20 * time.Millisecond)

		start := time.Now()
		limiter.Wait()
		elapsed := time.Since(start)

		assert.Less(t, elapsed, 10*time.Millisecond)
	})

	t.Run("RPS zero desabilita a espera", func(t *testing.T) {
		limiter := newRateLimiter(0)

		start := time.Now()
		for i := 0; i < 10; i++ {
			limiter.Wait()
		}
		elapsed := time.Since(start)

		assert.Less(t, elapsed, 50*time.Millisecond)
	})
}

func TestNewRateLimiter(t *testing.T) {
	tests := []struct {
		name              string
		requestsPerSecond float64
		expectedInterval  time.Duration
	}{
		{
			name:              "Um RPS equivale a um segundo entre requisições",
			requestsPerSecond: 1,
			expectedInterval:  time.Second,
		},
		{
			name:              "Dois RPS equivalem a 500ms entre requisições",
			requestsPerSecond: 2,
			expectedInterval:  500 * time.Millisecond,
		},
		{
			name:              "Meio RPS equivale a dois segundos entre requisições",
			requestsPerSecond: 0.5,
			expectedInterval:  2 * time.Second,
		},
		{
			name:              "Zero desabilita o limiter",
			requestsPerSecond: 0,
			expectedInterval:  0,
		},
		{
			name:              "Valor negativo desabilita o limiter",
			requestsPerSecond: -1,
			expectedInterval:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := newRateLimiter(tt.requestsPerSecond)
			assert.Equal(t, tt.expectedInterval, limiter.minInterval)
		})
	}
}

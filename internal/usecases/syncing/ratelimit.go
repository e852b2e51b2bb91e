package syncing

import (
	"time"
)

// rateLimiter espaça as requisições de saída de uma única sincronização.
// O estado (timestamp da última requisição) pertence à invocação que criou
// o limiter, não é compartilhado entre sincronizações.
type rateLimiter struct {
	minInterval time.Duration
	lastRequest time.Time
}

// newRateLimiter cria um limiter com intervalo mínimo de 1/rps segundos
// entre requisições; rps <= 0 desabilita a espera
func newRateLimiter(requestsPerSecond float64) *rateLimiter {
	limiter := &rateLimiter{}
	if requestsPerSecond > 0 {
		limiter.minInterval = time.Duration(float64(time.Second) / requestsPerSecond)
	}
	return limiter
}

// Wait bloqueia até que o intervalo mínimo desde a última requisição deste
// limiter tenha passado. A primeira chamada só registra o timestamp.
func (l *rateLimiter) Wait() {
	if l.minInterval <= 0 {
		return
	}

	now := time.Now()
	if l.lastRequest.IsZero() {
		l.lastRequest = now
		return
	}

	if elapsed := now.Sub(l.lastRequest); elapsed < l.minInterval {
		time.Sleep(l.minInterval - elapsed)
	}

	l.lastRequest = time.Now()
}

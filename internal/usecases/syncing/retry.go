package syncing

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insights-sync-api/internal/domain"
)

// retryPolicy define o orçamento de retries de uma unidade fetch+load:
// até Retries tentativas além da inicial, com backoff exponencial
// backoff * 2^(k-1) na k-ésima retentativa e jitter opcional de ±10%
// para dessincronizar chamadores concorrentes.
type retryPolicy struct {
	retries int
	backoff time.Duration
	jitter  bool

	// sleep é substituível em teste; nil usa time.Sleep
	sleep func(time.Duration)
}

// run executa a unidade de trabalho respeitando o orçamento de retries.
// Erros de validação saem imediatamente; erros transitórios (fetch/load)
// são retentados e, esgotado o orçamento, o último erro sobe embrulhado
// em ExhaustedRetriesError — nunca é suprimido.
func (p retryPolicy) run(unit string, fn func() error) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if !domain.IsRetryable(err) {
			return err
		}

		if attempt > p.retries {
			logrus.WithFields(logrus.Fields{
				"unit":     unit,
				"attempts": attempt,
				"error":    err.Error(),
			}).Error("Orçamento de retries esgotado para a unidade de sincronização")
			return domain.NewExhaustedRetriesError(err, attempt)
		}

		delay := p.delay(attempt)
		logrus.WithFields(logrus.Fields{
			"unit":    unit,
			"attempt": attempt,
			"retries": p.retries,
			"delay":   delay.String(),
			"error":   err.Error(),
		}).Warn("Falha transitória na unidade de sincronização, aguardando para retentar")

		sleep(delay)
	}
}

// delay calcula o backoff da k-ésima retentativa
func (p retryPolicy) delay(attempt int) time.Duration {
	delay := p.backoff
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	if p.jitter && delay > 0 {
		factor := 0.9 + 0.2*rand.Float64()
		delay = time.Duration(float64(delay) * factor)
	}

	return delay
}

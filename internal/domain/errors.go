package domain

import (
	"errors"
	"fmt"
)

// Erros base do pipeline de sincronização
var (
	// Erros de validação
	ErrIncompleteDateBounds = errors.New("both since and until must be provided when one is present")
	ErrInvertedDateBounds   = errors.New("since must not be after until")
	ErrInvalidDateFormat    = errors.New("dates must use the YYYY-MM-DD format")
	ErrAccountIDRequired    = errors.New("account ID is required")
	ErrUnknownPlatform      = errors.New("no adapter registered for platform")

	// Erros de infraestrutura
	ErrUpstreamRequest = errors.New("upstream platform request failed")
	ErrWarehouseLoad   = errors.New("warehouse load failed")
)

// ValidationError indica uma requisição malformada. Nunca é retentado e
// falha antes de qualquer trabalho de rede ou warehouse.
type ValidationError struct {
	Err     error  // Erro base
	Field   string // Campo da requisição envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError cria um novo erro de validação
func NewValidationError(baseErr error, field string, details string) *ValidationError {
	return &ValidationError{
		Err:     baseErr,
		Field:   field,
		Details: details,
	}
}

// FetchError indica falha transitória ao buscar dados na plataforma:
// erro de rede ou resposta non-2xx. Elegível para retry.
type FetchError struct {
	Err        error    // Erro base
	Platform   Platform // Plataforma de origem
	StatusCode int      // Status HTTP retornado (0 para erro de rede)
	Body       string   // Corpo de erro retornado pela plataforma
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Err.Error(), e.StatusCode, e.Body)
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError cria um novo erro de fetch com contexto da plataforma
func NewFetchError(baseErr error, platform Platform, statusCode int, body string) *FetchError {
	return &FetchError{
		Err:        baseErr,
		Platform:   platform,
		StatusCode: statusCode,
		Body:       body,
	}
}

// LoadError indica falha de staging ou merge no warehouse. É retentado
// junto com o fetch como uma única unidade de trabalho.
type LoadError struct {
	Err   error  // Erro base
	Table string // Tabela envolvida
	Op    string // Operação: ensure, stage, merge, drop
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrWarehouseLoad.Error(), e.Op, e.Table, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError cria um novo erro de carga com contexto da operação
func NewLoadError(baseErr error, table string, op string) *LoadError {
	return &LoadError{
		Err:   baseErr,
		Table: table,
		Op:    op,
	}
}

// ExhaustedRetriesError é o estado terminal quando o orçamento de retries
// de uma unidade fetch+load se esgota. Carrega o último erro observado e
// aborta a sincronização inteira (sem sucesso parcial).
type ExhaustedRetriesError struct {
	Err      error // Último erro observado
	Attempts int   // Total de tentativas realizadas
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.Err
}

// NewExhaustedRetriesError cria o erro terminal de retries esgotados
func NewExhaustedRetriesError(lastErr error, attempts int) *ExhaustedRetriesError {
	return &ExhaustedRetriesError{
		Err:      lastErr,
		Attempts: attempts,
	}
}

// IsRetryable informa se o erro é transitório e elegível para retry.
// Apenas erros de validação ficam fora do orçamento de retries.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var validationErr *ValidationError
	return !errors.As(err, &validationErr)
}

package syncing

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insights-sync-api/internal/domain"
	"github.com/vfg2006/insights-sync-api/pkg/utils"
)

// singleChunkMaxDays é o maior intervalo carregado de uma vez só; acima
// disso o intervalo é fatiado em chunks de até ChunkDays dias
const singleChunkMaxDays = 60

// fallbackOrder é a ordem padrão de fallback de níveis, do mais granular
// para o menos granular
var fallbackOrder = []domain.Level{domain.LevelAd, domain.LevelAdset, domain.LevelCampaign}

// fallbackIndex retorna a posição do nível na ordem de fallback ou -1
// quando o nível não participa da cascata (account, por exemplo)
func fallbackIndex(level domain.Level) int {
	for i, l := range fallbackOrder {
		if l == level {
			return i
		}
	}
	return -1
}

// normalizeAccountID aplica o prefixo de conta da plataforma quando ausente
func normalizeAccountID(accountID string) string {
	if strings.HasPrefix(accountID, "act_") {
		return accountID
	}
	return "act_" + accountID
}

// resolveDates transforma preset e/ou datas explícitas da requisição em um
// resultado concreto. Datas explícitas dominam o preset (que é descartado
// com um aviso); informar só uma das duas datas é erro de validação; nada
// informado resolve para [ontem, ontem].
func resolveDates(preset domain.DatePreset, since, until string) (domain.ResolvedDates, error) {
	return resolveDatesAt(preset, since, until, time.Now().UTC())
}

func resolveDatesAt(preset domain.DatePreset, since, until string, now time.Time) (domain.ResolvedDates, error) {
	if since != "" || until != "" {
		if since == "" || until == "" {
			return domain.ResolvedDates{}, domain.NewValidationError(domain.ErrIncompleteDateBounds, "since/until", "")
		}

		if preset != "" {
			logrus.WithFields(logrus.Fields{
				"date_preset": preset,
				"since":       since,
				"until":       until,
			}).Warn("Datas explícitas informadas junto com preset, preset descartado")
		}

		sinceDate, err := utils.ParseDate(since)
		if err != nil {
			return domain.ResolvedDates{}, domain.NewValidationError(domain.ErrInvalidDateFormat, "since", since)
		}

		untilDate, err := utils.ParseDate(until)
		if err != nil {
			return domain.ResolvedDates{}, domain.NewValidationError(domain.ErrInvalidDateFormat, "until", until)
		}

		if sinceDate.After(untilDate) {
			return domain.ResolvedDates{}, domain.NewValidationError(domain.ErrInvertedDateBounds, "since/until", since+" > "+until)
		}

		return domain.ResolvedDates{Range: &domain.DateRange{Since: sinceDate, Until: untilDate}}, nil
	}

	if preset != "" {
		if _, err := domain.ParseDatePreset(string(preset)); err != nil {
			return domain.ResolvedDates{}, domain.NewValidationError(domain.ErrInvalidDateFormat, "date_preset", string(preset))
		}

		dateRange := presetToRange(preset, utils.StartOfDay(now))
		if dateRange == nil {
			// Preset sem datas concretas (lifetime): repassado à plataforma
			// como token nativo, processado como um único chunk lógico
			return domain.ResolvedDates{Preset: &preset}, nil
		}
		return domain.ResolvedDates{Range: dateRange}, nil
	}

	yesterday := utils.StartOfDay(now).AddDate(0, 0, -1)
	return domain.ResolvedDates{Range: &domain.DateRange{Since: yesterday, Until: yesterday}}, nil
}

// presetToRange resolve um preset relativo para o intervalo concreto
// correspondente, tomando today como referência. Presets nativos da
// plataforma (lifetime) retornam nil.
func presetToRange(preset domain.DatePreset, today time.Time) *domain.DateRange {
	switch preset {
	case domain.DatePresetToday:
		return &domain.DateRange{Since: today, Until: today}
	case domain.DatePresetYesterday:
		yesterday := today.AddDate(0, 0, -1)
		return &domain.DateRange{Since: yesterday, Until: yesterday}
	case domain.DatePresetLast3D:
		return &domain.DateRange{Since: today.AddDate(0, 0, -3), Until: today.AddDate(0, 0, -1)}
	case domain.DatePresetLast7D:
		return &domain.DateRange{Since: today.AddDate(0, 0, -7), Until: today.AddDate(0, 0, -1)}
	case domain.DatePresetLast14D:
		return &domain.DateRange{Since: today.AddDate(0, 0, -14), Until: today.AddDate(0, 0, -1)}
	case domain.DatePresetLast28D:
		return &domain.DateRange{Since: today.AddDate(0, 0, -28), Until: today.AddDate(0, 0, -1)}
	case domain.DatePresetThisMonth:
		return &domain.DateRange{Since: utils.FirstDayOfMonth(today), Until: today}
	case domain.DatePresetLastMonth:
		lastOfPrevious := utils.FirstDayOfMonth(today).AddDate(0, 0, -1)
		return &domain.DateRange{Since: utils.FirstDayOfMonth(lastOfPrevious), Until: lastOfPrevious}
	}
	return nil
}

// chunkRange fatia um intervalo longo em chunks consecutivos, sem lacunas
// nem sobreposição, em ordem cronológica ascendente. Intervalos de até 60
// dias passam inteiros como um único chunk; acima disso cada chunk cobre
// no máximo chunkDays dias e o último é truncado em Until.
func chunkRange(dateRange domain.DateRange, chunkDays int) []domain.DateRange {
	if dateRange.Days() <= singleChunkMaxDays {
		return []domain.DateRange{dateRange}
	}

	chunks := make([]domain.DateRange, 0, dateRange.Days()/chunkDays+1)

	cursor := dateRange.Since
	for !cursor.After(dateRange.Until) {
		end := cursor.AddDate(0, 0, chunkDays-1)
		if end.After(dateRange.Until) {
			end = dateRange.Until
		}
		chunks = append(chunks, domain.DateRange{Since: cursor, Until: end})
		cursor = end.AddDate(0, 0, 1)
	}

	return chunks
}

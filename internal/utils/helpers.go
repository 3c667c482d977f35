package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"

	"go.uber.org/zap"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeError(w, &models.ErrorResponse{StatusCode: statusCode, Message: message})
}

// SendError переводит ошибку сервиса в HTTP-ответ.
func SendError(w http.ResponseWriter, err error) *models.ErrorResponse {
	errorResponse := models.ResponseFromError(err)
	writeError(w, errorResponse)
	return errorResponse
}

func writeError(w http.ResponseWriter, errorResponse *models.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorResponse.StatusCode)
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		zap.L().Warn("failed to encode error response", zap.Error(err))
	}
}

// WriteJSON отправляет ответ в формате JSON
func WriteJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 50 {
			return 0, 0, fmt.Errorf("%w: limit must be a positive integer [1:50]", models.ErrInvalidParameter)
		}
	} else {
		limit = 5
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("%w: offset must be a non-negative integer", models.ErrInvalidParameter)
		}
	}

	return limit, offset, nil
}

// ParseDate разбирает дату YYYY-MM-DD. Пустая строка даёт нулевое время.
func ParseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", models.ErrInvalidParameter, field)
	}
	return date, nil
}

// ParseBool разбирает флаг из query-параметра. Пустая строка даёт def.
func ParseBool(value, field string, def bool) (bool, error) {
	if value == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", models.ErrInvalidParameter, field)
	}
	return b, nil
}

// SplitList собирает значения параметра, переданного несколько раз или через запятую.
func SplitList(values []string) []string {
	var result []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

// ContainsStatus - функция для проверки перехода у предложений
func ContainsStatus(validTransitions []models.QuoteStatus, newStatus models.QuoteStatus) bool {
	for _, validStatus := range validTransitions {
		if validStatus == newStatus {
			return true
		}
	}
	return false
}

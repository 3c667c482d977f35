package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/senyabanana/shipquote-service/internal/models"
	"github.com/senyabanana/shipquote-service/internal/utils"

	"go.uber.org/zap"
)

// fail отправляет ошибку клиенту. Ошибки сервера пишутся в лог целиком.
func fail(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error, fields ...zap.Field) {
	errorResponse := utils.SendError(w, err)
	fields = append(fields,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", errorResponse.StatusCode),
		zap.Error(err))
	if errorResponse.StatusCode >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
		return
	}
	logger.Debug("request rejected", fields...)
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrInvalidParameter)
	}
	return nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Country представляет страну, в которой расположены порты.
type Country struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Continent string `json:"continent"`
}

// CountryRequest представляет структуру запроса для создания страны.
type CountryRequest struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	Continent string `json:"continent"`
}

// Port представляет морской порт.
type Port struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Code        string           `json:"code"`
	CountryID   string           `json:"countryId"`
	CountryCode string           `json:"countryCode,omitempty"`
	City        string           `json:"city"`
	Latitude    *decimal.Decimal `json:"latitude,omitempty"`
	Longitude   *decimal.Decimal `json:"longitude,omitempty"`
	IsActive    bool             `json:"isActive"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// PortRequest представляет структуру запроса для создания порта.
type PortRequest struct {
	Name      string           `json:"name"`
	Code      string           `json:"code"`
	CountryID string           `json:"countryId"`
	City      string           `json:"city"`
	Latitude  *decimal.Decimal `json:"latitude"`
	Longitude *decimal.Decimal `json:"longitude"`
}

// PortFilter - параметры выборки списка портов.
type PortFilter struct {
	Limit        int
	Offset       int
	CountryCodes []string
	OnlyActive   bool
}

package models

import "github.com/shopspring/decimal"

type (
	ContainerSize string // Размер контейнера
	ContainerKind string // Назначение контейнера
)

const (
	Size20   ContainerSize = "20"
	Size40   ContainerSize = "40"
	Size40HC ContainerSize = "40HC"
	Size45   ContainerSize = "45"

	DryContainer      ContainerKind = "DRY"
	ReeferContainer   ContainerKind = "REEFER"
	OpenTopContainer  ContainerKind = "OPEN_TOP"
	FlatRackContainer ContainerKind = "FLAT_RACK"
	TankContainer     ContainerKind = "TANK"
)

// ContainerType представляет тип контейнера из справочника.
type ContainerType struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Size           ContainerSize   `json:"size"`
	Type           ContainerKind   `json:"type"`
	MaxWeight      decimal.Decimal `json:"maxWeight"`
	InternalLength decimal.Decimal `json:"internalLength"`
	InternalWidth  decimal.Decimal `json:"internalWidth"`
	InternalHeight decimal.Decimal `json:"internalHeight"`
	Volume         decimal.Decimal `json:"volume"`
	IsActive       bool            `json:"isActive"`
}

// ContainerTypeRequest представляет структуру запроса для создания типа контейнера.
type ContainerTypeRequest struct {
	Name           string          `json:"name"`
	Size           ContainerSize   `json:"size"`
	Type           ContainerKind   `json:"type"`
	MaxWeight      decimal.Decimal `json:"maxWeight"`
	InternalLength decimal.Decimal `json:"internalLength"`
	InternalWidth  decimal.Decimal `json:"internalWidth"`
	InternalHeight decimal.Decimal `json:"internalHeight"`
	Volume         decimal.Decimal `json:"volume"`
}

// CargoType представляет тип груза.
type CargoType struct {
	ID                      string          `json:"id"`
	Name                    string          `json:"name"`
	Description             string          `json:"description"`
	Hazardous               bool            `json:"hazardous"`
	RequiresSpecialHandling bool            `json:"requiresSpecialHandling"`
	DensityFactor           decimal.Decimal `json:"densityFactor"`
}

// CargoTypeRequest представляет структуру запроса для создания типа груза.
type CargoTypeRequest struct {
	Name                    string           `json:"name"`
	Description             string           `json:"description"`
	Hazardous               bool             `json:"hazardous"`
	RequiresSpecialHandling bool             `json:"requiresSpecialHandling"`
	DensityFactor           *decimal.Decimal `json:"densityFactor"`
}

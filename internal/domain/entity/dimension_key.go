package entity

import "strings"

// DimensionKey es la identidad compuesta de una posición de stock:
// artículo + 8 coordenadas de almacenamiento + 5 de variante de producto +
// 2 de trazabilidad. Todas las coordenadas son opcionales excepto Item;
// una coordenada ausente ("") solo coincide con otra ausente.
// Es un value object comparable: la igualdad es igualdad de struct.
type DimensionKey struct {
	Item string `json:"item"`

	// Coordenadas de almacenamiento
	Site      string `json:"site,omitempty"`
	Warehouse string `json:"warehouse,omitempty"`
	Zone      string `json:"zone,omitempty"`
	Location  string `json:"location,omitempty"`
	Aisle     string `json:"aisle,omitempty"`
	Rack      string `json:"rack,omitempty"`
	Shelf     string `json:"shelf,omitempty"`
	Bin       string `json:"bin,omitempty"`

	// Coordenadas de variante de producto
	Config  string `json:"config,omitempty"`
	Color   string `json:"color,omitempty"`
	Size    string `json:"size,omitempty"`
	Style   string `json:"style,omitempty"`
	Version string `json:"version,omitempty"`

	// Coordenadas de trazabilidad
	Batch  string `json:"batch,omitempty"`
	Serial string `json:"serial,omitempty"`
}

// StorageCoords es el subconjunto de coordenadas de almacenamiento de una línea
// (origen o destino). Un TRANSFER llena ambas; el resto de tipos solo una.
type StorageCoords struct {
	Site      string `json:"site,omitempty"`
	Warehouse string `json:"warehouse,omitempty"`
	Zone      string `json:"zone,omitempty"`
	Location  string `json:"location,omitempty"`
	Aisle     string `json:"aisle,omitempty"`
	Rack      string `json:"rack,omitempty"`
	Shelf     string `json:"shelf,omitempty"`
	Bin       string `json:"bin,omitempty"`
}

// IsZero indica si no hay ninguna coordenada de almacenamiento definida.
func (s StorageCoords) IsZero() bool {
	return s == StorageCoords{}
}

// ProductCoords es el subconjunto de coordenadas de variante de producto de una línea.
type ProductCoords struct {
	Config  string `json:"config,omitempty"`
	Color   string `json:"color,omitempty"`
	Size    string `json:"size,omitempty"`
	Style   string `json:"style,omitempty"`
	Version string `json:"version,omitempty"`
}

// TrackingCoords es el subconjunto de coordenadas de trazabilidad de una línea.
type TrackingCoords struct {
	Batch  string `json:"batch,omitempty"`
	Serial string `json:"serial,omitempty"`
}

// NewDimensionKey arma la llave completa a partir del artículo y los tres
// subconjuntos de coordenadas de una línea.
func NewDimensionKey(item string, storage StorageCoords, product ProductCoords, tracking TrackingCoords) DimensionKey {
	return DimensionKey{
		Item:      item,
		Site:      storage.Site,
		Warehouse: storage.Warehouse,
		Zone:      storage.Zone,
		Location:  storage.Location,
		Aisle:     storage.Aisle,
		Rack:      storage.Rack,
		Shelf:     storage.Shelf,
		Bin:       storage.Bin,
		Config:    product.Config,
		Color:     product.Color,
		Size:      product.Size,
		Style:     product.Style,
		Version:   product.Version,
		Batch:     tracking.Batch,
		Serial:    tracking.Serial,
	}
}

// coords devuelve las 16 coordenadas en orden fijo (usado por Canonical y Matches).
func (k DimensionKey) coords() [16]string {
	return [16]string{
		k.Item,
		k.Site, k.Warehouse, k.Zone, k.Location, k.Aisle, k.Rack, k.Shelf, k.Bin,
		k.Config, k.Color, k.Size, k.Style, k.Version,
		k.Batch, k.Serial,
	}
}

// Canonical devuelve la codificación determinista de la llave (coordenadas
// unidas con "|"). Se usa como hash único en stock_balances y como llave de
// mapas en los motores de consulta. Invariante: a lo sumo un registro de
// balance por cada Canonical distinto.
func (k DimensionKey) Canonical() string {
	c := k.coords()
	return strings.Join(c[:], "|")
}

// ReducedDup devuelve la llave reducida para la detección de duplicados
// (item + site + warehouse + config + color + size + batch).
func (k DimensionKey) ReducedDup() string {
	return strings.Join([]string{k.Item, k.Site, k.Warehouse, k.Config, k.Color, k.Size, k.Batch}, "|")
}

// Matches indica si la llave cumple un filtro parcial: toda coordenada vacía
// del filtro coincide con cualquier valor; las definidas deben ser exactas.
func (k DimensionKey) Matches(filter DimensionKey) bool {
	kc, fc := k.coords(), filter.coords()
	for i := range fc {
		if fc[i] != "" && fc[i] != kc[i] {
			return false
		}
	}
	return true
}

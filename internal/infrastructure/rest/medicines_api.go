package rest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/domain"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// MedicinesAPI operaciones del recurso /medicines del backend.
type MedicinesAPI struct {
	client *Client
}

// NewMedicinesAPI construye el grupo de endpoints de medicamentos.
func NewMedicinesAPI(client *Client) *MedicinesAPI {
	return &MedicinesAPI{client: client}
}

// List obtiene los medicamentos con filtrado opcional.
func (a *MedicinesAPI) List(ctx context.Context, params dto.MedicineListParams) ([]entity.Medicine, error) {
	query := map[string]string{}
	if params.Skip > 0 {
		query["skip"] = strconv.Itoa(params.Skip)
	}
	if params.Limit > 0 {
		query["limit"] = strconv.Itoa(params.Limit)
	}
	if params.Search != "" {
		query["search"] = params.Search
	}
	if params.Category != "" {
		query["category"] = params.Category
	}

	var wires []medicineWire
	if err := a.client.get(ctx, "/medicines/", query, &wires); err != nil {
		return nil, err
	}
	medicines := make([]entity.Medicine, 0, len(wires))
	for _, w := range wires {
		medicines = append(medicines, w.toEntity())
	}
	return medicines, nil
}

// Get obtiene un medicamento por id.
func (a *MedicinesAPI) Get(ctx context.Context, id string) (entity.Medicine, error) {
	var w medicineWire
	if err := a.client.get(ctx, "/medicines/"+id, nil, &w); err != nil {
		return entity.Medicine{}, err
	}
	return w.toEntity(), nil
}

// Create crea un medicamento y devuelve la versión del servidor.
func (a *MedicinesAPI) Create(ctx context.Context, m entity.Medicine) (entity.Medicine, error) {
	body := medicineCreateWire{
		Name:                 m.Name,
		Description:          m.Description,
		Price:                m.Price,
		Stock:                m.Stock,
		Category:             m.Category,
		Manufacturer:         m.Manufacturer,
		Dosage:               m.Dosage,
		PrescriptionRequired: m.PrescriptionRequired,
		MinStockLevel:        m.MinStockLevel,
		MaxStockLevel:        m.MaxStockLevel,
	}
	var w medicineWire
	if err := a.client.post(ctx, "/medicines/", body, &w); err != nil {
		return entity.Medicine{}, err
	}
	return w.toEntity(), nil
}

// Update actualiza un medicamento y devuelve la versión del servidor.
func (a *MedicinesAPI) Update(ctx context.Context, m entity.Medicine) (entity.Medicine, error) {
	body := medicineCreateWire{
		Name:                 m.Name,
		Description:          m.Description,
		Price:                m.Price,
		Stock:                m.Stock,
		Category:             m.Category,
		Manufacturer:         m.Manufacturer,
		Dosage:               m.Dosage,
		PrescriptionRequired: m.PrescriptionRequired,
		MinStockLevel:        m.MinStockLevel,
		MaxStockLevel:        m.MaxStockLevel,
	}
	var w medicineWire
	if err := a.client.put(ctx, "/medicines/"+m.ID, body, &w); err != nil {
		return entity.Medicine{}, err
	}
	return w.toEntity(), nil
}

// Delete elimina (soft delete) un medicamento.
func (a *MedicinesAPI) Delete(ctx context.Context, id string) error {
	return a.client.delete(ctx, "/medicines/"+id)
}

// UpdateStock aplica add/subtract sobre el stock. El servidor es la
// autoridad: el valor devuelto es el stock resultante (con clamp a 0).
func (a *MedicinesAPI) UpdateStock(ctx context.Context, id string, quantity int, op entity.StockOperation) (entity.Medicine, error) {
	if !op.Valid() {
		return entity.Medicine{}, fmt.Errorf("%w: operación %q", domain.ErrInvalidInput, op)
	}
	numericID, err := parseID(id)
	if err != nil {
		return entity.Medicine{}, fmt.Errorf("%w: id %q", domain.ErrInvalidInput, id)
	}
	body := stockUpdateWire{
		MedicineID: numericID,
		Quantity:   quantity,
		Operation:  string(op),
	}
	var w medicineWire
	if err := a.client.patch(ctx, "/medicines/"+id+"/stock", body, &w); err != nil {
		return entity.Medicine{}, err
	}
	return w.toEntity(), nil
}

// LowStock obtiene los medicamentos en o por debajo de su umbral mínimo
// según el cálculo del servidor.
func (a *MedicinesAPI) LowStock(ctx context.Context) ([]entity.Medicine, error) {
	var wires []medicineWire
	if err := a.client.get(ctx, "/medicines/low-stock/", nil, &wires); err != nil {
		return nil, err
	}
	medicines := make([]entity.Medicine, 0, len(wires))
	for _, w := range wires {
		medicines = append(medicines, w.toEntity())
	}
	return medicines, nil
}

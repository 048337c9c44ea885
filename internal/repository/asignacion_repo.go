package repository

import (
	"context"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AsignacionRepository is the data access contract for ruta-vendedor
// assignments. Creation happens inside the same transaction that generates
// the plan rows, so Create takes the tx.
type AsignacionRepository interface {
	CreateTx(tx *gorm.DB, a *model.Asignacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Asignacion, error)
	// FindPorRutaVendedor returns every assignment of the pair, finalized or
	// not: overlap detection compares against all historical windows.
	FindPorRutaVendedor(ctx context.Context, rutaID, vendedorID uuid.UUID) ([]model.Asignacion, error)
	FindActivaPorVendedor(ctx context.Context, vendedorID uuid.UUID) (*model.Asignacion, error)
	List(ctx context.Context, filter dto.AsignacionFilter) ([]model.Asignacion, int64, error)
	UpdateTx(tx *gorm.DB, a *model.Asignacion) error

	DB() *gorm.DB
}

type asignacionRepo struct{ db *gorm.DB }

func NewAsignacionRepository(db *gorm.DB) AsignacionRepository { return &asignacionRepo{db: db} }

func (r *asignacionRepo) CreateTx(tx *gorm.DB, a *model.Asignacion) error {
	return tx.Create(a).Error
}

func (r *asignacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Asignacion, error) {
	var a model.Asignacion
	err := r.db.WithContext(ctx).Preload("Ruta").Preload("Vendedor").First(&a, id).Error
	return &a, err
}

func (r *asignacionRepo) FindPorRutaVendedor(ctx context.Context, rutaID, vendedorID uuid.UUID) ([]model.Asignacion, error) {
	var asignaciones []model.Asignacion
	err := r.db.WithContext(ctx).
		Where("ruta_id = ? AND vendedor_id = ?", rutaID, vendedorID).
		Find(&asignaciones).Error
	return asignaciones, err
}

func (r *asignacionRepo) FindActivaPorVendedor(ctx context.Context, vendedorID uuid.UUID) (*model.Asignacion, error) {
	var a model.Asignacion
	err := r.db.WithContext(ctx).Preload("Ruta").
		Where("vendedor_id = ? AND activo = true", vendedorID).
		Order("fecha_inicio DESC").
		First(&a).Error
	return &a, err
}

func (r *asignacionRepo) List(ctx context.Context, filter dto.AsignacionFilter) ([]model.Asignacion, int64, error) {
	var asignaciones []model.Asignacion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Asignacion{})

	if filter.VendedorID != "" {
		q = q.Where("vendedor_id = ?", filter.VendedorID)
	}
	if filter.RutaID != "" {
		q = q.Where("ruta_id = ?", filter.RutaID)
	}
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Ruta").Preload("Vendedor").
		Order("fecha_inicio DESC").Limit(filter.Limit).Offset(offset).
		Find(&asignaciones).Error
	return asignaciones, total, err
}

func (r *asignacionRepo) UpdateTx(tx *gorm.DB, a *model.Asignacion) error {
	return tx.Save(a).Error
}

func (r *asignacionRepo) DB() *gorm.DB { return r.db }

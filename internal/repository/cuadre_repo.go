package repository

import (
	"context"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CuadreRepository interface {
	CreateTx(tx *gorm.DB, c *model.CuadreDiario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CuadreDiario, error)
	FindPorCarga(ctx context.Context, cargaID uuid.UUID) (*model.CuadreDiario, error)
	Update(ctx context.Context, c *model.CuadreDiario) error
	FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.CuadreDiarioDetalle, error)
	UpdateDetalle(ctx context.Context, d *model.CuadreDiarioDetalle) error
	List(ctx context.Context, filter dto.CuadreFilter) ([]model.CuadreDiario, int64, error)
	CountPorEstado(ctx context.Context, estado model.EstadoCuadre) (int64, error)
	DB() *gorm.DB
}

type cuadreRepo struct{ db *gorm.DB }

func NewCuadreRepository(db *gorm.DB) CuadreRepository { return &cuadreRepo{db: db} }

func (r *cuadreRepo) DB() *gorm.DB { return r.db }

// CreateTx persists the cuadre together with its seeded detalle rows.
func (r *cuadreRepo) CreateTx(tx *gorm.DB, c *model.CuadreDiario) error {
	return tx.Create(c).Error
}

func (r *cuadreRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CuadreDiario, error) {
	var c model.CuadreDiario
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("CargaCamion.Camion").
		First(&c, id).Error
	return &c, err
}

func (r *cuadreRepo) FindPorCarga(ctx context.Context, cargaID uuid.UUID) (*model.CuadreDiario, error) {
	var c model.CuadreDiario
	err := r.db.WithContext(ctx).
		Where("carga_camion_id = ?", cargaID).
		First(&c).Error
	return &c, err
}

func (r *cuadreRepo) Update(ctx context.Context, c *model.CuadreDiario) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cuadreRepo) FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.CuadreDiarioDetalle, error) {
	var d model.CuadreDiarioDetalle
	err := r.db.WithContext(ctx).
		Preload("CuadreDiario").
		Preload("Producto").
		First(&d, id).Error
	return &d, err
}

func (r *cuadreRepo) UpdateDetalle(ctx context.Context, d *model.CuadreDiarioDetalle) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *cuadreRepo) List(ctx context.Context, filter dto.CuadreFilter) ([]model.CuadreDiario, int64, error) {
	var cuadres []model.CuadreDiario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CuadreDiario{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("fecha = ?", filter.Fecha)
	}
	if filter.CamionID != "" {
		q = q.Joins("JOIN cargas_camion cc ON cc.id = cuadres_diarios.carga_camion_id").
			Where("cc.camion_id = ?", filter.CamionID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("CargaCamion.Camion").
		Order("fecha DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&cuadres).Error
	return cuadres, total, err
}

func (r *cuadreRepo) CountPorEstado(ctx context.Context, estado model.EstadoCuadre) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.CuadreDiario{}).
		Where("estado = ?", estado).
		Count(&total).Error
	return total, err
}

package repository

import (
	"context"
	"time"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CargaRepository is the truck inventory ledger. Stock mutations happen only
// through the *Tx methods inside a sale (or cancellation) transaction; the
// row lock taken by FindDetalleForUpdateTx serializes concurrent sales
// against the same line.
type CargaRepository interface {
	Create(ctx context.Context, c *model.CargaCamion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CargaCamion, error)
	FindAbiertaPorCamionFecha(ctx context.Context, camionID uuid.UUID, fecha time.Time) (*model.CargaCamion, error)
	ExistePorCamionFecha(ctx context.Context, camionID uuid.UUID, fecha time.Time) (bool, error)
	List(ctx context.Context, filter dto.CargaFilter) ([]model.CargaCamion, int64, error)
	MarcarCerrada(ctx context.Context, id uuid.UUID) error

	// Lines
	CreateDetalle(ctx context.Context, d *model.CargaCamionDetalle) error
	FindDetalle(ctx context.Context, cargaID, productoID uuid.UUID) (*model.CargaCamionDetalle, error)
	CountDetalles(ctx context.Context, cargaID uuid.UUID) (int64, error)
	DeleteDetalle(ctx context.Context, id uuid.UUID) error

	// Transactional stock movements
	FindDetalleForUpdateTx(tx *gorm.DB, cargaID, productoID uuid.UUID) (*model.CargaCamionDetalle, error)
	DescontarStockTx(tx *gorm.DB, detalleID uuid.UUID, cantidad decimal.Decimal) error
	ReponerStockTx(tx *gorm.DB, cargaID, productoID uuid.UUID, cantidad decimal.Decimal) error

	DB() *gorm.DB
}

type cargaRepo struct{ db *gorm.DB }

func NewCargaRepository(db *gorm.DB) CargaRepository { return &cargaRepo{db: db} }

func (r *cargaRepo) Create(ctx context.Context, c *model.CargaCamion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cargaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CargaCamion, error) {
	var c model.CargaCamion
	err := r.db.WithContext(ctx).
		Preload("Camion").
		Preload("AsignacionCamionRuta").
		Preload("AsignacionCamionRuta.Ruta").
		Preload("Detalles", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Detalles.Producto").
		First(&c, id).Error
	return &c, err
}

func (r *cargaRepo) FindAbiertaPorCamionFecha(ctx context.Context, camionID uuid.UUID, fecha time.Time) (*model.CargaCamion, error) {
	var c model.CargaCamion
	err := r.db.WithContext(ctx).
		Where("camion_id = ? AND fecha = ? AND cerrada = false", camionID, fecha).
		First(&c).Error
	return &c, err
}

func (r *cargaRepo) ExistePorCamionFecha(ctx context.Context, camionID uuid.UUID, fecha time.Time) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.CargaCamion{}).
		Where("camion_id = ? AND fecha = ?", camionID, fecha).
		Count(&total).Error
	return total > 0, err
}

func (r *cargaRepo) List(ctx context.Context, filter dto.CargaFilter) ([]model.CargaCamion, int64, error) {
	var cargas []model.CargaCamion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CargaCamion{})

	if filter.CamionID != "" {
		q = q.Where("camion_id = ?", filter.CamionID)
	}
	if filter.Fecha != "" {
		q = q.Where("fecha = ?", filter.Fecha)
	}
	switch filter.Cerrada {
	case "true":
		q = q.Where("cerrada = true")
	case "false":
		q = q.Where("cerrada = false")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Camion").Preload("Detalles").Preload("Detalles.Producto").
		Order("fecha DESC").Limit(filter.Limit).Offset(offset).
		Find(&cargas).Error
	return cargas, total, err
}

func (r *cargaRepo) MarcarCerrada(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.CargaCamion{}).Where("id = ?", id).
		Update("cerrada", true).Error
}

func (r *cargaRepo) CreateDetalle(ctx context.Context, d *model.CargaCamionDetalle) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *cargaRepo) FindDetalle(ctx context.Context, cargaID, productoID uuid.UUID) (*model.CargaCamionDetalle, error) {
	var d model.CargaCamionDetalle
	err := r.db.WithContext(ctx).
		Where("carga_camion_id = ? AND producto_id = ?", cargaID, productoID).
		First(&d).Error
	return &d, err
}

func (r *cargaRepo) CountDetalles(ctx context.Context, cargaID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.CargaCamionDetalle{}).
		Where("carga_camion_id = ?", cargaID).
		Count(&total).Error
	return total, err
}

func (r *cargaRepo) DeleteDetalle(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CargaCamionDetalle{}, id).Error
}

// FindDetalleForUpdateTx takes a SELECT ... FOR UPDATE row lock on the line.
// The lock is held until the surrounding transaction commits, so the
// check-then-decrement pair in the sale flow is race-free.
func (r *cargaRepo) FindDetalleForUpdateTx(tx *gorm.DB, cargaID, productoID uuid.UUID) (*model.CargaCamionDetalle, error) {
	var d model.CargaCamionDetalle
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("carga_camion_id = ? AND producto_id = ?", cargaID, productoID).
		First(&d).Error
	return &d, err
}

func (r *cargaRepo) DescontarStockTx(tx *gorm.DB, detalleID uuid.UUID, cantidad decimal.Decimal) error {
	return tx.Model(&model.CargaCamionDetalle{}).Where("id = ?", detalleID).
		Update("cantidad_actual", gorm.Expr("cantidad_actual - ?", cantidad)).Error
}

func (r *cargaRepo) ReponerStockTx(tx *gorm.DB, cargaID, productoID uuid.UUID, cantidad decimal.Decimal) error {
	return tx.Model(&model.CargaCamionDetalle{}).
		Where("carga_camion_id = ? AND producto_id = ?", cargaID, productoID).
		Update("cantidad_actual", gorm.Expr("cantidad_actual + ?", cantidad)).Error
}

func (r *cargaRepo) DB() *gorm.DB { return r.db }

package repository

import (
	"context"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CamionRepository covers trucks and the camion-ruta bindings that ventas
// use to resolve the day's carga.
type CamionRepository interface {
	Create(ctx context.Context, c *model.Camion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Camion, error)
	ExistePlaca(ctx context.Context, placa string) (bool, error)
	List(ctx context.Context, filter dto.CamionFilter) ([]model.Camion, int64, error)
	Update(ctx context.Context, c *model.Camion) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	CreateAsignacionRutaTx(tx *gorm.DB, a *model.AsignacionCamionRuta) error
	DesactivarAsignacionesPorRutaTx(tx *gorm.DB, rutaID uuid.UUID) error
	DesactivarAsignacionesPorCamionTx(tx *gorm.DB, camionID uuid.UUID) error
	FindAsignacionActivaPorRuta(ctx context.Context, rutaID uuid.UUID) (*model.AsignacionCamionRuta, error)
	FindAsignacionActivaPorCamion(ctx context.Context, camionID uuid.UUID) (*model.AsignacionCamionRuta, error)

	DB() *gorm.DB
}

type camionRepo struct{ db *gorm.DB }

func NewCamionRepository(db *gorm.DB) CamionRepository { return &camionRepo{db: db} }

func (r *camionRepo) Create(ctx context.Context, c *model.Camion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *camionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Camion, error) {
	var c model.Camion
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *camionRepo) ExistePlaca(ctx context.Context, placa string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Camion{}).
		Where("placa = ?", placa).Count(&total).Error
	return total > 0, err
}

func (r *camionRepo) List(ctx context.Context, filter dto.CamionFilter) ([]model.Camion, int64, error) {
	var camiones []model.Camion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Camion{})

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}
	if filter.Placa != "" {
		q = q.Where("placa ILIKE ?", "%"+filter.Placa+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("placa ASC").Limit(filter.Limit).Offset(offset).Find(&camiones).Error
	return camiones, total, err
}

func (r *camionRepo) Update(ctx context.Context, c *model.Camion) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *camionRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Camion{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *camionRepo) CreateAsignacionRutaTx(tx *gorm.DB, a *model.AsignacionCamionRuta) error {
	return tx.Create(a).Error
}

func (r *camionRepo) DesactivarAsignacionesPorRutaTx(tx *gorm.DB, rutaID uuid.UUID) error {
	return tx.Model(&model.AsignacionCamionRuta{}).
		Where("ruta_id = ? AND activo = true", rutaID).
		Update("activo", false).Error
}

func (r *camionRepo) DesactivarAsignacionesPorCamionTx(tx *gorm.DB, camionID uuid.UUID) error {
	return tx.Model(&model.AsignacionCamionRuta{}).
		Where("camion_id = ? AND activo = true", camionID).
		Update("activo", false).Error
}

func (r *camionRepo) FindAsignacionActivaPorRuta(ctx context.Context, rutaID uuid.UUID) (*model.AsignacionCamionRuta, error) {
	var a model.AsignacionCamionRuta
	err := r.db.WithContext(ctx).Preload("Camion").
		Where("ruta_id = ? AND activo = true", rutaID).
		First(&a).Error
	return &a, err
}

func (r *camionRepo) FindAsignacionActivaPorCamion(ctx context.Context, camionID uuid.UUID) (*model.AsignacionCamionRuta, error) {
	var a model.AsignacionCamionRuta
	err := r.db.WithContext(ctx).Preload("Ruta").
		Where("camion_id = ? AND activo = true", camionID).
		First(&a).Error
	return &a, err
}

func (r *camionRepo) DB() *gorm.DB { return r.db }

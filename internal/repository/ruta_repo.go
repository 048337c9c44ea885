package repository

import (
	"context"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RutaRepository covers routes and their ordered stops (RutaDetalle).
type RutaRepository interface {
	Create(ctx context.Context, rt *model.Ruta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ruta, error)
	ExisteCodigo(ctx context.Context, codigo string) (bool, error)
	List(ctx context.Context, filter dto.RutaFilter) ([]model.Ruta, int64, error)
	Update(ctx context.Context, rt *model.Ruta) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// Paradas
	CreateParada(ctx context.Context, d *model.RutaDetalle) error
	CreateParadaTx(tx *gorm.DB, d *model.RutaDetalle) error
	FindParadaByID(ctx context.Context, id uuid.UUID) (*model.RutaDetalle, error)
	// FindParadaPorCliente returns the client's most recent stop on the route
	// regardless of activo, so re-adding a removed client reactivates the
	// existing row instead of inserting a duplicate.
	FindParadaPorCliente(ctx context.Context, rutaID, clienteID uuid.UUID) (*model.RutaDetalle, error)
	ListParadas(ctx context.Context, rutaID uuid.UUID, soloActivas bool) ([]model.RutaDetalle, error)
	ListParadasTx(tx *gorm.DB, rutaID uuid.UUID, soloActivas bool) ([]model.RutaDetalle, error)
	CountParadasActivas(ctx context.Context, rutaID uuid.UUID) (int64, error)
	MaxOrdenVisita(ctx context.Context, rutaID uuid.UUID) (int, error)
	MaxOrdenVisitaTx(tx *gorm.DB, rutaID uuid.UUID) (int, error)
	UpdateParada(ctx context.Context, d *model.RutaDetalle) error
	DesactivarParada(ctx context.Context, id uuid.UUID) error
	// ReordenarParadasTx assigns orden_visita 1..n following detalleIDs. The
	// unique index on (ruta_id, orden_visita) is not deferrable, so ordenes
	// are first shifted out of range and then written in a second pass.
	ReordenarParadasTx(tx *gorm.DB, rutaID uuid.UUID, detalleIDs []uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type rutaRepo struct{ db *gorm.DB }

func NewRutaRepository(db *gorm.DB) RutaRepository { return &rutaRepo{db: db} }

func (r *rutaRepo) Create(ctx context.Context, rt *model.Ruta) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *rutaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ruta, error) {
	var rt model.Ruta
	err := r.db.WithContext(ctx).
		Preload("Detalles", func(db *gorm.DB) *gorm.DB { return db.Order("orden_visita ASC") }).
		Preload("Detalles.Cliente").
		First(&rt, id).Error
	return &rt, err
}

func (r *rutaRepo) ExisteCodigo(ctx context.Context, codigo string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Ruta{}).
		Where("codigo = ?", codigo).Count(&total).Error
	return total > 0, err
}

func (r *rutaRepo) List(ctx context.Context, filter dto.RutaFilter) ([]model.Ruta, int64, error) {
	var rutas []model.Ruta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Ruta{})

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("codigo ASC").Limit(filter.Limit).Offset(offset).Find(&rutas).Error
	return rutas, total, err
}

func (r *rutaRepo) Update(ctx context.Context, rt *model.Ruta) error {
	return r.db.WithContext(ctx).Save(rt).Error
}

func (r *rutaRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Ruta{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *rutaRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Ruta{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *rutaRepo) CreateParada(ctx context.Context, d *model.RutaDetalle) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *rutaRepo) CreateParadaTx(tx *gorm.DB, d *model.RutaDetalle) error {
	return tx.Create(d).Error
}

func (r *rutaRepo) FindParadaByID(ctx context.Context, id uuid.UUID) (*model.RutaDetalle, error) {
	var d model.RutaDetalle
	err := r.db.WithContext(ctx).Preload("Cliente").First(&d, id).Error
	return &d, err
}

func (r *rutaRepo) FindParadaPorCliente(ctx context.Context, rutaID, clienteID uuid.UUID) (*model.RutaDetalle, error) {
	var d model.RutaDetalle
	err := r.db.WithContext(ctx).
		Where("ruta_id = ? AND cliente_id = ?", rutaID, clienteID).
		Order("created_at DESC").
		First(&d).Error
	return &d, err
}

func (r *rutaRepo) ListParadas(ctx context.Context, rutaID uuid.UUID, soloActivas bool) ([]model.RutaDetalle, error) {
	return listParadas(r.db.WithContext(ctx), rutaID, soloActivas)
}

func (r *rutaRepo) ListParadasTx(tx *gorm.DB, rutaID uuid.UUID, soloActivas bool) ([]model.RutaDetalle, error) {
	return listParadas(tx, rutaID, soloActivas)
}

func listParadas(db *gorm.DB, rutaID uuid.UUID, soloActivas bool) ([]model.RutaDetalle, error) {
	var detalles []model.RutaDetalle
	q := db.Where("ruta_id = ?", rutaID)
	if soloActivas {
		q = q.Where("activo = true")
	}
	err := q.Preload("Cliente").Order("orden_visita ASC").Find(&detalles).Error
	return detalles, err
}

func (r *rutaRepo) CountParadasActivas(ctx context.Context, rutaID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.RutaDetalle{}).
		Where("ruta_id = ? AND activo = true", rutaID).Count(&total).Error
	return total, err
}

func (r *rutaRepo) MaxOrdenVisita(ctx context.Context, rutaID uuid.UUID) (int, error) {
	return maxOrdenVisita(r.db.WithContext(ctx), rutaID)
}

func (r *rutaRepo) MaxOrdenVisitaTx(tx *gorm.DB, rutaID uuid.UUID) (int, error) {
	return maxOrdenVisita(tx, rutaID)
}

func maxOrdenVisita(db *gorm.DB, rutaID uuid.UUID) (int, error) {
	var max *int
	err := db.Model(&model.RutaDetalle{}).Where("ruta_id = ?", rutaID).
		Select("MAX(orden_visita)").Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *rutaRepo) UpdateParada(ctx context.Context, d *model.RutaDetalle) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *rutaRepo) DesactivarParada(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.RutaDetalle{}).Where("id = ?", id).
		Update("activo", false).Error
}

func (r *rutaRepo) ReordenarParadasTx(tx *gorm.DB, rutaID uuid.UUID, detalleIDs []uuid.UUID) error {
	if err := tx.Model(&model.RutaDetalle{}).
		Where("ruta_id = ? AND activo = true", rutaID).
		Update("orden_visita", gorm.Expr("orden_visita + 100000")).Error; err != nil {
		return err
	}
	for i, id := range detalleIDs {
		if err := tx.Model(&model.RutaDetalle{}).
			Where("id = ? AND ruta_id = ?", id, rutaID).
			Update("orden_visita", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *rutaRepo) DB() *gorm.DB { return r.db }

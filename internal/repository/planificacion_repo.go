package repository

import (
	"context"
	"time"

	"github.com/dizanrev24/control-rutas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanificacionRepository covers plan rows and their lazily created visit
// records. Get-or-create is an upsert with ON CONFLICT DO NOTHING on the
// unique index, so concurrent generators never race into duplicates.
type PlanificacionRepository interface {
	// GetOrCreateTx upserts the plan row. Returns true when the row was newly
	// created; on conflict it loads the existing row into p.
	GetOrCreateTx(tx *gorm.DB, p *model.Planificacion) (bool, error)
	// DeleteFuturasSinVisitaTx removes plans on/after desde whose visit record
	// has no recorded arrival. Visited plans are never touched.
	DeleteFuturasSinVisitaTx(tx *gorm.DB, asignacionID uuid.UUID, desde time.Time) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Planificacion, error)
	ListPorVendedorFecha(ctx context.Context, vendedorID uuid.UUID, fecha time.Time) ([]model.Planificacion, error)

	// Visit records
	GetOrCreateDetalleTx(tx *gorm.DB, d *model.DetallePlanificacion) (bool, error)
	FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.DetallePlanificacion, error)
	FindDetalleByPlanID(ctx context.Context, planID uuid.UUID) (*model.DetallePlanificacion, error)
	UpdateDetalle(ctx context.Context, d *model.DetallePlanificacion) error
	ExisteFotoHash(ctx context.Context, hash string, excluirDetalleID uuid.UUID) (bool, error)

	// Audit read models
	ListDetallesFotoDuplicada(ctx context.Context, desde, hasta time.Time) ([]model.DetallePlanificacion, error)
	ListDetallesUbicacionInvalida(ctx context.Context, desde, hasta time.Time) ([]model.DetallePlanificacion, error)

	DB() *gorm.DB
}

type planificacionRepo struct{ db *gorm.DB }

func NewPlanificacionRepository(db *gorm.DB) PlanificacionRepository {
	return &planificacionRepo{db: db}
}

func (r *planificacionRepo) GetOrCreateTx(tx *gorm.DB, p *model.Planificacion) (bool, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "asignacion_id"}, {Name: "ruta_detalle_id"}, {Name: "fecha"},
		},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// Conflict: load the existing row so callers always get a valid ID.
	err := tx.Where("asignacion_id = ? AND ruta_detalle_id = ? AND fecha = ?",
		p.AsignacionID, p.RutaDetalleID, p.Fecha).First(p).Error
	return false, err
}

func (r *planificacionRepo) DeleteFuturasSinVisitaTx(tx *gorm.DB, asignacionID uuid.UUID, desde time.Time) (int64, error) {
	res := tx.Where(`asignacion_id = ? AND fecha >= ? AND id NOT IN (
		SELECT planificacion_id FROM detalle_planificaciones WHERE hora_llegada IS NOT NULL)`,
		asignacionID, desde).
		Delete(&model.Planificacion{})
	return res.RowsAffected, res.Error
}

func (r *planificacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Planificacion, error) {
	var p model.Planificacion
	err := r.db.WithContext(ctx).
		Preload("Asignacion").
		Preload("Asignacion.Vendedor").
		Preload("RutaDetalle").
		Preload("RutaDetalle.Cliente").
		Preload("Detalle").
		First(&p, id).Error
	return &p, err
}

func (r *planificacionRepo) ListPorVendedorFecha(ctx context.Context, vendedorID uuid.UUID, fecha time.Time) ([]model.Planificacion, error) {
	var planes []model.Planificacion
	err := r.db.WithContext(ctx).
		Joins("JOIN asignaciones ON asignaciones.id = planificaciones.asignacion_id").
		Joins("JOIN ruta_detalles ON ruta_detalles.id = planificaciones.ruta_detalle_id").
		Where("asignaciones.vendedor_id = ? AND planificaciones.fecha = ?", vendedorID, fecha).
		Preload("RutaDetalle").
		Preload("RutaDetalle.Cliente").
		Preload("Detalle").
		Order("ruta_detalles.orden_visita ASC").
		Find(&planes).Error
	return planes, err
}

func (r *planificacionRepo) GetOrCreateDetalleTx(tx *gorm.DB, d *model.DetallePlanificacion) (bool, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "planificacion_id"}},
		DoNothing: true,
	}).Create(d)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	err := tx.Where("planificacion_id = ?", d.PlanificacionID).First(d).Error
	return false, err
}

// FindDetalleByID loads a visit record with enough context to resolve the
// vendedor, the route and the client. Ventas and pedidos hang off this.
func (r *planificacionRepo) FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.DetallePlanificacion, error) {
	var d model.DetallePlanificacion
	err := r.db.WithContext(ctx).
		Preload("Planificacion").
		Preload("Planificacion.Asignacion").
		Preload("Planificacion.RutaDetalle").
		Preload("Planificacion.RutaDetalle.Cliente").
		First(&d, id).Error
	return &d, err
}

func (r *planificacionRepo) FindDetalleByPlanID(ctx context.Context, planID uuid.UUID) (*model.DetallePlanificacion, error) {
	var d model.DetallePlanificacion
	err := r.db.WithContext(ctx).Where("planificacion_id = ?", planID).First(&d).Error
	return &d, err
}

func (r *planificacionRepo) UpdateDetalle(ctx context.Context, d *model.DetallePlanificacion) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *planificacionRepo) ExisteFotoHash(ctx context.Context, hash string, excluirDetalleID uuid.UUID) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.DetallePlanificacion{}).
		Where("foto_hash = ? AND id <> ?", hash, excluirDetalleID).
		Count(&total).Error
	return total > 0, err
}

func (r *planificacionRepo) ListDetallesFotoDuplicada(ctx context.Context, desde, hasta time.Time) ([]model.DetallePlanificacion, error) {
	return r.listDetallesAuditoria(ctx, "detalle_planificaciones.foto_duplicada = true", desde, hasta)
}

func (r *planificacionRepo) ListDetallesUbicacionInvalida(ctx context.Context, desde, hasta time.Time) ([]model.DetallePlanificacion, error) {
	return r.listDetallesAuditoria(ctx, "detalle_planificaciones.ubicacion_valida = false", desde, hasta)
}

func (r *planificacionRepo) listDetallesAuditoria(ctx context.Context, cond string, desde, hasta time.Time) ([]model.DetallePlanificacion, error) {
	var detalles []model.DetallePlanificacion
	err := r.db.WithContext(ctx).
		Joins("JOIN planificaciones ON planificaciones.id = detalle_planificaciones.planificacion_id").
		Where(cond).
		Where("planificaciones.fecha BETWEEN ? AND ?", desde, hasta).
		Preload("Planificacion").
		Preload("Planificacion.Asignacion.Vendedor").
		Preload("Planificacion.RutaDetalle.Cliente").
		Order("planificaciones.fecha DESC").
		Find(&detalles).Error
	return detalles, err
}

func (r *planificacionRepo) DB() *gorm.DB { return r.db }

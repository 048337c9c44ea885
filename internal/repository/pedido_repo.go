package repository

import (
	"context"
	"time"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	Create(ctx context.Context, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado model.EstadoPedido) error
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	SumTotal(ctx context.Context, filter dto.PedidoFilter) (decimal.Decimal, error)
	CountPorEstado(ctx context.Context, estado model.EstadoPedido) (int64, error)
	// SumPorRutaFecha totals the pedidos taken on a route during one day,
	// feeding the cuadre resumen alongside the venta totals.
	SumPorRutaFecha(ctx context.Context, rutaID uuid.UUID, fecha time.Time) (decimal.Decimal, int64, error)
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) Create(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Cliente").
		First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado model.EstadoPedido) error {
	return r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ?", id).
		Update("estado", estado).Error
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64

	q := r.pedidoQuery(ctx, filter)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Detalles.Producto").Preload("Cliente").
		Order("fecha DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) SumTotal(ctx context.Context, filter dto.PedidoFilter) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.pedidoQuery(ctx, filter).Select("COALESCE(SUM(total), 0)").Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *pedidoRepo) CountPorEstado(ctx context.Context, estado model.EstadoPedido) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("estado = ?", estado).
		Count(&total).Error
	return total, err
}

func (r *pedidoRepo) SumPorRutaFecha(ctx context.Context, rutaID uuid.UUID, fecha time.Time) (decimal.Decimal, int64, error) {
	type fila struct {
		Total    decimal.NullDecimal
		Cantidad int64
	}
	var f fila
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Select("COALESCE(SUM(pedidos.total), 0) AS total, COUNT(*) AS cantidad").
		Joins(`JOIN detalle_planificaciones dp ON dp.id = pedidos.detalle_planificacion_id
			JOIN planificaciones p ON p.id = dp.planificacion_id
			JOIN asignaciones a ON a.id = p.asignacion_id`).
		Where("a.ruta_id = ? AND p.fecha = ?", rutaID, fecha).
		Scan(&f).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	if !f.Total.Valid {
		return decimal.Zero, f.Cantidad, nil
	}
	return f.Total.Decimal, f.Cantidad, nil
}

func (r *pedidoRepo) pedidoQuery(ctx context.Context, filter dto.PedidoFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Pedido{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("pedidos.estado = ?", filter.Estado)
	}
	if filter.FechaInicio != "" {
		q = q.Where("DATE(pedidos.fecha) >= ?", filter.FechaInicio)
	}
	if filter.FechaFin != "" {
		q = q.Where("DATE(pedidos.fecha) <= ?", filter.FechaFin)
	}
	if filter.ClienteID != "" {
		q = q.Where("pedidos.cliente_id = ?", filter.ClienteID)
	}
	if filter.VendedorID != "" {
		q = q.Joins(`JOIN detalle_planificaciones dp ON dp.id = pedidos.detalle_planificacion_id
			JOIN planificaciones p ON p.id = dp.planificacion_id
			JOIN asignaciones a ON a.id = p.asignacion_id`).
			Where("a.vendedor_id = ?", filter.VendedorID)
	}
	return q
}

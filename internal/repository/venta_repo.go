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

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoVenta, motivo string) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	SumTotal(ctx context.Context, filter dto.VentaFilter) (decimal.Decimal, error)
	// SumPorCarga feeds the cuadre summary: completed sales of one carga.
	SumPorCarga(ctx context.Context, cargaID uuid.UUID) (decimal.Decimal, int64, error)
	TotalesPorVendedor(ctx context.Context, desde, hasta time.Time) ([]dto.VentasVendedorRow, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Cliente").
		Preload("CargaCamion").
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoVenta, motivo string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Updates(map[string]interface{}{
		"estado":        estado,
		"observaciones": motivo,
	}).Error
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.ventaQuery(ctx, filter)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Detalles.Producto").Preload("Cliente").
		Order("fecha DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) SumTotal(ctx context.Context, filter dto.VentaFilter) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.ventaQuery(ctx, filter).Select("COALESCE(SUM(total), 0)").Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *ventaRepo) ventaQuery(ctx context.Context, filter dto.VentaFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("ventas.estado = ?", filter.Estado)
	}
	if filter.FechaInicio != "" {
		q = q.Where("DATE(ventas.fecha) >= ?", filter.FechaInicio)
	}
	if filter.FechaFin != "" {
		q = q.Where("DATE(ventas.fecha) <= ?", filter.FechaFin)
	}
	if filter.ClienteID != "" {
		q = q.Where("ventas.cliente_id = ?", filter.ClienteID)
	}
	if filter.VendedorID != "" {
		q = q.Joins(`JOIN detalle_planificaciones dp ON dp.id = ventas.detalle_planificacion_id
			JOIN planificaciones p ON p.id = dp.planificacion_id
			JOIN asignaciones a ON a.id = p.asignacion_id`).
			Where("a.vendedor_id = ?", filter.VendedorID)
	}
	return q
}

func (r *ventaRepo) SumPorCarga(ctx context.Context, cargaID uuid.UUID) (decimal.Decimal, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("carga_camion_id = ? AND estado = ?", cargaID, model.VentaCompletada)
	if err := q.Count(&total).Error; err != nil {
		return decimal.Zero, 0, err
	}
	var sum decimal.NullDecimal
	if err := q.Select("COALESCE(SUM(total), 0)").Scan(&sum).Error; err != nil {
		return decimal.Zero, 0, err
	}
	if !sum.Valid {
		return decimal.Zero, total, nil
	}
	return sum.Decimal, total, nil
}

func (r *ventaRepo) TotalesPorVendedor(ctx context.Context, desde, hasta time.Time) ([]dto.VentasVendedorRow, error) {
	var rows []dto.VentasVendedorRow
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select(`a.vendedor_id AS vendedor_id,
			u.nombre || ' ' || u.apellido AS vendedor,
			COUNT(ventas.id) AS cantidad_ventas,
			COALESCE(SUM(ventas.total), 0) AS total`).
		Joins(`JOIN detalle_planificaciones dp ON dp.id = ventas.detalle_planificacion_id
			JOIN planificaciones p ON p.id = dp.planificacion_id
			JOIN asignaciones a ON a.id = p.asignacion_id
			JOIN usuarios u ON u.id = a.vendedor_id`).
		Where("ventas.estado = ? AND DATE(ventas.fecha) BETWEEN ? AND ?",
			model.VentaCompletada, desde, hasta).
		Group("a.vendedor_id, u.nombre, u.apellido").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

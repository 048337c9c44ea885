package infra

import (
	"fmt"

	"github.com/dizanrev24/control-rutas/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express on its own (partial unique indexes, CHECK constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates or updates the schema. Also used by integration tests
// against a disposable database.
func RunMigrations(db *gorm.DB) error {
	// Parents before children so the FKs resolve on a fresh database.
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Producto{},
		&model.Ruta{},
		&model.RutaDetalle{},
		&model.Camion{},
		&model.AsignacionCamionRuta{},
		&model.Asignacion{},
		&model.Planificacion{},
		&model.DetallePlanificacion{},
		&model.CargaCamion{},
		&model.CargaCamionDetalle{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.Pedido{},
		&model.DetallePedido{},
		&model.CuadreDiario{},
		&model.CuadreDiarioDetalle{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that GORM AutoMigrate cannot express.
// Each statement is guarded by an existence check so re-running on an
// already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Stop order and client uniqueness apply only to active stops:
		// removed stops keep their rows so historic plans still resolve,
		// which forces the indexes to be partial.
		{"partial unique idx_ruta_orden", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ruta_orden') THEN
    CREATE UNIQUE INDEX idx_ruta_orden
        ON ruta_detalles (ruta_id, orden_visita)
        WHERE activo;
  END IF;
END $$`},
		{"partial unique idx_ruta_cliente", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ruta_cliente') THEN
    CREATE UNIQUE INDEX idx_ruta_cliente
        ON ruta_detalles (ruta_id, cliente_id)
        WHERE activo;
  END IF;
END $$`},
		// Last line of defense for concurrent sales against the same carga
		// line; the service already checks the balance inside the row-locked
		// transaction.
		{"check carga stock no negativo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_carga_stock_no_negativo') THEN
    ALTER TABLE carga_camion_detalles
      ADD CONSTRAINT chk_carga_stock_no_negativo CHECK (cantidad_actual >= 0);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

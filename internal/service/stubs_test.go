package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// In-memory repository stubs shared by the service tests. They implement the
// same interfaces production uses; tx parameters are always nil because the
// services run runTx in nil-db mode under test.

var errNoEncontrado = errors.New("registro no encontrado")

// assertKind checks that err carries the expected taxonomy kind.
func assertKind(t *testing.T, err error, kind apierror.Kind) {
	t.Helper()
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, kind, apiErr.Kind)
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubUsuarioRepo) List(_ context.Context, _ dto.UsuarioFilter) ([]model.Usuario, int64, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errNoEncontrado
	}
	u.Activo = activo
	return nil
}

func (r *stubUsuarioRepo) SetActivoTx(_ *gorm.DB, id uuid.UUID, activo bool) error {
	return r.SetActivo(context.Background(), id, activo)
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Clientes ─────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) CreateTx(_ *gorm.DB, c *model.Cliente) error {
	return r.Create(context.Background(), c)
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.clientes[id]
	if !ok {
		return errNoEncontrado
	}
	c.Activo = false
	return nil
}

func (r *stubClienteRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	c, ok := r.clientes[id]
	if !ok {
		return errNoEncontrado
	}
	c.Activo = true
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── Productos ────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return p, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo && p.Estado == model.ProductoActivo {
			return p, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubProductoRepo) ExisteCodigo(_ context.Context, codigo string) (bool, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) CambiarEstado(_ context.Context, id uuid.UUID, estado model.EstadoProducto) error {
	p, ok := r.productos[id]
	if !ok {
		return errNoEncontrado
	}
	p.Estado = estado
	return nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func seedProducto(repo *stubProductoRepo, nombre, codigo string, precio float64) *model.Producto {
	p := &model.Producto{
		ID:             uuid.New(),
		Codigo:         codigo,
		Nombre:         nombre,
		PrecioUnitario: decimal.NewFromFloat(precio),
		UnidadMedida:   "unidad",
		Estado:         model.ProductoActivo,
	}
	repo.productos[p.ID] = p
	return p
}

func seedVendedor(repo *stubUsuarioRepo, username string) *model.Usuario {
	u := &model.Usuario{
		ID: uuid.New(), Username: username, Nombre: "Pedro", Apellido: "Garcia",
		Rol: model.RolVendedor, Activo: true,
	}
	repo.usuarios[u.ID] = u
	return u
}

func seedRutaConParadas(repo *stubRutaRepo, codigo string, paradas int) *model.Ruta {
	rt := &model.Ruta{ID: uuid.New(), Codigo: codigo, Nombre: "Ruta " + codigo, Activo: true}
	repo.rutas[rt.ID] = rt
	for i := 0; i < paradas; i++ {
		repo.paradas = append(repo.paradas, &model.RutaDetalle{
			ID: uuid.New(), RutaID: rt.ID, ClienteID: uuid.New(),
			OrdenVisita: i + 1, Activo: true,
		})
	}
	return rt
}

func seedCamionConRuta(repo *stubCamionRepo, rutaID uuid.UUID, placa string) (*model.Camion, *model.AsignacionCamionRuta) {
	camion := &model.Camion{
		ID: uuid.New(), Placa: placa, Marca: "Isuzu", Modelo: "NPR",
		CapacidadKg: decimal.NewFromInt(3500), Activo: true,
	}
	repo.camiones[camion.ID] = camion
	vinculo := &model.AsignacionCamionRuta{
		ID: uuid.New(), CamionID: camion.ID, RutaID: rutaID,
		Activo: true, Camion: camion,
	}
	repo.vinculos = append(repo.vinculos, vinculo)
	return camion, vinculo
}

// ── Rutas y paradas ──────────────────────────────────────────────────────────

type stubRutaRepo struct {
	rutas   map[uuid.UUID]*model.Ruta
	paradas []*model.RutaDetalle
}

func newStubRutaRepo() *stubRutaRepo {
	return &stubRutaRepo{rutas: make(map[uuid.UUID]*model.Ruta)}
}

func (r *stubRutaRepo) Create(_ context.Context, rt *model.Ruta) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	r.rutas[rt.ID] = rt
	return nil
}

func (r *stubRutaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ruta, error) {
	rt, ok := r.rutas[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return rt, nil
}

func (r *stubRutaRepo) ExisteCodigo(_ context.Context, codigo string) (bool, error) {
	for _, rt := range r.rutas {
		if rt.Codigo == codigo {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRutaRepo) List(_ context.Context, _ dto.RutaFilter) ([]model.Ruta, int64, error) {
	out := make([]model.Ruta, 0, len(r.rutas))
	for _, rt := range r.rutas {
		out = append(out, *rt)
	}
	return out, int64(len(out)), nil
}

func (r *stubRutaRepo) Update(_ context.Context, rt *model.Ruta) error {
	r.rutas[rt.ID] = rt
	return nil
}

func (r *stubRutaRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	rt, ok := r.rutas[id]
	if !ok {
		return errNoEncontrado
	}
	rt.Activo = false
	return nil
}

func (r *stubRutaRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	rt, ok := r.rutas[id]
	if !ok {
		return errNoEncontrado
	}
	rt.Activo = true
	return nil
}

func (r *stubRutaRepo) CreateParada(_ context.Context, d *model.RutaDetalle) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.paradas = append(r.paradas, d)
	return nil
}

func (r *stubRutaRepo) CreateParadaTx(_ *gorm.DB, d *model.RutaDetalle) error {
	return r.CreateParada(context.Background(), d)
}

func (r *stubRutaRepo) FindParadaByID(_ context.Context, id uuid.UUID) (*model.RutaDetalle, error) {
	for _, d := range r.paradas {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubRutaRepo) FindParadaPorCliente(_ context.Context, rutaID, clienteID uuid.UUID) (*model.RutaDetalle, error) {
	for i := len(r.paradas) - 1; i >= 0; i-- {
		d := r.paradas[i]
		if d.RutaID == rutaID && d.ClienteID == clienteID {
			return d, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubRutaRepo) ListParadas(_ context.Context, rutaID uuid.UUID, soloActivas bool) ([]model.RutaDetalle, error) {
	out := make([]model.RutaDetalle, 0)
	for _, d := range r.paradas {
		if d.RutaID != rutaID {
			continue
		}
		if soloActivas && !d.Activo {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrdenVisita < out[j].OrdenVisita })
	return out, nil
}

func (r *stubRutaRepo) ListParadasTx(_ *gorm.DB, rutaID uuid.UUID, soloActivas bool) ([]model.RutaDetalle, error) {
	return r.ListParadas(context.Background(), rutaID, soloActivas)
}

func (r *stubRutaRepo) CountParadasActivas(_ context.Context, rutaID uuid.UUID) (int64, error) {
	var n int64
	for _, d := range r.paradas {
		if d.RutaID == rutaID && d.Activo {
			n++
		}
	}
	return n, nil
}

func (r *stubRutaRepo) MaxOrdenVisita(_ context.Context, rutaID uuid.UUID) (int, error) {
	max := 0
	for _, d := range r.paradas {
		if d.RutaID == rutaID && d.Activo && d.OrdenVisita > max {
			max = d.OrdenVisita
		}
	}
	return max, nil
}

func (r *stubRutaRepo) MaxOrdenVisitaTx(_ *gorm.DB, rutaID uuid.UUID) (int, error) {
	return r.MaxOrdenVisita(context.Background(), rutaID)
}

func (r *stubRutaRepo) UpdateParada(_ context.Context, d *model.RutaDetalle) error {
	for i, p := range r.paradas {
		if p.ID == d.ID {
			r.paradas[i] = d
			return nil
		}
	}
	return errNoEncontrado
}

func (r *stubRutaRepo) DesactivarParada(_ context.Context, id uuid.UUID) error {
	for _, d := range r.paradas {
		if d.ID == id {
			d.Activo = false
			return nil
		}
	}
	return errNoEncontrado
}

func (r *stubRutaRepo) ReordenarParadasTx(_ *gorm.DB, rutaID uuid.UUID, detalleIDs []uuid.UUID) error {
	for orden, id := range detalleIDs {
		for _, d := range r.paradas {
			if d.ID == id && d.RutaID == rutaID {
				d.OrdenVisita = orden + 1
			}
		}
	}
	return nil
}

func (r *stubRutaRepo) DB() *gorm.DB { return nil }

var _ repository.RutaRepository = (*stubRutaRepo)(nil)

// ── Camiones ─────────────────────────────────────────────────────────────────

type stubCamionRepo struct {
	camiones map[uuid.UUID]*model.Camion
	vinculos []*model.AsignacionCamionRuta
}

func newStubCamionRepo() *stubCamionRepo {
	return &stubCamionRepo{camiones: make(map[uuid.UUID]*model.Camion)}
}

func (r *stubCamionRepo) Create(_ context.Context, c *model.Camion) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.camiones[c.ID] = c
	return nil
}

func (r *stubCamionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Camion, error) {
	c, ok := r.camiones[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return c, nil
}

func (r *stubCamionRepo) ExistePlaca(_ context.Context, placa string) (bool, error) {
	for _, c := range r.camiones {
		if c.Placa == placa {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCamionRepo) List(_ context.Context, _ dto.CamionFilter) ([]model.Camion, int64, error) {
	out := make([]model.Camion, 0, len(r.camiones))
	for _, c := range r.camiones {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCamionRepo) Update(_ context.Context, c *model.Camion) error {
	r.camiones[c.ID] = c
	return nil
}

func (r *stubCamionRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.camiones[id]
	if !ok {
		return errNoEncontrado
	}
	c.Activo = false
	return nil
}

func (r *stubCamionRepo) CreateAsignacionRutaTx(_ *gorm.DB, a *model.AsignacionCamionRuta) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.vinculos = append(r.vinculos, a)
	return nil
}

func (r *stubCamionRepo) DesactivarAsignacionesPorRutaTx(_ *gorm.DB, rutaID uuid.UUID) error {
	for _, v := range r.vinculos {
		if v.RutaID == rutaID {
			v.Activo = false
		}
	}
	return nil
}

func (r *stubCamionRepo) DesactivarAsignacionesPorCamionTx(_ *gorm.DB, camionID uuid.UUID) error {
	for _, v := range r.vinculos {
		if v.CamionID == camionID {
			v.Activo = false
		}
	}
	return nil
}

func (r *stubCamionRepo) FindAsignacionActivaPorRuta(_ context.Context, rutaID uuid.UUID) (*model.AsignacionCamionRuta, error) {
	for _, v := range r.vinculos {
		if v.RutaID == rutaID && v.Activo {
			return v, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubCamionRepo) FindAsignacionActivaPorCamion(_ context.Context, camionID uuid.UUID) (*model.AsignacionCamionRuta, error) {
	for _, v := range r.vinculos {
		if v.CamionID == camionID && v.Activo {
			return v, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubCamionRepo) DB() *gorm.DB { return nil }

var _ repository.CamionRepository = (*stubCamionRepo)(nil)

// ── Asignaciones ─────────────────────────────────────────────────────────────

type stubAsignacionRepo struct {
	asignaciones map[uuid.UUID]*model.Asignacion
}

func newStubAsignacionRepo() *stubAsignacionRepo {
	return &stubAsignacionRepo{asignaciones: make(map[uuid.UUID]*model.Asignacion)}
}

func (r *stubAsignacionRepo) CreateTx(_ *gorm.DB, a *model.Asignacion) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.asignaciones[a.ID] = a
	return nil
}

func (r *stubAsignacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Asignacion, error) {
	a, ok := r.asignaciones[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return a, nil
}

func (r *stubAsignacionRepo) FindPorRutaVendedor(_ context.Context, rutaID, vendedorID uuid.UUID) ([]model.Asignacion, error) {
	out := make([]model.Asignacion, 0)
	for _, a := range r.asignaciones {
		if a.RutaID == rutaID && a.VendedorID == vendedorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAsignacionRepo) FindActivaPorVendedor(_ context.Context, vendedorID uuid.UUID) (*model.Asignacion, error) {
	for _, a := range r.asignaciones {
		if a.VendedorID == vendedorID && a.Activo {
			return a, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubAsignacionRepo) List(_ context.Context, _ dto.AsignacionFilter) ([]model.Asignacion, int64, error) {
	out := make([]model.Asignacion, 0, len(r.asignaciones))
	for _, a := range r.asignaciones {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *stubAsignacionRepo) UpdateTx(_ *gorm.DB, a *model.Asignacion) error {
	r.asignaciones[a.ID] = a
	return nil
}

func (r *stubAsignacionRepo) DB() *gorm.DB { return nil }

var _ repository.AsignacionRepository = (*stubAsignacionRepo)(nil)

// ── Planificaciones y visitas ────────────────────────────────────────────────

type stubPlanificacionRepo struct {
	planes   map[uuid.UUID]*model.Planificacion
	clave    map[string]uuid.UUID // asignacion|parada|fecha -> plan ID
	detalles map[uuid.UUID]*model.DetallePlanificacion
	porPlan  map[uuid.UUID]uuid.UUID // plan ID -> detalle ID
}

func newStubPlanificacionRepo() *stubPlanificacionRepo {
	return &stubPlanificacionRepo{
		planes:   make(map[uuid.UUID]*model.Planificacion),
		clave:    make(map[string]uuid.UUID),
		detalles: make(map[uuid.UUID]*model.DetallePlanificacion),
		porPlan:  make(map[uuid.UUID]uuid.UUID),
	}
}

func clavePlan(asignacionID, paradaID uuid.UUID, fecha time.Time) string {
	return asignacionID.String() + "|" + paradaID.String() + "|" + fecha.Format("2006-01-02")
}

// agregarPlan registers an already-built plan (with its object graph wired)
// so visit tests can start from a known schedule.
func (r *stubPlanificacionRepo) agregarPlan(p *model.Planificacion) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.planes[p.ID] = p
	r.clave[clavePlan(p.AsignacionID, p.RutaDetalleID, p.Fecha)] = p.ID
}

func (r *stubPlanificacionRepo) agregarDetalle(d *model.DetallePlanificacion) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.detalles[d.ID] = d
	r.porPlan[d.PlanificacionID] = d.ID
}

func (r *stubPlanificacionRepo) GetOrCreateTx(_ *gorm.DB, p *model.Planificacion) (bool, error) {
	k := clavePlan(p.AsignacionID, p.RutaDetalleID, p.Fecha)
	if id, ok := r.clave[k]; ok {
		*p = *r.planes[id]
		return false, nil
	}
	p.ID = uuid.New()
	cp := *p
	r.planes[p.ID] = &cp
	r.clave[k] = p.ID
	return true, nil
}

func (r *stubPlanificacionRepo) DeleteFuturasSinVisitaTx(_ *gorm.DB, asignacionID uuid.UUID, desde time.Time) (int64, error) {
	var borrados int64
	for id, p := range r.planes {
		if p.AsignacionID != asignacionID || p.Fecha.Before(desde) {
			continue
		}
		if detalleID, ok := r.porPlan[id]; ok && r.detalles[detalleID].HoraLlegada != nil {
			continue
		}
		delete(r.planes, id)
		delete(r.clave, clavePlan(p.AsignacionID, p.RutaDetalleID, p.Fecha))
		borrados++
	}
	return borrados, nil
}

func (r *stubPlanificacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Planificacion, error) {
	p, ok := r.planes[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return p, nil
}

func (r *stubPlanificacionRepo) ListPorVendedorFecha(_ context.Context, vendedorID uuid.UUID, fecha time.Time) ([]model.Planificacion, error) {
	out := make([]model.Planificacion, 0)
	for id, p := range r.planes {
		if p.Asignacion == nil || p.Asignacion.VendedorID != vendedorID || !p.Fecha.Equal(clock.Fecha(fecha)) {
			continue
		}
		cp := *p
		if detalleID, ok := r.porPlan[id]; ok {
			cp.Detalle = r.detalles[detalleID]
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := 0, 0
		if out[i].RutaDetalle != nil {
			oi = out[i].RutaDetalle.OrdenVisita
		}
		if out[j].RutaDetalle != nil {
			oj = out[j].RutaDetalle.OrdenVisita
		}
		return oi < oj
	})
	return out, nil
}

func (r *stubPlanificacionRepo) GetOrCreateDetalleTx(_ *gorm.DB, d *model.DetallePlanificacion) (bool, error) {
	if id, ok := r.porPlan[d.PlanificacionID]; ok {
		*d = *r.detalles[id]
		return false, nil
	}
	d.ID = uuid.New()
	cp := *d
	r.detalles[d.ID] = &cp
	r.porPlan[d.PlanificacionID] = d.ID
	return true, nil
}

func (r *stubPlanificacionRepo) FindDetalleByID(_ context.Context, id uuid.UUID) (*model.DetallePlanificacion, error) {
	d, ok := r.detalles[id]
	if !ok {
		return nil, errNoEncontrado
	}
	cp := *d
	cp.Planificacion = r.planes[d.PlanificacionID]
	return &cp, nil
}

func (r *stubPlanificacionRepo) FindDetalleByPlanID(_ context.Context, planID uuid.UUID) (*model.DetallePlanificacion, error) {
	id, ok := r.porPlan[planID]
	if !ok {
		return nil, errNoEncontrado
	}
	return r.FindDetalleByID(context.Background(), id)
}

func (r *stubPlanificacionRepo) UpdateDetalle(_ context.Context, d *model.DetallePlanificacion) error {
	if _, ok := r.detalles[d.ID]; !ok {
		return errNoEncontrado
	}
	cp := *d
	cp.Planificacion = nil
	r.detalles[d.ID] = &cp
	return nil
}

func (r *stubPlanificacionRepo) ExisteFotoHash(_ context.Context, hash string, excluirDetalleID uuid.UUID) (bool, error) {
	for _, d := range r.detalles {
		if d.ID != excluirDetalleID && d.FotoHash != nil && *d.FotoHash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPlanificacionRepo) ListDetallesFotoDuplicada(_ context.Context, _, _ time.Time) ([]model.DetallePlanificacion, error) {
	out := make([]model.DetallePlanificacion, 0)
	for _, d := range r.detalles {
		if d.FotoDuplicada {
			cp := *d
			cp.Planificacion = r.planes[d.PlanificacionID]
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *stubPlanificacionRepo) ListDetallesUbicacionInvalida(_ context.Context, _, _ time.Time) ([]model.DetallePlanificacion, error) {
	out := make([]model.DetallePlanificacion, 0)
	for _, d := range r.detalles {
		if d.UbicacionValida != nil && !*d.UbicacionValida {
			cp := *d
			cp.Planificacion = r.planes[d.PlanificacionID]
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *stubPlanificacionRepo) DB() *gorm.DB { return nil }

var _ repository.PlanificacionRepository = (*stubPlanificacionRepo)(nil)

// ── Cargas ───────────────────────────────────────────────────────────────────

type stubCargaRepo struct {
	cargas map[uuid.UUID]*model.CargaCamion
	lineas []*model.CargaCamionDetalle
}

func newStubCargaRepo() *stubCargaRepo {
	return &stubCargaRepo{cargas: make(map[uuid.UUID]*model.CargaCamion)}
}

func (r *stubCargaRepo) Create(_ context.Context, c *model.CargaCamion) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cargas[c.ID] = c
	return nil
}

func (r *stubCargaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CargaCamion, error) {
	c, ok := r.cargas[id]
	if !ok {
		return nil, errNoEncontrado
	}
	cp := *c
	cp.Detalles = nil
	for _, d := range r.lineas {
		if d.CargaCamionID == id {
			cp.Detalles = append(cp.Detalles, *d)
		}
	}
	return &cp, nil
}

func (r *stubCargaRepo) FindAbiertaPorCamionFecha(_ context.Context, camionID uuid.UUID, fecha time.Time) (*model.CargaCamion, error) {
	for id, c := range r.cargas {
		if c.CamionID == camionID && c.Fecha.Equal(clock.Fecha(fecha)) && !c.Cerrada {
			return r.FindByID(context.Background(), id)
		}
	}
	return nil, errNoEncontrado
}

func (r *stubCargaRepo) ExistePorCamionFecha(_ context.Context, camionID uuid.UUID, fecha time.Time) (bool, error) {
	for _, c := range r.cargas {
		if c.CamionID == camionID && c.Fecha.Equal(clock.Fecha(fecha)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCargaRepo) List(_ context.Context, _ dto.CargaFilter) ([]model.CargaCamion, int64, error) {
	out := make([]model.CargaCamion, 0, len(r.cargas))
	for _, c := range r.cargas {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCargaRepo) MarcarCerrada(_ context.Context, id uuid.UUID) error {
	c, ok := r.cargas[id]
	if !ok {
		return errNoEncontrado
	}
	c.Cerrada = true
	return nil
}

func (r *stubCargaRepo) CreateDetalle(_ context.Context, d *model.CargaCamionDetalle) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.lineas = append(r.lineas, d)
	return nil
}

func (r *stubCargaRepo) FindDetalle(_ context.Context, cargaID, productoID uuid.UUID) (*model.CargaCamionDetalle, error) {
	for _, d := range r.lineas {
		if d.CargaCamionID == cargaID && d.ProductoID == productoID {
			return d, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubCargaRepo) CountDetalles(_ context.Context, cargaID uuid.UUID) (int64, error) {
	var n int64
	for _, d := range r.lineas {
		if d.CargaCamionID == cargaID {
			n++
		}
	}
	return n, nil
}

func (r *stubCargaRepo) DeleteDetalle(_ context.Context, id uuid.UUID) error {
	for i, d := range r.lineas {
		if d.ID == id {
			r.lineas = append(r.lineas[:i], r.lineas[i+1:]...)
			return nil
		}
	}
	return errNoEncontrado
}

func (r *stubCargaRepo) FindDetalleForUpdateTx(_ *gorm.DB, cargaID, productoID uuid.UUID) (*model.CargaCamionDetalle, error) {
	return r.FindDetalle(context.Background(), cargaID, productoID)
}

func (r *stubCargaRepo) DescontarStockTx(_ *gorm.DB, detalleID uuid.UUID, cantidad decimal.Decimal) error {
	for _, d := range r.lineas {
		if d.ID == detalleID {
			nuevo := d.CantidadActual.Sub(cantidad)
			if nuevo.IsNegative() {
				return errors.New("violates check constraint chk_carga_stock_no_negativo")
			}
			d.CantidadActual = nuevo
			return nil
		}
	}
	return errNoEncontrado
}

func (r *stubCargaRepo) ReponerStockTx(_ *gorm.DB, cargaID, productoID uuid.UUID, cantidad decimal.Decimal) error {
	for _, d := range r.lineas {
		if d.CargaCamionID == cargaID && d.ProductoID == productoID {
			d.CantidadActual = d.CantidadActual.Add(cantidad)
			return nil
		}
	}
	return errNoEncontrado
}

func (r *stubCargaRepo) DB() *gorm.DB { return nil }

var _ repository.CargaRepository = (*stubCargaRepo)(nil)

// ── Ventas ───────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas          map[uuid.UUID]*model.Venta
	totalesVendedor []dto.VentasVendedorRow
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Detalles {
		if v.Detalles[i].ID == uuid.Nil {
			v.Detalles[i].ID = uuid.New()
		}
		v.Detalles[i].VentaID = v.ID
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return v, nil
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado model.EstadoVenta, motivo string) error {
	v, ok := r.ventas[id]
	if !ok {
		return errNoEncontrado
	}
	v.Estado = estado
	v.Observaciones = motivo
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) SumTotal(_ context.Context, _ dto.VentaFilter) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, v := range r.ventas {
		if v.Estado == model.VentaCompletada {
			total = total.Add(v.Total)
		}
	}
	return total, nil
}

func (r *stubVentaRepo) SumPorCarga(_ context.Context, cargaID uuid.UUID) (decimal.Decimal, int64, error) {
	total := decimal.Zero
	var n int64
	for _, v := range r.ventas {
		if v.CargaCamionID == cargaID && v.Estado == model.VentaCompletada {
			total = total.Add(v.Total)
			n++
		}
	}
	return total, n, nil
}

func (r *stubVentaRepo) TotalesPorVendedor(_ context.Context, _, _ time.Time) ([]dto.VentasVendedorRow, error) {
	return r.totalesVendedor, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── Pedidos ──────────────────────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) Create(_ context.Context, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Detalles {
		if p.Detalles[i].ID == uuid.Nil {
			p.Detalles[i].ID = uuid.New()
		}
		p.Detalles[i].PedidoID = p.ID
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return p, nil
}

func (r *stubPedidoRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado model.EstadoPedido) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errNoEncontrado
	}
	p.Estado = estado
	return nil
}

func (r *stubPedidoRepo) List(_ context.Context, _ dto.PedidoFilter) ([]model.Pedido, int64, error) {
	out := make([]model.Pedido, 0, len(r.pedidos))
	for _, p := range r.pedidos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) SumTotal(_ context.Context, _ dto.PedidoFilter) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.pedidos {
		if p.Estado != model.PedidoCancelado {
			total = total.Add(p.Total)
		}
	}
	return total, nil
}

func (r *stubPedidoRepo) CountPorEstado(_ context.Context, estado model.EstadoPedido) (int64, error) {
	var n int64
	for _, p := range r.pedidos {
		if p.Estado == estado {
			n++
		}
	}
	return n, nil
}

func (r *stubPedidoRepo) SumPorRutaFecha(_ context.Context, _ uuid.UUID, _ time.Time) (decimal.Decimal, int64, error) {
	total := decimal.Zero
	var n int64
	for _, p := range r.pedidos {
		if p.Estado != model.PedidoCancelado {
			total = total.Add(p.Total)
			n++
		}
	}
	return total, n, nil
}

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// ── Cuadres ──────────────────────────────────────────────────────────────────

type stubCuadreRepo struct {
	cuadres  map[uuid.UUID]*model.CuadreDiario
	detalles map[uuid.UUID]*model.CuadreDiarioDetalle
}

func newStubCuadreRepo() *stubCuadreRepo {
	return &stubCuadreRepo{
		cuadres:  make(map[uuid.UUID]*model.CuadreDiario),
		detalles: make(map[uuid.UUID]*model.CuadreDiarioDetalle),
	}
}

func (r *stubCuadreRepo) CreateTx(_ *gorm.DB, c *model.CuadreDiario) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Detalles {
		d := &c.Detalles[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.CuadreDiarioID = c.ID
		cp := *d
		r.detalles[d.ID] = &cp
	}
	r.cuadres[c.ID] = c
	return nil
}

func (r *stubCuadreRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CuadreDiario, error) {
	c, ok := r.cuadres[id]
	if !ok {
		return nil, errNoEncontrado
	}
	cp := *c
	cp.Detalles = nil
	for _, d := range r.detalles {
		if d.CuadreDiarioID == id {
			cp.Detalles = append(cp.Detalles, *d)
		}
	}
	sort.Slice(cp.Detalles, func(i, j int) bool {
		return cp.Detalles[i].ID.String() < cp.Detalles[j].ID.String()
	})
	return &cp, nil
}

func (r *stubCuadreRepo) FindPorCarga(_ context.Context, cargaID uuid.UUID) (*model.CuadreDiario, error) {
	for id, c := range r.cuadres {
		if c.CargaCamionID == cargaID {
			return r.FindByID(context.Background(), id)
		}
	}
	return nil, errNoEncontrado
}

func (r *stubCuadreRepo) Update(_ context.Context, c *model.CuadreDiario) error {
	if _, ok := r.cuadres[c.ID]; !ok {
		return errNoEncontrado
	}
	cp := *c
	cp.Detalles = nil
	r.cuadres[c.ID] = &cp
	return nil
}

func (r *stubCuadreRepo) FindDetalleByID(_ context.Context, id uuid.UUID) (*model.CuadreDiarioDetalle, error) {
	d, ok := r.detalles[id]
	if !ok {
		return nil, errNoEncontrado
	}
	cp := *d
	cp.CuadreDiario = r.cuadres[d.CuadreDiarioID]
	return &cp, nil
}

func (r *stubCuadreRepo) UpdateDetalle(_ context.Context, d *model.CuadreDiarioDetalle) error {
	if _, ok := r.detalles[d.ID]; !ok {
		return errNoEncontrado
	}
	cp := *d
	cp.CuadreDiario = nil
	r.detalles[d.ID] = &cp
	return nil
}

func (r *stubCuadreRepo) List(_ context.Context, _ dto.CuadreFilter) ([]model.CuadreDiario, int64, error) {
	out := make([]model.CuadreDiario, 0, len(r.cuadres))
	for _, c := range r.cuadres {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCuadreRepo) CountPorEstado(_ context.Context, estado model.EstadoCuadre) (int64, error) {
	var n int64
	for _, c := range r.cuadres {
		if c.Estado == estado {
			n++
		}
	}
	return n, nil
}

func (r *stubCuadreRepo) DB() *gorm.DB { return nil }

var _ repository.CuadreRepository = (*stubCuadreRepo)(nil)

// ── Fotos ────────────────────────────────────────────────────────────────────

type stubFotoStore struct {
	guardadas map[string][]byte
}

func newStubFotoStore() *stubFotoStore {
	return &stubFotoStore{guardadas: make(map[string][]byte)}
}

func (s *stubFotoStore) Guardar(relPath string, contenido []byte) error {
	s.guardadas[relPath] = contenido
	return nil
}

var _ FotoStore = (*stubFotoStore)(nil)

// ── Escenario de campo ───────────────────────────────────────────────────────

// escenarioCampo wires the object graph behind one planned visit: vendedor,
// ruta with a single client stop, active assignment and the day's plan.
type escenarioCampo struct {
	vendedor   *model.Usuario
	cliente    *model.Cliente
	ruta       *model.Ruta
	parada     *model.RutaDetalle
	asignacion *model.Asignacion
	plan       *model.Planificacion
	planRepo   *stubPlanificacionRepo
}

func nuevoEscenarioCampo(fecha time.Time) *escenarioCampo {
	lat, lon := 14.6345, -90.5069
	vendedor := &model.Usuario{
		ID: uuid.New(), Username: "vendedor1", Nombre: "Juan", Apellido: "Lopez",
		Rol: model.RolVendedor, Activo: true,
	}
	cliente := &model.Cliente{
		ID: uuid.New(), Nombre: "Tienda La Bendicion", Direccion: "4a calle 5-20 zona 1",
		Latitud: &lat, Longitud: &lon, Activo: true,
	}
	ruta := &model.Ruta{ID: uuid.New(), Codigo: "R-01", Nombre: "Zona 1", Activo: true}
	parada := &model.RutaDetalle{
		ID: uuid.New(), RutaID: ruta.ID, ClienteID: cliente.ID,
		OrdenVisita: 1, Activo: true, Cliente: cliente,
	}
	asignacion := &model.Asignacion{
		ID: uuid.New(), RutaID: ruta.ID, VendedorID: vendedor.ID,
		FechaInicio: clock.Fecha(fecha).AddDate(0, 0, -7), Activo: true,
		Ruta: ruta, Vendedor: vendedor,
	}
	plan := &model.Planificacion{
		AsignacionID: asignacion.ID, RutaDetalleID: parada.ID,
		Fecha: clock.Fecha(fecha), Tipo: model.PlanProgramada,
		Asignacion: asignacion, RutaDetalle: parada,
	}
	planRepo := newStubPlanificacionRepo()
	planRepo.agregarPlan(plan)

	return &escenarioCampo{
		vendedor:   vendedor,
		cliente:    cliente,
		ruta:       ruta,
		parada:     parada,
		asignacion: asignacion,
		plan:       plan,
		planRepo:   planRepo,
	}
}

// visitaActiva seeds a checked-in visit record (arrival set, departure open)
// so venta and pedido tests can start from the gate already passed.
func (e *escenarioCampo) visitaActiva(reloj clock.Clock) *model.DetallePlanificacion {
	llegada := reloj.Now()
	d := &model.DetallePlanificacion{
		ID:              uuid.New(),
		PlanificacionID: e.plan.ID,
		Estado:          model.VisitaVisitado,
		HoraLlegada:     &llegada,
	}
	e.planRepo.agregarDetalle(d)
	return d
}

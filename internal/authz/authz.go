// Package authz holds the role capability table. Every protected endpoint is
// gated by exactly one Accion, checked once at the service boundary via the
// RequireAccion middleware instead of ad-hoc role comparisons in handlers.
package authz

import "github.com/dizanrev24/control-rutas/internal/model"

type Accion string

const (
	GestionarAsignaciones Accion = "gestionar_asignaciones"
	VerAgenda             Accion = "ver_agenda"
	RegistrarVisitas      Accion = "registrar_visitas"
	GestionarCargas       Accion = "gestionar_cargas"
	RegistrarVentas       Accion = "registrar_ventas"
	AnularVentas          Accion = "anular_ventas"
	VerVentas             Accion = "ver_ventas"
	RegistrarPedidos      Accion = "registrar_pedidos"
	GestionarPedidos      Accion = "gestionar_pedidos"
	GestionarCuadres      Accion = "gestionar_cuadres"
	ConsultarPrecios      Accion = "consultar_precios"
	VerReportes           Accion = "ver_reportes"
	VerCatalogos          Accion = "ver_catalogos"
	GestionarCatalogos    Accion = "gestionar_catalogos"
	GestionarUsuarios     Accion = "gestionar_usuarios"
)

// capacidades: admin has everything; secretaria runs the back office
// (asignaciones, cargas, cuadres, pedidos) but cannot manage users or
// register field visits; vendedor is restricted to their own day in the
// field plus price lookups.
var capacidades = map[model.Rol]map[Accion]bool{
	model.RolAdmin: {
		GestionarAsignaciones: true,
		VerAgenda:             true,
		RegistrarVisitas:      true,
		GestionarCargas:       true,
		RegistrarVentas:       true,
		AnularVentas:          true,
		VerVentas:             true,
		RegistrarPedidos:      true,
		GestionarPedidos:      true,
		GestionarCuadres:      true,
		ConsultarPrecios:      true,
		VerReportes:           true,
		VerCatalogos:          true,
		GestionarCatalogos:    true,
		GestionarUsuarios:     true,
	},
	model.RolSecretaria: {
		GestionarAsignaciones: true,
		VerAgenda:             true,
		GestionarCargas:       true,
		AnularVentas:          true,
		VerVentas:             true,
		GestionarPedidos:      true,
		GestionarCuadres:      true,
		ConsultarPrecios:      true,
		VerReportes:           true,
		VerCatalogos:          true,
		GestionarCatalogos:    true,
	},
	model.RolVendedor: {
		VerAgenda:        true,
		RegistrarVisitas: true,
		RegistrarVentas:  true,
		RegistrarPedidos: true,
		ConsultarPrecios: true,
	},
}

// Puede reports whether the role is allowed to perform the action.
// Unknown roles and unknown actions are both denied.
func Puede(rol model.Rol, accion Accion) bool {
	caps, ok := capacidades[rol]
	if !ok {
		return false
	}
	return caps[accion]
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// VisitasRegistradas counts visit transitions by resulting estado.
	VisitasRegistradas = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "visitas_registradas_total", Help: "Visitas registradas por estado."},
		[]string{"estado"},
	)
	// FotosDuplicadas counts check-in photos flagged as already seen.
	FotosDuplicadas = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "fotos_duplicadas_total", Help: "Fotos de visita marcadas como duplicadas."},
	)
	// VentasRegistradas counts completed sales off the truck.
	VentasRegistradas = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ventas_registradas_total", Help: "Ventas registradas."},
	)
	// PlanificacionesGeneradas counts daily plan rows created by the generator.
	PlanificacionesGeneradas = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "planificaciones_generadas_total", Help: "Planificaciones diarias creadas."},
	)
	// CuadresFinalizados counts reconciliations by outcome.
	CuadresFinalizados = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cuadres_finalizados_total", Help: "Cuadres finalizados por estado."},
		[]string{"estado"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the API registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(VisitasRegistradas)
		Registry.MustRegister(FotosDuplicadas)
		Registry.MustRegister(VentasRegistradas)
		Registry.MustRegister(PlanificacionesGeneradas)
		Registry.MustRegister(CuadresFinalizados)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/isp/backend/internal/interfaces/http/handler"
	"github.com/isp/backend/internal/interfaces/http/middleware"
)

// Handlers groups every API handler
type Handlers struct {
	Neighborhoods *handler.NeighborhoodHandler
	Poles         *handler.PoleHandler
	Customers     *handler.CustomerHandler
	Catalog       *handler.CatalogHandler
	Plans         *handler.PlanHandler
	Subscribers   *handler.SubscriberHandler
	Requests      *handler.RequestHandler
	Contracts     *handler.ContractHandler
	Legacy        *handler.LegacyHandler
}

// Guards are per-route authorization checks. A nil guard allows everyone.
type Guards struct {
	// Capacity protects manual reserve and release
	Capacity gin.HandlerFunc
	// Write protects catalogue mutations
	Write gin.HandlerFunc
}

// RoleGuards returns the guards used when authentication is enabled
func RoleGuards() Guards {
	return Guards{
		Capacity: middleware.RequireAnyRole(middleware.RoleOperator),
		Write:    middleware.RequireAnyRole(middleware.RoleOperator),
	}
}

// DomainGroups builds the route table
func DomainGroups(h Handlers, g Guards) []RouteRegistrar {
	barrios := NewDomainGroup("network", "/barrios").
		GET("", h.Neighborhoods.List).
		GET("/locate", h.Neighborhoods.Locate).
		GET("/:id", h.Neighborhoods.Get).
		GET("/:id/postes", h.Neighborhoods.Poles).
		POST("", g.Write, h.Neighborhoods.Create).
		PUT("/:id", g.Write, h.Neighborhoods.Update).
		DELETE("/:id", g.Write, h.Neighborhoods.Delete)

	postes := NewDomainGroup("network", "/postes").
		GET("", h.Poles.List).
		GET("/disponibles", h.Poles.Available).
		GET("/:id", h.Poles.Get).
		POST("", g.Write, h.Poles.Create).
		PUT("/:id", g.Write, h.Poles.Update).
		POST("/:id/reservar", g.Capacity, h.Poles.Reserve).
		POST("/:id/liberar", g.Capacity, h.Poles.Release)

	clientes := NewDomainGroup("network", "/clientes").
		GET("", h.Customers.List).
		GET("/estadisticas", h.Customers.Stats).
		POST("/verificar-cobertura", h.Customers.CheckCoverage).
		GET("/:id", h.Customers.Get).
		POST("", h.Customers.Create).
		PUT("/:id", h.Customers.Update).
		DELETE("/:id", h.Customers.Delete).
		PUT("/:id/asignar-poste", h.Customers.AssignPole).
		POST("/:id/instalar", h.Customers.Install).
		POST("/:id/cancelar", h.Customers.Cancel)

	planes := NewDomainGroup("plan", "/planes")
	planes.Group("payment-methods", "/formas-pago").
		GET("", h.Catalog.ListPaymentMethods).
		GET("/:id", h.Catalog.GetPaymentMethod).
		POST("", g.Write, h.Catalog.CreatePaymentMethod).
		PUT("/:id", g.Write, h.Catalog.UpdatePaymentMethod).
		DELETE("/:id", g.Write, h.Catalog.DeletePaymentMethod)
	planes.Group("connection-types", "/tipos-conexion").
		GET("", h.Catalog.ListConnectionTypes).
		GET("/:id", h.Catalog.GetConnectionType).
		POST("", g.Write, h.Catalog.CreateConnectionType).
		PUT("/:id", g.Write, h.Catalog.UpdateConnectionType).
		DELETE("/:id", g.Write, h.Catalog.DeleteConnectionType)
	planes.Group("plans", "/planes").
		GET("", h.Plans.List).
		GET("/:id", h.Plans.Get).
		POST("", g.Write, h.Plans.Create).
		PUT("/:id", g.Write, h.Plans.Update).
		DELETE("/:id", g.Write, h.Plans.Delete)
	planes.Group("subscribers", "/abonados").
		GET("", h.Subscribers.List).
		GET("/estadisticas", h.Subscribers.Stats).
		GET("/:id", h.Subscribers.Get).
		POST("", h.Subscribers.Create).
		PUT("/:id", h.Subscribers.Update).
		DELETE("/:id", h.Subscribers.Delete)

	solicitudes := NewDomainGroup("workorder", "/solicitudes").
		GET("", h.Requests.List).
		GET("/:id", h.Requests.Get).
		POST("", h.Requests.Create).
		PUT("/:id", h.Requests.Update).
		DELETE("/:id", h.Requests.Delete).
		POST("/:id/estado", h.Requests.ChangeStatus).
		GET("/:id/seguimientos", h.Requests.FollowUps)

	contratos := NewDomainGroup("workorder", "/contratos").
		GET("", h.Contracts.List).
		GET("/:id", h.Contracts.Get)

	soli := NewDomainGroup("legacy", "/soli").
		GET("/facturas-locales", h.Legacy.ListInvoices).
		GET("/consulta-factura-cliente", h.Legacy.LookupInvoices).
		GET("/consulta-servicio", h.Legacy.LookupServices).
		GET("/servicios-locales", h.Legacy.ListServices).
		GET("/consulta-cliente", h.Legacy.LookupClient).
		GET("/clientes-locales", h.Legacy.ListClients).
		GET("/clientes-buscar", h.Legacy.SearchClients).
		GET("/cliente-servicios-facturas-resumido", h.Legacy.ClientSummary)

	return []RouteRegistrar{barrios, postes, clientes, planes, solicitudes, contratos, soli}
}

package router

import (
	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/interfaces/http/handler"
	"github.com/erp/logistics/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler of the API
type Handlers struct {
	System      *handler.SystemHandler
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Menu        *handler.MenuCodeHandler
	Partner     *handler.PartnerHandler
	PR          *handler.PurchaseRequestHandler
	PO          *handler.PurchaseOrderHandler
	Payable     *handler.PayableHandler
	Receivable  *handler.ReceivableHandler
	Sales       *handler.SalesOrderHandler
	Location    *handler.LocationHandler
	Part        *handler.PartHandler
	Rack        *handler.RackHandler
	Inventory   *handler.InventoryHandler
	Equipment   *handler.EquipmentHandler
	Maintenance *handler.MaintenanceHandler
	Schedule    *handler.ScheduleHandler
	Assistant   *handler.AssistantHandler
}

// DomainGroups builds the /api route groups
func DomainGroups(h *Handlers) []RouteRegistrar {
	manager := middleware.RequireRole(identity.RoleManager)
	admin := middleware.RequireRole(identity.RoleAdmin)

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.Me)
	authRoutes.PUT("/password", h.Auth.ChangePassword)

	userRoutes := NewDomainGroup("users", "/users").Use(admin)
	userRoutes.GET("", h.User.List)
	userRoutes.POST("", h.User.Create)
	userRoutes.GET("/:id", h.User.GetByID)
	userRoutes.PUT("/:id", h.User.Update)
	userRoutes.DELETE("/:id", h.User.Delete)
	userRoutes.POST("/:id/restore", h.User.Restore)
	userRoutes.POST("/:id/reset-password", h.User.ResetPassword)
	userRoutes.POST("/:id/unlock", h.User.Unlock)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.System.Info)

	menuRoutes := NewDomainGroup("menu", "/menu-codes")
	menuRoutes.GET("", h.Menu.List)
	menuRoutes.GET("/navigation", h.Menu.Navigation)
	menuRoutes.GET("/code/:code", h.Menu.GetByCode)
	menuRoutes.POST("", h.Menu.Create)
	menuRoutes.GET("/:id", h.Menu.GetByID)
	menuRoutes.PUT("/:id", h.Menu.Update)
	menuRoutes.DELETE("/:id", h.Menu.Delete)
	menuRoutes.POST("/:id/restore", h.Menu.Restore)

	partnerRoutes := NewDomainGroup("partner", "/partners")
	partnerRoutes.GET("", h.Partner.List)
	partnerRoutes.POST("", h.Partner.Create)
	partnerRoutes.GET("/:id", h.Partner.GetByID)
	partnerRoutes.PUT("/:id", h.Partner.Update)
	partnerRoutes.DELETE("/:id", h.Partner.Delete)
	partnerRoutes.POST("/:id/restore", h.Partner.Restore)

	prRoutes := NewDomainGroup("purchase-request", "/purchase-requests")
	prRoutes.GET("", h.PR.List)
	prRoutes.POST("", h.PR.Create)
	prRoutes.GET("/:id", h.PR.GetByID)
	prRoutes.PUT("/:id", h.PR.Update)
	prRoutes.DELETE("/:id", h.PR.Delete)
	prRoutes.POST("/:id/submit", h.PR.Submit)
	prRoutes.POST("/:id/approve", manager, h.PR.Approve)
	prRoutes.POST("/:id/reject", manager, h.PR.Reject)
	prRoutes.POST("/:id/reopen", h.PR.Reopen)
	prRoutes.POST("/:id/convert", h.PR.Convert)

	poRoutes := NewDomainGroup("purchase-order", "/purchase-orders")
	poRoutes.GET("", h.PO.List)
	poRoutes.POST("", h.PO.Create)
	poRoutes.GET("/:id", h.PO.GetByID)
	poRoutes.PUT("/:id", h.PO.Update)
	poRoutes.DELETE("/:id", h.PO.Delete)
	poRoutes.POST("/:id/send", h.PO.Send)
	poRoutes.POST("/:id/confirm", manager, h.PO.Confirm)
	poRoutes.POST("/:id/receive", h.PO.Receive)
	poRoutes.POST("/:id/cancel", h.PO.Cancel)

	apRoutes := NewDomainGroup("accounts-payable", "/accounts-payable")
	apRoutes.GET("", h.Payable.List)
	apRoutes.GET("/summary", h.Payable.Summary)
	apRoutes.GET("/export", h.Payable.Export)
	apRoutes.POST("", h.Payable.Create)
	apRoutes.GET("/:id", h.Payable.GetByID)
	apRoutes.PUT("/:id", h.Payable.Update)
	apRoutes.POST("/:id/pay", h.Payable.Pay)
	apRoutes.POST("/:id/cancel", manager, h.Payable.Cancel)

	arRoutes := NewDomainGroup("accounts-receivable", "/accounts-receivable")
	arRoutes.GET("", h.Receivable.List)
	arRoutes.GET("/summary", h.Receivable.Summary)
	arRoutes.GET("/export", h.Receivable.Export)
	arRoutes.POST("", h.Receivable.Create)
	arRoutes.GET("/:id", h.Receivable.GetByID)
	arRoutes.PUT("/:id", h.Receivable.Update)
	arRoutes.POST("/:id/collect", h.Receivable.Collect)
	arRoutes.POST("/:id/cancel", manager, h.Receivable.Cancel)

	salesRoutes := NewDomainGroup("sales-order", "/sales-orders")
	salesRoutes.GET("", h.Sales.List)
	salesRoutes.POST("", h.Sales.Create)
	salesRoutes.GET("/:id", h.Sales.GetByID)
	salesRoutes.PUT("/:id", h.Sales.Update)
	salesRoutes.DELETE("/:id", h.Sales.Delete)
	salesRoutes.POST("/:id/confirm", h.Sales.Confirm)
	salesRoutes.POST("/:id/ship", h.Sales.Ship)
	salesRoutes.POST("/:id/cancel", h.Sales.Cancel)

	wmsRoutes := NewDomainGroup("wms", "/vwckd")
	parts := wmsRoutes.Group("part-master", "/master/parts")
	parts.GET("", h.Part.List)
	parts.GET("/export", h.Part.Export)
	parts.GET("/code/:code", h.Part.GetByCode)
	parts.POST("", h.Part.Create)
	parts.GET("/:id", h.Part.GetByID)
	parts.PUT("/:id", h.Part.Update)
	parts.DELETE("/:id", h.Part.Delete)
	parts.POST("/:id/restore", h.Part.Restore)

	racks := wmsRoutes.Group("rack-master", "/racks")
	racks.GET("", h.Rack.List)
	racks.POST("", h.Rack.Create)
	racks.GET("/:id", h.Rack.GetByID)
	racks.PUT("/:id", h.Rack.Update)
	racks.DELETE("/:id", h.Rack.Delete)
	racks.POST("/:id/restore", h.Rack.Restore)
	racks.POST("/:id/maintenance/start", h.Rack.StartMaintenance)
	racks.POST("/:id/maintenance/end", h.Rack.EndMaintenance)

	locations := wmsRoutes.Group("location", "/locations")
	locations.GET("", h.Location.List)
	locations.POST("", h.Location.Create)
	locations.GET("/:id", h.Location.GetByID)
	locations.PUT("/:id", h.Location.Update)
	locations.DELETE("/:id", h.Location.Delete)
	locations.POST("/:id/restore", h.Location.Restore)

	inventory := wmsRoutes.Group("rack-inventory", "/inventory")
	inventory.GET("", h.Inventory.List)
	inventory.GET("/stock", h.Inventory.Stock)
	inventory.GET("/low-stock", h.Inventory.LowStock)
	inventory.POST("/inbound", h.Inventory.Inbound)
	inventory.GET("/:id", h.Inventory.GetByID)
	inventory.POST("/:id/outbound", h.Inventory.Outbound)
	inventory.POST("/:id/move", h.Inventory.Move)
	inventory.POST("/:id/reserve", h.Inventory.Reserve)
	inventory.POST("/:id/unreserve", h.Inventory.Unreserve)

	equipmentRoutes := NewDomainGroup("equipment", "/equipment")
	equipmentRoutes.GET("", h.Equipment.List)
	equipmentRoutes.GET("/due", h.Equipment.Due)
	equipmentRoutes.POST("", h.Equipment.Create)
	equipmentRoutes.GET("/:id", h.Equipment.GetByID)
	equipmentRoutes.PUT("/:id", h.Equipment.Update)
	equipmentRoutes.DELETE("/:id", h.Equipment.Delete)
	equipmentRoutes.POST("/:id/restore", h.Equipment.Restore)
	equipmentRoutes.POST("/:id/broken", h.Equipment.MarkBroken)
	equipmentRoutes.POST("/:id/retire", h.Equipment.Retire)

	maintenanceRoutes := NewDomainGroup("maintenance", "/maintenance")
	maintenanceRoutes.GET("", h.Maintenance.List)
	maintenanceRoutes.POST("", h.Maintenance.Schedule)
	maintenanceRoutes.GET("/:id", h.Maintenance.GetByID)
	maintenanceRoutes.PUT("/:id", h.Maintenance.Reschedule)
	maintenanceRoutes.DELETE("/:id", h.Maintenance.Delete)
	maintenanceRoutes.POST("/:id/start", h.Maintenance.Start)
	maintenanceRoutes.POST("/:id/complete", h.Maintenance.Complete)
	maintenanceRoutes.POST("/:id/cancel", h.Maintenance.Cancel)
	maintenanceRoutes.POST("/:id/attachments/upload-url", h.Maintenance.CreateUploadURL)
	maintenanceRoutes.POST("/:id/attachments", h.Maintenance.RegisterAttachment)
	maintenanceRoutes.DELETE("/:id/attachments", h.Maintenance.RemoveAttachment)

	scheduleRoutes := NewDomainGroup("schedule", "/schedules")
	scheduleRoutes.GET("", h.Schedule.List)
	scheduleRoutes.GET("/range", h.Schedule.Range)
	scheduleRoutes.GET("/conflicts", h.Schedule.Conflicts)
	scheduleRoutes.POST("", h.Schedule.Create)
	scheduleRoutes.GET("/:id", h.Schedule.GetByID)
	scheduleRoutes.PUT("/:id", h.Schedule.Update)
	scheduleRoutes.DELETE("/:id", h.Schedule.Delete)
	scheduleRoutes.POST("/:id/restore", h.Schedule.Restore)

	aiRoutes := NewDomainGroup("ai", "/ai")
	aiRoutes.POST("/chat", h.Assistant.Chat)

	return []RouteRegistrar{
		authRoutes, userRoutes, systemRoutes, menuRoutes, partnerRoutes,
		prRoutes, poRoutes, apRoutes, arRoutes, salesRoutes, wmsRoutes,
		equipmentRoutes, maintenanceRoutes, scheduleRoutes, aiRoutes,
	}
}

// Package adminapi holds the HTTP handlers of the seller back office.
package adminapi

import "sync"

var initOnce sync.Once

// Init registers every handler with the webserver route table. It must run
// before webserver.NewAdminServer and is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		registerAuthRoutes()
		registerOtpRoutes()
		registerCouponRoutes()
		registerProductRoutes()
		registerExportRoutes()
		registerCustomerRoutes()
		registerAuditRoutes()
	})
}

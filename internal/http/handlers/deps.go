package handlers

import (
	"sync"
	"time"

	intconfig "backoffice/internal/config"
	"backoffice/internal/domain"
	"backoffice/internal/notify"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps are the shared collaborators every request builds its services from.
type Deps struct {
	Store     services.UnitOfWork
	Users     services.UserStore
	Mailer    notify.Mailer
	Templates *notify.Templates
	Env       intconfig.Env
	Now       func() time.Time
}

var (
	depsMu sync.RWMutex
	deps   Deps
)

// Configure installs the dependencies used by the handlers.
func Configure(d Deps) {
	if d.Templates == nil {
		d.Templates = notify.DefaultTemplates()
	}
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func current() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

func clockNow(d Deps) time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func authService(c *gin.Context) services.AuthService {
	d := current()
	return services.AuthService{Users: d.Users, Secret: []byte(d.Env.JWTSecret), TTL: d.Env.JWTTTL, RequestID: requestID(c), Now: d.Now}
}

// ParseToken validates bearer tokens for the auth middleware.
func ParseToken(raw string) (domain.RequestContext, error) {
	return authService(nil).ParseToken(raw)
}

func clientService(c *gin.Context) services.ClientService {
	return services.ClientService{Store: current().Store, RequestID: requestID(c)}
}

func destinationService(c *gin.Context) services.DestinationService {
	return services.DestinationService{Store: current().Store, RequestID: requestID(c)}
}

func supplierService(c *gin.Context) services.SupplierService {
	return services.SupplierService{Store: current().Store, RequestID: requestID(c)}
}

func tripService(c *gin.Context) services.TripService {
	d := current()
	return services.TripService{Store: d.Store, RequestID: requestID(c), Now: d.Now}
}

func reservationService(c *gin.Context) services.ReservationService {
	d := current()
	return services.ReservationService{
		Store:     d.Store,
		Mailer:    d.Mailer,
		Templates: d.Templates,
		Agency:    d.Env.AgencyName,
		RequestID: requestID(c),
		Now:       d.Now,
	}
}

func paymentService(c *gin.Context) services.PaymentService {
	d := current()
	return services.PaymentService{
		Store:     d.Store,
		Mailer:    d.Mailer,
		Templates: d.Templates,
		Agency:    d.Env.AgencyName,
		RequestID: requestID(c),
		Now:       d.Now,
	}
}

func cashService(c *gin.Context) services.CashService {
	d := current()
	return services.CashService{Store: d.Store, RequestID: requestID(c), Now: d.Now}
}

func purchaseService(c *gin.Context) services.PurchaseService {
	d := current()
	return services.PurchaseService{Store: d.Store, RequestID: requestID(c), Now: d.Now}
}

func docsService(c *gin.Context) services.DocsService {
	d := current()
	return services.DocsService{Store: d.Store, Agency: d.Env.AgencyName, Currency: d.Env.Currency, RequestID: requestID(c), Now: d.Now}
}

func exportService(c *gin.Context) services.ExportService {
	return services.ExportService{Store: current().Store, RequestID: requestID(c)}
}

func reportsService(c *gin.Context) services.ReportsService {
	d := current()
	return services.ReportsService{Store: d.Store, RequestID: requestID(c), Now: d.Now}
}

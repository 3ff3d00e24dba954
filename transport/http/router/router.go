package router

import (
	"consultly/internal/handlers/auth"
	"consultly/internal/handlers/availability"
	"consultly/internal/handlers/booking"
	"consultly/internal/handlers/consultant"
	"consultly/internal/handlers/health"
	"consultly/internal/handlers/payment"
	"consultly/internal/handlers/review"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Health       health.Handler
	Auth         auth.Handler
	Consultant   consultant.Handler
	Availability availability.Handler
	Booking      booking.Handler
	Payment      payment.Handler
	Review       review.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Health.Router(router)

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Consultant.Router(routerGroup)
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}

//go:build wireinject
// +build wireinject

package di

import (
	"consultly/config"
	"consultly/infras/jwt"
	"consultly/infras/otel"
	"consultly/infras/paystack"
	"consultly/infras/postgres"
	"consultly/infras/redis"
	"consultly/permissions"
	"consultly/shared/cache"
	"consultly/transport/http"
	"consultly/transport/http/middleware"
	"consultly/transport/http/router"

	"github.com/google/wire"

	authService "consultly/internal/domains/auth/service"
	availabilityRepository "consultly/internal/domains/availability/repository"
	availabilityService "consultly/internal/domains/availability/service"
	bookingRepository "consultly/internal/domains/booking/repository"
	bookingService "consultly/internal/domains/booking/service"
	consultantRepository "consultly/internal/domains/consultant/repository"
	consultantService "consultly/internal/domains/consultant/service"
	paymentRepository "consultly/internal/domains/payment/repository"
	paymentService "consultly/internal/domains/payment/service"
	reviewRepository "consultly/internal/domains/review/repository"
	reviewService "consultly/internal/domains/review/service"
	userRepository "consultly/internal/domains/user/repository"

	authHandler "consultly/internal/handlers/auth"
	availabilityHandler "consultly/internal/handlers/availability"
	bookingHandler "consultly/internal/handlers/booking"
	consultantHandler "consultly/internal/handlers/consultant"
	healthHandler "consultly/internal/handlers/health"
	paymentHandler "consultly/internal/handlers/payment"
	reviewHandler "consultly/internal/handlers/review"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	paystack.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var consultantDomain = wire.NewSet(
	consultantRepository.New,
	consultantService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityRepository.New,
	availabilityService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var domains = wire.NewSet(
	authDomain,
	consultantDomain,
	availabilityDomain,
	bookingDomain,
	paymentDomain,
	reviewDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	authHandler.New,
	consultantHandler.New,
	availabilityHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	reviewHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

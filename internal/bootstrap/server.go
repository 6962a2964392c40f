package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/travelbook/api"
	"github.com/Domenick1991/travelbook/config"
	"github.com/Domenick1991/travelbook/internal/auth"
	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/service/analytics"
	"github.com/Domenick1991/travelbook/internal/service/booking"
	"github.com/Domenick1991/travelbook/internal/service/companies"
	"github.com/Domenick1991/travelbook/internal/service/tickets"
	"github.com/Domenick1991/travelbook/internal/service/users"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Tickets   tickets.TicketUseCase
	Bookings  booking.BookingUseCase
	Users     users.UserUseCase
	Companies companies.CompanyUseCase
	Analytics analytics.UseCase
	Tokens    *auth.TokenManager
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger, svc Services) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(svc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.Info("http server started", zap.String("address", cfg.HTTP.Address))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authed := api.RequireAuth(svc.Tokens)
	companyOrAdmin := api.RequireAuth(svc.Tokens, domain.RoleCompany, domain.RoleAdmin)
	admin := api.RequireAuth(svc.Tokens, domain.RoleAdmin)

	api.NewUserHandler(svc.Users).Register(router.Group("/auth"), authed)
	api.NewTicketHandler(svc.Tickets).Register(router.Group("/tickets"), companyOrAdmin)
	api.NewBookingHandler(svc.Bookings).Register(router.Group("/bookings"), authed, admin)
	api.NewCompanyHandler(svc.Companies).Register(router.Group("/companies"), admin)

	analyticsGroup := router.Group("/analytics")
	analyticsGroup.Use(admin)
	api.NewAnalyticsHandler(svc.Analytics).Register(analyticsGroup)

	return router
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paulrajswetha/netcurea-api/internal/service"
	"github.com/paulrajswetha/netcurea-api/pkg/auth"
	"github.com/paulrajswetha/netcurea-api/pkg/metrics"
)

type Services struct {
	Auth         *service.AuthService
	Availability *service.AvailabilityService
	Appointments *service.AppointmentService
	Doctors      *service.DoctorService
}

// NewRouter mounts the REST surface the dashboards consume. Paths follow the
// legacy contract: /availability, /appointments, /doctors, /auth.
func NewRouter(svcs Services, jwtMgr *auth.JWTManager, m *metrics.Collector, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if m != nil {
		r.Use(recordMetrics(m))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authH := &AuthHandler{svc: svcs.Auth, log: log}
	r.POST("/auth/register", authH.Register)
	r.POST("/auth/login", authH.Login)

	protected := r.Group("/", requireAuth(jwtMgr))

	availH := &AvailabilityHandler{svc: svcs.Availability}
	protected.GET("/availability", availH.List)
	protected.POST("/availability", availH.Add)
	protected.DELETE("/availability/:id", availH.Remove)

	apptH := &AppointmentHandler{svc: svcs.Appointments}
	protected.POST("/appointments", apptH.Book)
	protected.GET("/appointments", apptH.List)
	protected.GET("/appointments/:id", apptH.Get)
	protected.PUT("/appointments/:id", apptH.Update)
	protected.DELETE("/appointments/:id", apptH.Cancel)

	docH := &DoctorHandler{svc: svcs.Doctors}
	protected.GET("/doctors", docH.List)
	protected.GET("/doctors/:id", docH.Get)

	return r
}

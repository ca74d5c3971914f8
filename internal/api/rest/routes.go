package rest

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/Dhoini/gym-fee-tracker/config"
	"github.com/Dhoini/gym-fee-tracker/internal/api/rest/handlers"
	"github.com/Dhoini/gym-fee-tracker/internal/api/rest/middleware"
	"github.com/Dhoini/gym-fee-tracker/internal/metrics"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers обработчики, которые монтирует роутер
type Handlers struct {
	Members   *handlers.MemberHandler
	Reminders *handlers.ReminderHandler
}

func init() {
	// Ошибки привязки называют поля так же, как в JSON
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(log *logger.Logger, registry *prometheus.Registry, cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()

	// Подключение middleware
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())
	r.Use(metrics.NewHTTPMetrics(registry).Middleware())

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", handlers.HealthCheck)

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	members := r.Group("/api/members")
	{
		members.GET("", h.Members.GetMembers)
		members.POST("", h.Members.CreateMember)
		members.GET("/:id", h.Members.GetMember)
		members.PUT("/:id", h.Members.UpdateMember)
		members.PUT("/:id/payment", h.Members.UpdatePayment)
		members.DELETE("/:id", h.Members.DeleteMember)
	}

	// Ручной запуск напоминаний
	r.POST("/send-reminders", h.Reminders.SendReminders)

	if cfg.StaticDir != "" {
		mountStatic(r, cfg.StaticDir)
	} else {
		r.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Backend API is running!",
				"client":  "gymctl",
			})
		})
	}

	return r
}

// mountStatic отдает собранный клиент; неизвестные GET-пути получают index.html
func mountStatic(r *gin.Engine, dir string) {
	index := filepath.Join(dir, "index.html")
	r.StaticFile("/", index)

	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}
		c.File(index)
	})
}

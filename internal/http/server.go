package httpapi

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"medicare/internal/service"
	"medicare/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Deps are the services the server routes to.
type Deps struct {
	Catalog       *service.CatalogService
	Orders        *service.OrderService
	Consultations *service.ConsultationService
	Auth          *service.AuthService
	Sessions      *session.Store
	Signer        *session.Signer
	Log           logrus.FieldLogger
	// SecureCookie marks the session cookie Secure (HTTPS only).
	SecureCookie bool
}

type Server struct {
	engine        *gin.Engine
	catalog       *service.CatalogService
	orders        *service.OrderService
	consultations *service.ConsultationService
	auth          *service.AuthService
	sessions      *session.Store
	signer        *session.Signer
	log           logrus.FieldLogger
	secureCookie  bool
}

func NewServer(d Deps) *Server {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	r := gin.New()
	r.Use(requestLogger(d.Log), gin.Recovery())
	r.SetHTMLTemplate(parseTemplates())

	s := &Server{
		engine:        r,
		catalog:       d.Catalog,
		orders:        d.Orders,
		consultations: d.Consultations,
		auth:          d.Auth,
		sessions:      d.Sessions,
		signer:        d.Signer,
		log:           d.Log,
		secureCookie:  d.SecureCookie,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/healthz", s.healthz)

		meds := v1.Group("/medicines")
		meds.GET("", s.apiListMedicines)
		meds.GET("/categories", s.apiCategories)
		meds.GET("/export.xlsx", s.apiExport)
		meds.POST("/import", s.withSession, s.requireAdmin, s.apiImport)
	}

	pages := s.engine.Group("/", s.withSession)
	{
		pages.GET("", s.landing)
		pages.GET("signup", s.signupForm)
		pages.POST("signup", s.signup)
		pages.GET("login", s.loginForm)
		pages.POST("login", s.login)
		pages.POST("logout", s.logout)

		shop := pages.Group("", s.requireLogin)
		shop.GET("medicines", s.medicines)
		shop.POST("medicines/refresh", s.refreshMedicines)
		shop.POST("medicines/select", s.selectMedicines)
		shop.POST("medicines/clear-selections", s.clearSelections)

		shop.GET("cart", s.cartPage)
		shop.POST("cart/lines/:index", s.setCartQuantity)
		shop.POST("cart/lines/:index/remove", s.removeCartLine)
		shop.POST("cart/clear", s.clearCart)

		shop.GET("order", s.orderForm)
		shop.POST("order", s.placeOrder)
		shop.GET("orders", s.orderHistory)

		shop.GET("consult", s.consultForm)
		shop.POST("consult", s.requestConsultation)
		shop.GET("consultations", s.consultationHistory)
	}
}

func parseTemplates() *template.Template {
	funcs := template.FuncMap{
		"money": formatMoney,
		"inc":   func(i int) int { return i + 1 },
	}
	return template.Must(template.New("pages").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

// redirect sends the browser to path with 303 so a refresh does not repost.
func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}

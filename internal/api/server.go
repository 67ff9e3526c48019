package api

import (
	"context"
	"fmt"
	netmail "net/mail"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/school-portal-api/docs"
	v1 "github.com/vietanh2810/school-portal-api/internal/api/handler/v1"
	"github.com/vietanh2810/school-portal-api/internal/api/middleware"
	"github.com/vietanh2810/school-portal-api/internal/cache"
	"github.com/vietanh2810/school-portal-api/internal/config"
	"github.com/vietanh2810/school-portal-api/internal/grading"
	"github.com/vietanh2810/school-portal-api/internal/mail"
	"github.com/vietanh2810/school-portal-api/internal/notify"
	"github.com/vietanh2810/school-portal-api/internal/repository"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
	"github.com/vietanh2810/school-portal-api/internal/service"
	"github.com/vietanh2810/school-portal-api/internal/storage"
)

const (
	appName = "School Portal"

	verifyLimit  = 10
	verifyWindow = 10 * time.Minute
)

type Server struct {
	Config      *config.AppConfig
	Router      *gin.Engine
	Hub         *notify.Hub
	Maintenance *middleware.Maintenance

	store   cache.Store
	closers []func() error
}

type handlers struct {
	auth         *v1.AuthHandler
	student      *v1.StudentHandler
	result       *v1.ResultHandler
	scratchCard  *v1.ScratchCardHandler
	verify       *v1.VerifyHandler
	news         *v1.NewsHandler
	admission    *v1.AdmissionHandler
	contact      *v1.ContactHandler
	school       *v1.SchoolHandler
	dashboard    *v1.DashboardHandler
	notification *v1.NotificationHandler
}

func NewServer(ctx context.Context, conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		Hub:    notify.NewHub(),
	}

	if err := s.initCache(); err != nil {
		return nil, fmt.Errorf("s.initCache -> %w", err)
	}
	files, err := s.initStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.initStorage -> %w", err)
	}
	resultScheme, err := grading.SchemeByName(conf.Grading.ResultScheme)
	if err != nil {
		return nil, fmt.Errorf("grading.SchemeByName(%q) -> %w", conf.Grading.ResultScheme, err)
	}
	cumulativeScheme, err := grading.SchemeByName(conf.Grading.CumulativeScheme)
	if err != nil {
		return nil, fmt.Errorf("grading.SchemeByName(%q) -> %w", conf.Grading.CumulativeScheme, err)
	}

	loader := cache.NewLoader(s.store)
	mailer := s.initMailer()

	admins := repository.NewAdminRepository(dao.NewAdminDAO(db))
	students := repository.NewStudentRepository(dao.NewStudentDAO(db))
	results := repository.NewResultRepository(dao.NewResultDAO(db))
	cards := repository.NewScratchCardRepository(dao.NewScratchCardDAO(db))
	newsRepo := repository.NewNewsRepository(dao.NewNewsDAO(db))
	admissions := repository.NewAdmissionRepository(dao.NewAdmissionDAO(db))
	contacts := repository.NewContactRepository(dao.NewContactDAO(db))
	schoolRepo := repository.NewSchoolInfoRepository(dao.NewSchoolInfoDAO(db))

	authSvc := service.NewAuthService(admins)
	sessionSvc := service.NewSessionService(s.store)
	schoolSvc := service.NewSchoolService(schoolRepo, loader)
	studentSvc := service.NewStudentService(students)
	resultSvc := service.NewResultService(results, students, schoolSvc, resultScheme, cumulativeScheme)
	cardSvc := service.NewScratchCardService(cards, students, results, s.Hub)
	newsSvc := service.NewNewsService(newsRepo, loader, files)
	admissionSvc := service.NewAdmissionService(admissions, loader, mailer, s.Hub, conf.Mail.AdminEmail)
	contactSvc := service.NewContactService(contacts, mailer, s.Hub, conf.Mail.AdminEmail)
	dashboardSvc := service.NewDashboardService(students, results, cards, admissions, contacts, newsRepo, schoolSvc)

	s.Maintenance = middleware.NewMaintenance(schoolSvc, conf.API.MaintenanceMode)

	s.MountMiddlewares()
	s.MountHandlers(middleware.NewAuthenticator(conf.API.JWTSigningKey, sessionSvc), handlers{
		auth:         v1.NewAuthHandler(conf.API, authSvc, sessionSvc),
		student:      v1.NewStudentHandler(studentSvc),
		result:       v1.NewResultHandler(resultSvc),
		scratchCard:  v1.NewScratchCardHandler(cardSvc),
		verify:       v1.NewVerifyHandler(conf.API, cardSvc, resultSvc),
		news:         v1.NewNewsHandler(newsSvc),
		admission:    v1.NewAdmissionHandler(admissionSvc),
		contact:      v1.NewContactHandler(contactSvc),
		school:       v1.NewSchoolHandler(schoolSvc),
		dashboard:    v1.NewDashboardHandler(dashboardSvc),
		notification: v1.NewNotificationHandler(s.Hub, conf.API.AllowedCORSDomains),
	})

	if local, ok := files.(*storage.LocalStorage); ok {
		s.Router.Static(conf.Storage.PublicBaseURL, local.Dir())
	}

	return s, nil
}

// initCache uses Redis when an address is configured and an in-process
// store otherwise.
func (s *Server) initCache() error {
	if s.Config.Redis.Addr == "" {
		zap.L().Info("redis not configured, using in-memory cache")
		s.store = cache.NewMemoryStore()
		return nil
	}

	client, err := cache.NewRedisClient(s.Config.Redis.Addr, s.Config.Redis.Password, s.Config.Redis.DB)
	if err != nil {
		return fmt.Errorf("cache.NewRedisClient -> %w", err)
	}
	s.store = cache.NewRedisStore(client)
	s.closers = append(s.closers, client.Close)

	return nil
}

func (s *Server) initStorage(ctx context.Context) (storage.Storage, error) {
	conf := s.Config.Storage
	if conf.Provider == "b2" {
		b2, err := storage.NewB2Storage(ctx, conf.B2KeyID, conf.B2AppKey, conf.B2Bucket)
		if err != nil {
			return nil, fmt.Errorf("storage.NewB2Storage -> %w", err)
		}
		return b2, nil
	}

	if conf.PublicBaseURL == "" {
		conf.PublicBaseURL = "/uploads"
	}
	local, err := storage.NewLocalStorage(conf.LocalDir, conf.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("storage.NewLocalStorage -> %w", err)
	}
	return local, nil
}

func (s *Server) initMailer() mail.Sender {
	conf := s.Config.Mail
	from := netmail.Address{Name: conf.FromName, Address: conf.FromEmail}
	if conf.Provider == "sendgrid" && conf.SendGridKey != "" {
		return mail.NewSendGridSender(conf.SendGridKey, appName, from)
	}
	return mail.NewConsoleSender(appName, from)
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.Logger())
	s.Router.Use(middleware.Recovery())
	s.Router.Use(middleware.Metrics())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(auth *middleware.Authenticator, h handlers) {
	const basePath = "/api"

	public := s.Router.Group(basePath, s.Maintenance.Handler())
	{
		public.GET("/school-info", h.school.HandleGetSchoolInfo)
		public.GET("/news", h.news.HandlePublicListNews)
		public.GET("/news/:idOrSlug", h.news.HandlePublicGetNews)
		public.GET("/admission-settings", h.admission.HandleGetAdmissionSettings)
		public.POST("/admission", h.admission.HandleApply)
		public.POST("/contact", h.contact.HandleSubmitContact)
		public.POST("/verify-scratch-card",
			middleware.RateLimit(s.store, "verify", verifyLimit, verifyWindow),
			h.verify.HandleVerifyScratchCard)
		public.GET("/results/:id/pdf",
			middleware.RateLimit(s.store, "download", verifyLimit, verifyWindow),
			h.verify.HandleDownloadResult)
	}

	s.Router.POST(basePath+"/admin/login", h.auth.HandleLogin)

	admin := s.Router.Group(basePath+"/admin", auth.VerifyJWT())
	{
		admin.POST("/logout", h.auth.HandleLogout)
		admin.GET("/session", h.auth.HandleSession)
		admin.GET("/dashboard", h.dashboard.HandleDashboard)
		admin.GET("/ws", h.notification.HandleNotifications)

		admin.GET("/students", h.student.HandleListStudents)
		admin.POST("/students", h.student.HandleCreateStudent)
		admin.POST("/students/import", h.student.HandleImportStudents)
		admin.GET("/students/import/template", h.student.HandleImportTemplate)
		admin.GET("/students/:id", h.student.HandleGetStudent)
		admin.PUT("/students/:id", h.student.HandleUpdateStudent)
		admin.DELETE("/students/:id", h.student.HandleDeleteStudent)

		admin.GET("/results", h.result.HandleListResults)
		admin.POST("/results", h.result.HandleCreateResult)
		admin.GET("/results/cumulative", h.result.HandleCumulative)
		admin.GET("/results/broadsheet", h.result.HandleBroadsheet)
		admin.GET("/results/:id", h.result.HandleGetResult)
		admin.PUT("/results/:id", h.result.HandleUpdateResult)
		admin.DELETE("/results/:id", h.result.HandleDeleteResult)
		admin.GET("/results/:id/pdf", h.result.HandleResultPDF)
		admin.GET("/results/:id/print", h.result.HandleResultPrint)

		admin.GET("/scratch-cards", h.scratchCard.HandleListCards)
		admin.POST("/scratch-cards/generate", h.scratchCard.HandleGenerateCards)
		admin.GET("/scratch-cards/stats", h.scratchCard.HandleCardStats)
		admin.GET("/scratch-cards/export", h.scratchCard.HandleExportCards)
		admin.GET("/scratch-cards/:id", h.scratchCard.HandleGetCard)
		admin.DELETE("/scratch-cards/:id", h.scratchCard.HandleDeleteCard)
		admin.PATCH("/scratch-cards/:id/toggle", h.scratchCard.HandleToggleCard)
		admin.POST("/scratch-cards/:id/regenerate-pin", h.scratchCard.HandleRegeneratePIN)

		admin.GET("/news", h.news.HandleListNews)
		admin.POST("/news", h.news.HandleCreateNews)
		admin.GET("/news/:id", h.news.HandleGetNews)
		admin.PUT("/news/:id", h.news.HandleUpdateNews)
		admin.DELETE("/news/:id", h.news.HandleDeleteNews)
		admin.PATCH("/news/:id/publish", h.news.HandlePublishNews)
		admin.POST("/news/:id/image", h.news.HandleUploadNewsImage)

		admin.GET("/admissions", h.admission.HandleListApplications)
		admin.GET("/admissions/:id", h.admission.HandleGetApplication)
		admin.PATCH("/admissions/:id/status", h.admission.HandleUpdateApplicationStatus)
		admin.DELETE("/admissions/:id", h.admission.HandleDeleteApplication)
		admin.PUT("/admission-settings", h.admission.HandleUpdateAdmissionSettings)

		admin.GET("/contact-messages", h.contact.HandleListMessages)
		admin.PATCH("/contact-messages/:id/status", h.contact.HandleUpdateMessageStatus)
		admin.DELETE("/contact-messages/:id", h.contact.HandleDeleteMessage)

		admin.GET("/school-info", h.school.HandleGetSchoolInfo)
		admin.PUT("/school-info", h.school.HandleUpdateSchoolInfo)
	}

	s.Router.GET("/healthz", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "School Portal API"
	docs.SwaggerInfo.Description = "Public site and admin API for a secondary school: results, scratch cards, admissions and news."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// Close releases the cache connection.
func (s *Server) Close() {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			zap.L().Warn("closing server resource", zap.Error(err))
		}
	}
}

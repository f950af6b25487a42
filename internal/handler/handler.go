package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/workshift-dev/roster-compliance/backend/internal/config"
	"github.com/workshift-dev/roster-compliance/backend/internal/domain"
	"github.com/workshift-dev/roster-compliance/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/organizations", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateOrganization)
			r.Get("/", h.GetAllOrganizations)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.organization)
				r.Get("/", h.GetOrganization)

				r.Route("/rule", func(r chi.Router) {
					r.Get("/", h.GetOrganizationScheduleRule)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Patch("/", h.UpdateOrganizationScheduleRule)
				})

				r.Route("/coverage", func(r chi.Router) {
					r.Get("/day-rules", h.GetCoverageDayRules)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Put("/day-rules", h.ReplaceCoverageDayRules)
					r.Get("/overrides", h.GetCoverageDateOverrides)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Post("/overrides", h.CreateCoverageDateOverride)
				})

				r.Route("/shifts", func(r chi.Router) {
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Post("/", h.CreateShift)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Delete("/{shiftID}", h.DeleteShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Post("/{shiftID}/assignments", h.AssignStaffToShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Delete("/{shiftID}/assignments/{staffID}", h.UnassignStaffFromShift)
				})

				r.Route("/schedule/{month}", func(r chi.Router) {
					r.Get("/", h.GetMonthSchedule)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Post("/validate", h.ValidateMonthSchedule)
					r.Get("/report", h.GetValidationReport)
				})
			})
		})

		r.Route("/staff/{id}/schedule-rule", func(r chi.Router) {
			r.Use(h.userInfo)
			r.Get("/", h.GetStaffScheduleRule)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Patch("/", h.UpdateStaffScheduleRule)
		})

		r.Route("/time-off", func(r chi.Router) {
			r.With(h.myInfo).Post("/", h.CreateTimeOffRequest)
			r.Get("/", h.GetTimeOffRequests)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.timeOffRequest)
				r.Get("/", h.GetTimeOffRequest)
				r.With(h.myInfo).With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Post("/approve", h.ApproveTimeOffRequest)
				r.With(h.myInfo).With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Post("/reject", h.RejectTimeOffRequest)
			})
		})
	})
}

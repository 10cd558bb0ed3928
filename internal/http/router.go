package http

import (
	"net/http"
	"strings"
	"time"

	"zorgmatch/internal/domain/user"
	"zorgmatch/internal/http/handlers"
	"zorgmatch/internal/http/metrics"
	httpmw "zorgmatch/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	ProfileHandler     *handlers.ProfileHandler
	VacancyHandler     *handlers.VacancyHandler
	ApplicationHandler *handlers.ApplicationHandler
	MessageHandler     *handlers.MessageHandler
	BillingHandler     *handlers.BillingHandler
	SocketHandler      http.Handler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	RequestTimeout     time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			metrics.NewHandler(r.deps.Metrics).ServeHTTP(w, req)
			return
		}

		if !strings.HasPrefix(path, "/api/") {
			http.NotFound(w, req)
			return
		}
		path = strings.TrimPrefix(path, "/api")

		switch {
		case req.Method == http.MethodPost && path == "/auth/register":
			r.deps.AuthHandler.Register(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/login":
			r.deps.AuthHandler.Login(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/refresh":
			r.deps.AuthHandler.Refresh(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/logout":
			r.deps.AuthHandler.Logout(w, req)
			return
		case req.Method == http.MethodGet && path == "/vacancies":
			r.deps.VacancyHandler.ListActive(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/vacancies/"):
			r.deps.VacancyHandler.Get(w, req)
			return
		case req.Method == http.MethodGet && path == "/profiles":
			r.deps.ProfileHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/profiles/"):
			r.deps.ProfileHandler.Get(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/organisations/") && strings.HasSuffix(path, "/average-response-time"):
			r.deps.ApplicationHandler.AverageResponseTime(w, req)
			return
		}

		protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			r.handleProtected(w, req)
		}))
		protected.ServeHTTP(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/api")

	switch {
	case req.Method == http.MethodGet && path == "/auth/user":
		r.deps.UserHandler.GetCurrent(w, req)
		return
	case req.Method == http.MethodPatch && path == "/auth/user/role":
		r.deps.UserHandler.SetRole(w, req)
		return
	case req.Method == http.MethodPatch && path == "/auth/user/online-status-preference":
		r.deps.UserHandler.SetOnlineStatusPreference(w, req)
		return
	case req.Method == http.MethodGet && path == "/profile":
		httpmw.RequireRole(user.RoleZzper)(http.HandlerFunc(r.deps.ProfileHandler.GetOwn)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/profile":
		httpmw.RequireRole(user.RoleZzper)(http.HandlerFunc(r.deps.ProfileHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && path == "/profile":
		httpmw.RequireRole(user.RoleZzper)(http.HandlerFunc(r.deps.ProfileHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/vacancies":
		httpmw.RequireRole(user.RoleOrganisation)(http.HandlerFunc(r.deps.VacancyHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/my-vacancies":
		httpmw.RequireRole(user.RoleOrganisation)(http.HandlerFunc(r.deps.VacancyHandler.ListOwn)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/my-vacancies/count":
		httpmw.RequireRole(user.RoleOrganisation)(http.HandlerFunc(r.deps.VacancyHandler.CountOwn)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		httpmw.RequireRole(user.RoleZzper)(http.HandlerFunc(r.deps.ApplicationHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		httpmw.RequireRole(user.RoleOrganisation)(http.HandlerFunc(r.deps.ApplicationHandler.ListForOwner)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRole(user.RoleOrganisation)(http.HandlerFunc(r.deps.ApplicationHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/my-applications":
		httpmw.RequireRole(user.RoleZzper)(http.HandlerFunc(r.deps.ApplicationHandler.ListOwn)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/conversations":
		r.deps.MessageHandler.Conversations(w, req)
		return
	case req.Method == http.MethodGet && path == "/messages/unread-count":
		r.deps.MessageHandler.UnreadCount(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/messages/"):
		r.deps.MessageHandler.Conversation(w, req)
		return
	case req.Method == http.MethodPost && path == "/messages":
		r.deps.MessageHandler.Send(w, req)
		return
	case req.Method == http.MethodGet && path == "/transactions":
		r.deps.BillingHandler.ListTransactions(w, req)
		return
	case req.Method == http.MethodPost && path == "/create-payment-intent":
		r.deps.BillingHandler.CreatePaymentIntent(w, req)
		return
	case req.Method == http.MethodPost && path == "/confirm-payment":
		r.deps.BillingHandler.ConfirmPayment(w, req)
		return
	case req.Method == http.MethodPost && path == "/purchase-vacancy-credit":
		r.deps.BillingHandler.PurchaseVacancyCredit(w, req)
		return
	case req.Method == http.MethodPost && path == "/confirm-vacancy-payment":
		r.deps.BillingHandler.ConfirmVacancyPayment(w, req)
		return
	case req.Method == http.MethodPost && path == "/create-subscription":
		r.deps.BillingHandler.CreateSubscription(w, req)
		return
	case req.Method == http.MethodPost && path == "/cancel-subscription":
		r.deps.BillingHandler.CancelSubscription(w, req)
		return
	case req.Method == http.MethodGet && path == "/ws":
		if r.deps.SocketHandler != nil {
			r.deps.SocketHandler.ServeHTTP(w, req)
			return
		}
	}

	http.NotFound(w, req)
}

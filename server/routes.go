package server

import "net/http"

func (s *Server) initRoutes() {
	// LOGIN
	s.RegisterRouteFunc("GET "+RouteLogin, s.LoginPageHandler())
	s.RegisterRouteFunc("POST "+RouteAuthLogin, s.LoginSubmissionHandler())
	s.RegisterRouteFunc("GET "+RouteAuthLogout, s.LogoutHandler())
	s.RegisterRouteFunc("GET "+RouteCallback, s.CallbackHandler())

	// Protected shell
	s.RegisterRouteHandler("GET "+RouteHome, ChainMiddleware(s.HomeHandler(), s.HTMLMiddleware(s.RequireSession())...))

	// Protected API (proxied to the AdsPay backend through the gateway)
	s.RegisterRouteHandler("GET "+RouteAPIProfile, ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAPIAdmins, ChainMiddleware(s.ListAdminsHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteAPIAdmins, ChainMiddleware(s.CreateAdminHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("PUT "+RouteAPIAdminByName, ChainMiddleware(s.UpdateAdminHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteAPIAdminActivate, ChainMiddleware(s.ActivateAdminHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteAPIAdminDeactivate, ChainMiddleware(s.DeactivateAdminHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteAPIAdminResetPassword, ChainMiddleware(s.ResetAdminPasswordHandler(), s.APIMiddleware(s.RequireSession())...))

	s.RegisterRouteHandler("GET "+RouteAPIUsers, ChainMiddleware(s.ListEndUsersHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAPIUserByID, ChainMiddleware(s.EndUserDetailHandler(), s.APIMiddleware(s.RequireSession())...))

	s.RegisterRouteHandler("GET "+RouteAPIOperationalBalance, ChainMiddleware(s.OperationalBalanceHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAPIOperationalHistory, ChainMiddleware(s.OperationalHistoryHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAPIEscrowBalance, ChainMiddleware(s.EscrowBalanceHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAPIEscrowHistory, ChainMiddleware(s.EscrowHistoryHandler(), s.APIMiddleware(s.RequireSession())...))

	s.RegisterRouteHandler("GET "+RouteAPITransactions, ChainMiddleware(s.ListTransactionsHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAPITransactionByCode, ChainMiddleware(s.TransactionDetailHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAPITransactionsExport, ChainMiddleware(s.ExportTransactionsHandler(), s.APIMiddleware(s.RequireSession())...))

	// CORS preflight for every API route; the method-prefixed patterns
	// above never match OPTIONS.
	s.RegisterRouteHandler("OPTIONS /api/", ChainMiddleware(s.preflightHandler(), s.CorsMiddleware))
}

func (s *Server) preflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Entry routes (reachable without a session)
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"
	RouteCallback   = "/callback"

	// Protected shell routes
	RouteHome = "/"

	// Protected JSON API routes (proxied to the AdsPay backend)
	RouteAPIAdmins             = "/api/admins"
	RouteAPIAdminByName        = "/api/admins/{username}"
	RouteAPIAdminActivate      = "/api/admins/{username}/activate"
	RouteAPIAdminDeactivate    = "/api/admins/{username}/deactivate"
	RouteAPIAdminResetPassword = "/api/admins/{username}/reset-password"
	RouteAPIProfile            = "/api/profile"
	RouteAPIUsers              = "/api/users"
	RouteAPIUserByID           = "/api/users/{id}"
	RouteAPIOperationalBalance = "/api/accounts/operational/balance"
	RouteAPIOperationalHistory = "/api/accounts/operational/transactions"
	RouteAPIEscrowBalance      = "/api/accounts/escrow/balance"
	RouteAPIEscrowHistory      = "/api/accounts/escrow/transactions"
	RouteAPITransactions       = "/api/transactions"
	RouteAPITransactionByCode  = "/api/transactions/{code}"
	RouteAPITransactionsExport = "/api/transactions/export.csv"
)

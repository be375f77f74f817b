package services

// ServiceContainer holds instances of all the application services.
// It is assembled once at startup and handed to the route registration.
type ServiceContainer struct {
	Ledger  LedgerSvcFacade
	Account AccountSvcFacade
}

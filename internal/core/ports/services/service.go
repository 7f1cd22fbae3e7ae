package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Auth     AuthSvcFacade
	User     UserSvcFacade
	Book     BookSvcFacade
	Category CategorySvcFacade
	Major    MajorSvcFacade
	Class    ClassSvcFacade
	Loan     LoanSvcFacade
	Message  MessageSvcFacade
	Review   ReviewSvcFacade
	Favorite FavoriteSvcFacade
	Stats    StatsSvcFacade
	Report   ReportSvcFacade
}

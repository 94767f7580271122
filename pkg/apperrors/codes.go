package apperrors

// Error codes grouped by domain.
const (
	// Authentication and authorization
	CodeInvalidCredentials      ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized            ErrorCode = "UNAUTHORIZED"
	CodeForbidden               ErrorCode = "FORBIDDEN"
	CodeInvalidToken            ErrorCode = "INVALID_TOKEN"
	CodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"
	CodeInvalidUserRole  ErrorCode = "INVALID_USER_ROLE"

	// Resources
	CodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	CodeJobNotFound          ErrorCode = "JOB_NOT_FOUND"
	CodeApplicationNotFound  ErrorCode = "APPLICATION_NOT_FOUND"
	CodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"
	CodeOrderNotFound        ErrorCode = "ORDER_NOT_FOUND"

	// Business logic
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeAlreadyApplied     ErrorCode = "ALREADY_APPLIED"
	CodeResumeRequired     ErrorCode = "RESUME_REQUIRED"
	CodeJobNotActive       ErrorCode = "JOB_NOT_ACTIVE"
	CodeInvalidStatus      ErrorCode = "INVALID_STATUS"
	CodePaymentRequired    ErrorCode = "PAYMENT_REQUIRED"
	CodeInvalidSignature   ErrorCode = "INVALID_SIGNATURE"

	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

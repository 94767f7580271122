package contextkeys

type contextKey string

// DBContextKey carries the request-scoped *gorm.DB (pool or transaction)
// injected by the DB middleware.
const DBContextKey contextKey = "db"

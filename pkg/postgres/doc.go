// Package postgres is the traced PostgreSQL client.
//
// It wraps gorm.DB so that every operation runs inside a data-store span
// (name "db.query", db.system "postgresql") and is reported to the optional
// operation observer for metrics and logging. Database errors are translated
// to the package's standard sentinel errors.
//
//	db := postgres.NewPostgres(cfg, log, runner).WithObserver(obs)
//
//	var users []User
//	if err := db.Find(ctx, &users, "age > ?", 21); err != nil {
//		if errors.Is(err, postgres.ErrRecordNotFound) {
//			// ...
//		}
//	}
package postgres

package postgres

import (
	"context"
	"time"
)

// traced runs fn inside a data-store span and reports the operation to the
// observer. statement is the operation label recorded on the span; for raw
// SQL it is the statement itself.
func (p *Postgres) traced(ctx context.Context, operation, statement string, fn func(context.Context) error) error {
	start := time.Now()
	err := p.runner.Query(ctx, dbSystem, statement, nil, fn)
	p.observeOperation(operation, statement, time.Since(start), err)
	return err
}

// Find finds records that match the given conditions.
func (p *Postgres) Find(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return p.traced(ctx, "find", "SELECT", func(ctx context.Context) error {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return TranslateError(p.client.WithContext(ctx).Find(dest, conditions...).Error)
	})
}

// First finds the first record that matches the given conditions.
func (p *Postgres) First(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return p.traced(ctx, "first", "SELECT", func(ctx context.Context) error {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return TranslateError(p.client.WithContext(ctx).First(dest, conditions...).Error)
	})
}

// Create creates a new record.
func (p *Postgres) Create(ctx context.Context, value interface{}) error {
	return p.traced(ctx, "create", "INSERT", func(ctx context.Context) error {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return TranslateError(p.client.WithContext(ctx).Create(value).Error)
	})
}

// Save updates a record, inserting it if it does not exist.
func (p *Postgres) Save(ctx context.Context, value interface{}) error {
	return p.traced(ctx, "save", "UPDATE", func(ctx context.Context) error {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return TranslateError(p.client.WithContext(ctx).Save(value).Error)
	})
}

// Update updates records of model that match the given condition. attrs may
// be a map, struct, or name/value pair.
func (p *Postgres) Update(ctx context.Context, model interface{}, attrs interface{}) error {
	return p.traced(ctx, "update", "UPDATE", func(ctx context.Context) error {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return TranslateError(p.client.WithContext(ctx).Model(model).Updates(attrs).Error)
	})
}

// Delete deletes records that match the given conditions.
func (p *Postgres) Delete(ctx context.Context, value interface{}, conditions ...interface{}) error {
	return p.traced(ctx, "delete", "DELETE", func(ctx context.Context) error {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return TranslateError(p.client.WithContext(ctx).Delete(value, conditions...).Error)
	})
}

// Exec executes raw SQL. The statement itself is recorded on the span.
func (p *Postgres) Exec(ctx context.Context, sql string, values ...interface{}) error {
	return p.traced(ctx, "exec", sql, func(ctx context.Context) error {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return TranslateError(p.client.WithContext(ctx).Exec(sql, values...).Error)
	})
}

// Count counts records of model that match the given condition.
func (p *Postgres) Count(ctx context.Context, model interface{}, count *int64, condition string, args ...interface{}) error {
	return p.traced(ctx, "count", "SELECT", func(ctx context.Context) error {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return TranslateError(p.client.WithContext(ctx).Model(model).Where(condition, args...).Count(count).Error)
	})
}

package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateBootcampCache invalidates all caches touching one bootcamp
func InvalidateBootcampCache(ctx context.Context, cm *CacheManager, bootcampID uint) {
	SafeDelete(ctx, cm.Bootcamp, fmt.Sprintf("id:%d", bootcampID))
	SafeInvalidatePattern(ctx, cm.Bootcamp, "list:*")
	SafeInvalidatePattern(ctx, cm.Bootcamp, "zipcode:*")
}

// InvalidateUserCache invalidates the cached record for one user
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uint) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%d", userID))
}

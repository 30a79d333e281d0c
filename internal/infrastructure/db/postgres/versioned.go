package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// versionedTable implements the compare-and-swap primitives shared by
// blogs, posts and comments. M is the gorm model type.
type versionedTable[M any] struct {
	db       *gorm.DB
	notFound error
}

func (v versionedTable[M]) currentVersion(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var versions []int64
	if err := v.db.WithContext(ctx).Model(new(M)).Where("id = ?", id).Pluck("version", &versions).Error; err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	if len(versions) == 0 {
		return 0, v.notFound
	}
	return versions[0], nil
}

// updateIfVersion writes fields and advances the version when the stored
// version equals expected.
func (v versionedTable[M]) updateIfVersion(ctx context.Context, id, expected int64, fields map[string]any) (int64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields["version"] = gorm.Expr("version + 1")
	res := v.db.WithContext(ctx).
		Model(new(M)).
		Where("id = ? AND version = ?", id, expected).
		Updates(fields)
	if res.Error != nil {
		return 0, false, fmt.Errorf("conditional update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	return expected + 1, true, nil
}

// deleteIfVersion removes the row when the stored version equals expected.
// Children go with it through ON DELETE CASCADE.
func (v versionedTable[M]) deleteIfVersion(ctx context.Context, id, expected int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := v.db.WithContext(ctx).Where("id = ? AND version = ?", id, expected).Delete(new(M))
	if res.Error != nil {
		return false, fmt.Errorf("conditional delete: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

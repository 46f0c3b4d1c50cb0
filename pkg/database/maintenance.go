package database

import "time"

// DeleteExpiredUserKeys removes refresh-token rows that expired before the
// given instant and returns how many were deleted.
func (d *DatabaseInst) DeleteExpiredUserKeys(before time.Time) (int64, error) {
	result := d.client.Where("expired_at < ?", before).Delete(&UserKeys{})
	return result.RowsAffected, result.Error
}

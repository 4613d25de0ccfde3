/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent = "scholastic-swiss-td/0.4.0 (+https://github.com/mikeb26/scholastic-swiss-td)"

	DefaultDBPath = "swisstd.db"

	DBPathEnvVar       = "SWISSTD_DB"
	BackupBucketEnvVar = "SWISSTD_BACKUP_BUCKET"
)

package database

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/bradfitz/gomemcache/memcache"
)

// ReportCooldown is the time, in seconds, before a user
// can report the same target again
const ReportCooldown = 600

// Mem is the memcached client, set by Init
var Mem *memcache.Client

// ErrMalformedKey is returned when a cache key is refused by memcached
var ErrMalformedKey = memcache.ErrMalformedKey

// reportKey identifies a (reporter, target) pair. Both are hashed so
// any input gives a valid key and pairs never collide.
func reportKey(reporter string, target string) string {
	sum := sha256.Sum256([]byte(reporter + "\x00" + target))
	return "report:" + hex.EncodeToString(sum[:])
}

// AcquireReport reserves the (reporter, target) pair for ReportCooldown
// seconds. It returns false if the pair is already reserved.
func AcquireReport(reporter string, target string) (bool, error) {
	err := Mem.Add(&memcache.Item{
		Key:        reportKey(reporter, target),
		Value:      []byte("ok"),
		Expiration: ReportCooldown,
	})
	if errors.Is(err, memcache.ErrNotStored) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}

// ReleaseReport frees a pair reserved by AcquireReport
func ReleaseReport(reporter string, target string) error {
	err := Mem.Delete(reportKey(reporter, target))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}

	return err
}

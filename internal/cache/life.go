package cache

import (
	"fmt"
	"time"
)

// Life is a cache lifetime profile. Entries older than Revalidate are served
// stale while they refresh; entries older than Expire are refetched before
// they are served.
type Life struct {
	Revalidate time.Duration
	Expire     time.Duration
}

// Days is the profile used for page content.
var Days = Life{Revalidate: 24 * time.Hour, Expire: 7 * 24 * time.Hour}

// CacheControl renders the profile as a shared-cache response header.
func (l Life) CacheControl() string {
	swr := l.Expire - l.Revalidate
	if swr < 0 {
		swr = 0
	}
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
		int(l.Revalidate.Seconds()), int(swr.Seconds()))
}

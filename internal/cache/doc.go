// Package cache is an on-disk store for GitHub API responses.
//
// [Cache] implements httpcache.Cache: each entry is a file named by the SHA-256
// of the request key holding the dumped response; its mtime is its age.
// [Cache.Transport] wraps a round tripper so repeated GETs across scheduled
// runs are revalidated with ETags. Entries older than the TTL are dropped on
// read.
//
// The default directory is $XDG_CACHE_HOME/dailycontrib, falling back to
// os.UserCacheDir.
package cache

// Package github adapts the go-github REST client to the contrib.API
// interface.
//
// Requests carry the access token through an oauth2 static token source. An
// optional base transport (normally the on-disk HTTP cache) sits underneath,
// so unchanged listings are revalidated with ETags instead of re-downloaded.
package github

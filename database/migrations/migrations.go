// Package migrations registers the shop's schema changes. Importing it for
// side effects is enough: every file registers itself from init().
package migrations

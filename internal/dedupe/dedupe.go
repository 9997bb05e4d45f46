// Package dedupe provides shared singleflight groups used to collapse
// concurrent loads of the same data. Only one load runs for a given key
// while other callers wait for its result.
package dedupe

import "golang.org/x/sync/singleflight"

// CatalogGroup deduplicates card/creature catalog loads from the database.
// Keys are "catalog:<instance>".
var CatalogGroup singleflight.Group

// LeaderboardGroup deduplicates leaderboard queries keyed by
// "leaderboard:<limit>".
var LeaderboardGroup singleflight.Group

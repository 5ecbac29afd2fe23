// Package episodes fetches podcast episodes from the REST API and turns them
// into display records.
//
// The API is a json-server style collection at <api_url>/episodes. The home
// screen asks for the twelve newest episodes:
//
//	GET /episodes?_limit=12&_order=desc&_sort=published_at
//
// Each record carries id, title, members, published_at (ISO-8601),
// thumbnail, description and a file object with url and duration. The
// duration may arrive as a number or a numeric string.
//
// Formatter.FormatAll is fail-fast: a record with an unparseable date or a
// duration that is not a non-negative number fails the whole batch, so the
// caller never shows a partial page. BuildCatalog then splits the batch into
// the latest releases and everything else.
package episodes

package database

import "strings"

// ConstructDatabaseURL appends databaseName to baseURL and defaults
// sslmode to disable. An empty databaseName returns baseURL unchanged.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, hasQuery := strings.Cut(baseURL, "?")
	databaseURL := strings.TrimRight(base, "/") + "/" + databaseName
	if hasQuery {
		databaseURL += "?" + query
	}

	if !strings.Contains(query, "sslmode=") {
		separator := "?"
		if hasQuery {
			separator = "&"
		}
		databaseURL += separator + "sslmode=disable"
	}
	return databaseURL
}

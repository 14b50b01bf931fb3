package cruxlib

import (
	"fmt"
	"net/url"
)

// addQueryString appends one component's Omaha-compatible fragment to
// query. The fragment is escaped as a whole and carried under an "x="
// parameter; fragments are joined with '&'. The query is left untouched
// and false is returned when appending would push it past limit.
func addQueryString(query *string, id, ver, fp string, onDemand bool, limit int) bool {
	source := ""
	if onDemand {
		source = "&installsource=ondemand"
	}
	additional := fmt.Sprintf("id=%s&v=%s&fp=%s&uc%s", id, ver, fp, source)
	additional = "x=" + url.QueryEscape(additional)
	if len(additional)+len(*query)+1 > limit {
		return false
	}
	if *query != "" {
		*query += "&"
	}
	*query += additional
	return true
}

// makeFinalQuery builds the full check URL from the configured base,
// the accumulated per-component query and the optional static extra
// parameters. The extra string is expected to be top-level, unescaped
// parameters.
func makeFinalQuery(base, query, extra string) string {
	request := base + "?"
	if extra != "" {
		request += extra + "&"
	}
	return request + query
}

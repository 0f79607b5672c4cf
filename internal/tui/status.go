package tui

import "fmt"

const (
	MsgLoading   = "Loading…"
	MsgNoResults = "No results"
	MsgNoLink    = "This resource has no link to open"
)

func MsgResultsCount(shown, total int) string {
	switch {
	case total == 1:
		return "1 result"
	case shown < total:
		return fmt.Sprintf("%d of %d results", shown, total)
	default:
		return fmt.Sprintf("%d results", total)
	}
}

func MsgOpened(name string) string {
	return fmt.Sprintf("Opened %s", truncate(name, 40))
}

func MsgRecommendedFor(name string) string {
	return "› recommended for " + truncate(name, 40)
}

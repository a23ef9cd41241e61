package exporter

import (
	"strconv"
)

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatError renders err for a report cell, empty for nil
func formatError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

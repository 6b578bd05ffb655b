package cmd

import (
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorHigh    = color.New(color.FgRed, color.Bold).SprintFunc()
)

func formatStatusWithColor(status string) string {
	switch strings.ToUpper(status) {
	case "FINISHED":
		return colorSuccess(status)
	case "FAILED":
		return colorError(status)
	case "STOPPED":
		return colorWarn(status)
	default:
		return status
	}
}

func formatSeverityWithColor(severity string) string {
	switch strings.ToLower(severity) {
	case "high":
		return colorHigh(severity)
	case "medium":
		return colorError(severity)
	case "low":
		return colorWarn(severity)
	case "info":
		return colorInfo(severity)
	default:
		return severity
	}
}

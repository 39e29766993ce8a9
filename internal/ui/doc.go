// Package ui styles human-readable CLI output with [lipgloss].
package ui

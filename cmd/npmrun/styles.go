// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Shared palette for every line npmrun prints.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
	ColorVerbose   = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text and placeholders like "(none)".
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// PathStyle is for manifest paths and script names.
	PathStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// ScoreStyle right-aligns scores in ranked listings.
	ScoreStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose).
			Width(7).
			Align(lipgloss.Right)

	// BadgeStyle marks workspace and monorepo roots in listings.
	BadgeStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Italic(true)

	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)
)

package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vsxregistry/internal/models"
	"vsxregistry/internal/progress"
)

// ProgressLocation is where list actions report their progress.
const ProgressLocation = "vsx-registry-list"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))
	nameStyle = lipgloss.NewStyle().
			Bold(true)
	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	emptyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#626262"))
)

// List draws a set of extensions and runs actions on them.
type List struct {
	Title            string
	Extensions       []models.ExtensionPart
	ProgressLocation string
	Progress         progress.Service
	Service          Service
}

// Render draws one row per extension in set order.
func (l *List) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d)", l.Title, len(l.Extensions))))
	b.WriteString("\n")

	if len(l.Extensions) == 0 {
		b.WriteString(emptyStyle.Render("No extensions"))
		b.WriteString("\n")
		return b.String()
	}

	for _, ext := range l.Extensions {
		b.WriteString(nameStyle.Render(ext.Label()))
		b.WriteString(" ")
		b.WriteString(metaStyle.Render(rowMeta(ext)))
		b.WriteString("\n")
		if ext.Description != "" {
			b.WriteString("  ")
			b.WriteString(ext.Description)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func rowMeta(ext models.ExtensionPart) string {
	meta := ext.ID()
	if ext.Version != "" {
		meta += " v" + ext.Version
	}
	if ext.AverageRating > 0 {
		meta += fmt.Sprintf(" ★%.1f", ext.AverageRating)
	}
	if ext.DownloadCount > 0 {
		meta += fmt.Sprintf(" ↓%d", ext.DownloadCount)
	}
	return meta
}

func (l *List) Install(ctx context.Context, ext models.ExtensionPart) error {
	return l.Progress.WithProgress(ctx, l.ProgressLocation, "Installing "+ext.ID(), func(ctx context.Context) error {
		return l.Service.Install(ctx, ext)
	})
}

func (l *List) Uninstall(ctx context.Context, ext models.ExtensionPart) error {
	return l.Progress.WithProgress(ctx, l.ProgressLocation, "Uninstalling "+ext.ID(), func(ctx context.Context) error {
		return l.Service.Uninstall(ctx, ext)
	})
}

func (l *List) Open(ctx context.Context, ext models.ExtensionPart) error {
	return l.Progress.WithProgress(ctx, l.ProgressLocation, "Opening "+ext.ID(), func(ctx context.Context) error {
		return l.Service.OpenExtensionDetail(ctx, ext)
	})
}

// Find returns the extension with the given publisher.name, ignoring case.
func (l *List) Find(id string) (models.ExtensionPart, bool) {
	for _, ext := range l.Extensions {
		if strings.EqualFold(ext.ID(), id) {
			return ext, true
		}
	}
	return models.ExtensionPart{}, false
}

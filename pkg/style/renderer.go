package style

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/dotback/pkg/types"
)

// Renderer defines the interface for rendering various output types
type Renderer interface {
	RenderSnapshotList(snapshots []types.SnapshotInfo) string
	RenderSnapshotDetail(info types.SnapshotInfo) string
	RenderOperations(ops []types.Operation) string
	RenderError(err error) string
	RenderProgress(current, total int, message string) string
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct {
	width int
	now   func() time.Time
}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		width: 80, // Default width, can be updated
		now:   time.Now,
	}
}

// SetWidth updates the terminal width for rendering
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

// RenderSnapshotList renders snapshots newest first, marking the latest
func (r *TerminalRenderer) RenderSnapshotList(snapshots []types.SnapshotInfo) string {
	if len(snapshots) == 0 {
		return MutedStyle.Render("No snapshots found")
	}

	var result strings.Builder
	result.WriteString(TitleStyle.Render("Snapshots") + "\n\n")

	for _, info := range snapshots {
		indicator := " "
		if info.Latest {
			indicator = LatestIndicator
		}

		line := fmt.Sprintf("%s %s  %s",
			indicator,
			Bold(info.Name),
			MutedStyle.Render(r.age(info.CreatedAt)))
		result.WriteString(line + "\n")

		detail := fmt.Sprintf("%d files, %d dirs, %s",
			info.FileCount, info.DirCount, humanSize(info.SizeBytes))
		result.WriteString(Indent(MutedStyle.Render(detail), 1) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderSnapshotDetail renders one snapshot with its location
func (r *TerminalRenderer) RenderSnapshotDetail(info types.SnapshotInfo) string {
	var result strings.Builder
	result.WriteString(SnapshotStyle.Render(info.Name))
	if info.Latest {
		result.WriteString(" " + SuccessStyle.Render("(latest)"))
	}
	result.WriteString("\n")
	result.WriteString(Indent(PathStyle.Render(info.Path), 1) + "\n")
	result.WriteString(Indent(MutedStyle.Render(fmt.Sprintf("created %s, %d files, %d dirs, %s",
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		info.FileCount, info.DirCount, humanSize(info.SizeBytes))), 1))
	return result.String()
}

// RenderOperations renders a restore or prune plan
func (r *TerminalRenderer) RenderOperations(ops []types.Operation) string {
	if len(ops) == 0 {
		return MutedStyle.Render("No operations to perform")
	}

	var result strings.Builder
	result.WriteString(TitleStyle.Render("Operations") + "\n\n")

	for _, op := range ops {
		result.WriteString(r.renderOperation(op) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// renderOperation renders a single operation
func (r *TerminalRenderer) renderOperation(op types.Operation) string {
	var indicator string
	switch op.Status {
	case types.StatusReady:
		indicator = PendingIndicator
	case types.StatusSkipped:
		indicator = InfoIndicator
	case types.StatusError:
		indicator = ErrorIndicator
	default:
		indicator = InfoIndicator
	}

	var typeStyle func(...string) string
	var typeName string
	switch op.Type {
	case types.OperationCopyFile:
		typeStyle = CopyStyle.Render
		typeName = "copy"
	case types.OperationDeleteFile:
		typeStyle = DeleteStyle.Render
		typeName = "delete"
	case types.OperationDeleteTree:
		typeStyle = DeleteStyle.Render
		typeName = "delete tree"
	case types.OperationCreateDir:
		typeStyle = CreateDirStyle.Render
		typeName = "mkdir"
	default:
		typeStyle = InfoStyle.Render
		typeName = string(op.Type)
	}

	opType := typeStyle(fmt.Sprintf("%-11s", typeName))

	var desc string
	if op.Source != "" && op.Target != "" {
		desc = fmt.Sprintf("%s -> %s",
			PathStyle.Render(op.Source),
			PathStyle.Render(op.Target))
	} else if op.Target != "" {
		desc = PathStyle.Render(op.Target)
	} else {
		desc = op.Description
	}

	return fmt.Sprintf("%s %s %s", indicator, opType, desc)
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's a dotback error with code
	if codedErr, ok := err.(interface{ Code() string }); ok {
		return fmt.Sprintf("%s Error [%s]: %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(codedErr.Code()),
			err.Error())
	}

	// Generic error
	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}

// RenderProgress renders a progress indicator
func (r *TerminalRenderer) RenderProgress(current, total int, message string) string {
	percentage := float64(current) / float64(total)
	barWidth := 20
	filled := int(percentage * float64(barWidth))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	return fmt.Sprintf("%s [%s] %d/%d %s",
		ProgressIndicator,
		pterm.Info.MessageStyle.Sprint(bar),
		current,
		total,
		message)
}

// age renders a creation time as a compact relative age
func (r *TerminalRenderer) age(t time.Time) string {
	if t.IsZero() {
		return "unknown age"
	}
	d := r.now().Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// humanSize renders bytes in a compact human unit
func humanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderSnapshotList renders a plain list of snapshots
func (r *PlainRenderer) RenderSnapshotList(snapshots []types.SnapshotInfo) string {
	if len(snapshots) == 0 {
		return "No snapshots found"
	}

	var result strings.Builder
	for _, info := range snapshots {
		marker := " "
		if info.Latest {
			marker = "*"
		}
		result.WriteString(fmt.Sprintf("%s %s  %d files, %d dirs, %s\n",
			marker, info.Name, info.FileCount, info.DirCount, humanSize(info.SizeBytes)))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderSnapshotDetail renders one snapshot as plain text
func (r *PlainRenderer) RenderSnapshotDetail(info types.SnapshotInfo) string {
	return fmt.Sprintf("%s\n  %s", info.Name, info.Path)
}

// RenderOperations renders plain operations
func (r *PlainRenderer) RenderOperations(ops []types.Operation) string {
	if len(ops) == 0 {
		return "No operations to perform"
	}

	var result strings.Builder
	for _, op := range ops {
		result.WriteString(fmt.Sprintf("%s: %s\n", op.Type, op.Description))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

// RenderProgress renders plain progress
func (r *PlainRenderer) RenderProgress(current, total int, message string) string {
	return fmt.Sprintf("Progress: %d/%d - %s", current, total, message)
}

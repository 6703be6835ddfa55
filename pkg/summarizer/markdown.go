package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct {
	tr      func(string) string
	version string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the label translation function.
func WithTranslator(tr func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.tr = tr
	}
}

// WithVersion adds the application version to the output.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter with the given options.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		tr: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders the summary as Markdown.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", f.tr("Extraction Summary"))

	generated := summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")
	if f.version != "" {
		fmt.Fprintf(&sb, "%s: %s (stillcut %s)\n\n", f.tr("Generated"), generated, f.version)
	} else {
		fmt.Fprintf(&sb, "%s: %s\n\n", f.tr("Generated"), generated)
	}

	f.writeInput(&sb, summary.Input)
	f.writeStream(&sb, summary.Stream)
	f.writeExtraction(&sb, summary.Extraction)
	f.writeOutput(&sb, summary.Output)
	f.writeFrames(&sb, summary.Output.Frames)

	return sb.String()
}

func (f *MarkdownFormatter) writeInput(sb *strings.Builder, input InputInfo) {
	fmt.Fprintf(sb, "## %s\n\n", f.tr("Input"))
	f.tableHeader(sb)

	f.row(sb, "File", input.Path)
	f.row(sb, "Format", input.Format)

	duration := "N/A"
	if input.DurationMS >= 0 {
		duration = fmt.Sprintf("%d ms", input.DurationMS)
	}
	f.row(sb, "Duration", duration)
	f.row(sb, "Bit Rate", formatBitRate(input.BitRate))
	sb.WriteString("\n")
}

func (f *MarkdownFormatter) writeStream(sb *strings.Builder, stream StreamInfo) {
	fmt.Fprintf(sb, "## %s\n\n", f.tr("Video Stream"))
	f.tableHeader(sb)

	f.row(sb, "Stream", fmt.Sprintf("#%d", stream.Index))
	f.row(sb, "Codec", stream.Codec)
	f.row(sb, "Resolution", fmt.Sprintf("%dx%d", stream.Width, stream.Height))

	frameRate := "N/A"
	if stream.FrameRate > 0 {
		frameRate = fmt.Sprintf("%.2f fps", stream.FrameRate)
	}
	f.row(sb, "Frame Rate", frameRate)

	if stream.Backend != "" {
		f.row(sb, "Decoder", stream.Backend)
	}
	sb.WriteString("\n")
}

func (f *MarkdownFormatter) writeExtraction(sb *strings.Builder, ex ExtractionInfo) {
	fmt.Fprintf(sb, "## %s\n\n", f.tr("Extraction"))
	f.tableHeader(sb)

	f.row(sb, "Packet Limit", fmt.Sprintf("%d", ex.Limit))
	f.row(sb, "Packets Read", fmt.Sprintf("%d", ex.PacketsRead))
	f.row(sb, "Packets Decoded", fmt.Sprintf("%d", ex.PacketsSent))

	limitHit := f.tr("No")
	if ex.LimitHit {
		limitHit = f.tr("Yes")
	}
	f.row(sb, "Limit Reached", limitHit)
	f.row(sb, "Drain Policy", ex.Drain)
	f.row(sb, "Elapsed", fmt.Sprintf("%d ms", ex.ElapsedMS))
	sb.WriteString("\n")
}

func (f *MarkdownFormatter) writeOutput(sb *strings.Builder, out OutputInfo) {
	fmt.Fprintf(sb, "## %s\n\n", f.tr("Output"))
	f.tableHeader(sb)

	f.row(sb, "Directory", out.Directory)
	f.row(sb, "Frames Saved", fmt.Sprintf("%d", out.FrameCount))
	f.row(sb, "Total Size", formatBytes(out.TotalBytes))
	if out.SheetPath != "" {
		f.row(sb, "Contact Sheet", out.SheetPath)
	}
	sb.WriteString("\n")
}

func (f *MarkdownFormatter) writeFrames(sb *strings.Builder, frames []FrameInfo) {
	if len(frames) == 0 {
		return
	}

	fmt.Fprintf(sb, "## %s\n\n", f.tr("Frames"))
	fmt.Fprintf(sb, "| # | %s | %s | %s | %s |\n",
		f.tr("File"), f.tr("PTS"), f.tr("Type"), f.tr("Size"))
	sb.WriteString("|---|------|-----|------|------|\n")

	for _, frame := range frames {
		pts := "N/A"
		if frame.PTSMS >= 0 {
			pts = fmt.Sprintf("%d ms", frame.PTSMS)
		}
		fmt.Fprintf(sb, "| %d | %s | %s | %s | %s |\n",
			frame.Index, frame.Name, pts, frame.Type, formatBytes(int64(frame.Bytes)))
	}
	sb.WriteString("\n")
}

func (f *MarkdownFormatter) tableHeader(sb *strings.Builder) {
	fmt.Fprintf(sb, "| %s | %s |\n", f.tr("Item"), f.tr("Value"))
	sb.WriteString("|------|-------|\n")
}

func (f *MarkdownFormatter) row(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "| %s | %s |\n", f.tr(label), value)
}

// formatBytes renders a byte count using binary units.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatBitRate renders a bits-per-second rate.
func formatBitRate(bps int64) string {
	switch {
	case bps <= 0:
		return "N/A"
	case bps < 1000:
		return fmt.Sprintf("%d bps", bps)
	case bps < 1000000:
		return fmt.Sprintf("%.0f kbps", float64(bps)/1000)
	default:
		return fmt.Sprintf("%.2f Mbps", float64(bps)/1000000)
	}
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)

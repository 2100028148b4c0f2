package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the tool version to the report footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Extraction Summary"))

	b.WriteString(row(t("Run ID"), s.RunID))
	b.WriteString(row(t("Generated"), s.GeneratedAt.Format(time.RFC3339)))
	b.WriteString(row(t("Duration"), formatDuration(time.Duration(s.DurationMs)*time.Millisecond)))
	b.WriteString(row(t("Input"), s.InputDir))
	b.WriteString(row(t("Output"), s.OutputDir))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	b.WriteString(row(t("Format"), s.Settings.Format))
	b.WriteString(row(t("Stride"), fmt.Sprintf("%d", s.Settings.Stride)))
	b.WriteString(row(t("Per-video folders"), yesNo(t, s.Settings.PerVideoFolders)))
	b.WriteString(row(t("Overwrite"), yesNo(t, s.Settings.Overwrite)))
	if s.Settings.Crop {
		b.WriteString(row(t("Prompt"), s.Settings.Prompt))
		b.WriteString(row(t("Thresholds"), fmt.Sprintf("box %.2f / text %.2f", s.Settings.BoxThreshold, s.Settings.TextThreshold)))
		b.WriteString(row(t("Device"), s.Settings.Device))
	}
	b.WriteString("\n")

	written, failed := s.Totals()
	fmt.Fprintf(&b, "## %s\n\n", t("Videos"))
	if len(s.Videos) == 0 {
		fmt.Fprintf(&b, "%s\n\n", t("No videos found."))
	} else {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			t("Video"), t("Status"), t("Expected"), t("Existing"), t("Written"), t("Failed"))
		b.WriteString("|---|---|---:|---:|---:|---:|\n")
		for _, v := range s.Videos {
			expected := "?"
			if v.LengthKnown {
				expected = fmt.Sprintf("%d", v.Expected)
			}
			status := t(v.Status)
			if v.Error != "" {
				status += " (" + v.Error + ")"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %d | %d |\n",
				escapeCell(v.Name), escapeCell(status), expected, v.Existing, v.Written, v.Failed)
		}
		fmt.Fprintf(&b, "\n%s: %d, %s: %d\n\n", t("Frames written"), written, t("Frames failed"), failed)
	}

	if s.Crop != nil {
		fmt.Fprintf(&b, "## %s\n\n", t("Cropping"))
		b.WriteString(row(t("Cropped"), fmt.Sprintf("%d", s.Crop.Cropped)))
		b.WriteString(row(t("No detection"), fmt.Sprintf("%d", s.Crop.NoDetection)))
		b.WriteString(row(t("Degenerate box"), fmt.Sprintf("%d", s.Crop.Degenerate)))
		b.WriteString(row(t("Unreadable image"), fmt.Sprintf("%d", s.Crop.LoadFailures)))
		b.WriteString(row(t("Detector error"), fmt.Sprintf("%d", s.Crop.DetectErrors)))
		b.WriteString(row(t("Already cropped"), fmt.Sprintf("%d", s.Crop.Existing)))
		if s.RawFramesRemoved {
			fmt.Fprintf(&b, "\n%s\n", t("Raw frames were removed after cropping."))
		}
		b.WriteString("\n")
	}

	if f.version != "" {
		fmt.Fprintf(&b, "---\n%s %s\n", t("Generated by frameharvest"), f.version)
	}

	return b.String()
}

func row(label, value string) string {
	return fmt.Sprintf("- **%s**: %s\n", label, value)
}

func yesNo(t func(string) string, v bool) string {
	if v {
		return t("yes")
	}
	return t("no")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// formatDuration renders d rounded to the nearest 100ms.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}

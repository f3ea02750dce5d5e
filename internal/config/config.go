package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/quarkedit/internal/history"
	"github.com/example/quarkedit/internal/imageio"
	"github.com/example/quarkedit/internal/layer"
	"github.com/example/quarkedit/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
}

// Editor holds the editing defaults.
type Editor struct {
	HistoryLimit  int
	JPEGQuality   int
	Format        string
	ThumbnailSize int
	TextSize      int
	StickerSize   int
	TextShadow    bool
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	ExportDir string
	Editor    Editor
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Editor: Editor{
			HistoryLimit:  history.DefaultLimit,
			JPEGQuality:   imageio.DefaultJPEGQuality,
			Format:        string(imageio.PNG),
			ThumbnailSize: history.DefaultThumbnailSize,
			TextSize:      layer.DefaultTextSize,
			StickerSize:   layer.DefaultStickerSize,
			TextShadow:    true,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.ExportDir != "" {
		fmt.Fprintf(&sb, "export_dir = %s\n", c.ExportDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[editor]\n")
	fmt.Fprintf(&sb, "history_limit = %d\n", c.Editor.HistoryLimit)
	fmt.Fprintf(&sb, "jpeg_quality = %d\n", c.Editor.JPEGQuality)
	fmt.Fprintf(&sb, "format = %s\n", c.Editor.Format)
	fmt.Fprintf(&sb, "thumbnail_size = %d\n", c.Editor.ThumbnailSize)
	fmt.Fprintf(&sb, "text_size = %d\n", c.Editor.TextSize)
	fmt.Fprintf(&sb, "sticker_size = %d\n", c.Editor.StickerSize)
	fmt.Fprintf(&sb, "text_shadow = %v\n", c.Editor.TextShadow)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, key := range theme.Fields() {
			col, _ := t.Color(key)
			fmt.Fprintf(&sb, "%s: %s\n", key, theme.Hex(col))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

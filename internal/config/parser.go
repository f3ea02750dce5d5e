package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/quarkedit/internal/imageio"
	"github.com/example/quarkedit/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := stripComment(strings.TrimSpace(parts[1]))
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.SetField(key, value)
		case currentSection == "editor":
			err = setEditorField(&cfg.Editor, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			name := currentSection
			if name == "" {
				name = "root"
			}
			return nil, fmt.Errorf("error in section [%s]: %w", name, err)
		}
	}

	return cfg, scanner.Err()
}

// stripComment drops a trailing " # ..." comment. Values starting with # are
// colours and left alone.
func stripComment(v string) string {
	if i := strings.Index(v, " #"); i > 0 {
		return strings.TrimSpace(v[:i])
	}
	return v
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "export_dir":
		cfg.ExportDir = value
	}
	return nil
}

func setEditorField(e *Editor, key, value string) error {
	k := strings.ToLower(key)
	if k == "text_shadow" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		e.TextShadow = b
		return nil
	}
	if k == "format" {
		f, err := imageio.ParseFormat(value)
		if err != nil {
			return err
		}
		e.Format = string(f)
		return nil
	}
	var dst *int
	switch k {
	case "history_limit":
		dst = &e.HistoryLimit
	case "jpeg_quality":
		dst = &e.JPEGQuality
	case "thumbnail_size":
		dst = &e.ThumbnailSize
	case "text_size":
		dst = &e.TextSize
	case "sticker_size":
		dst = &e.StickerSize
	default:
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n < 1 {
		return fmt.Errorf("key %s must be positive, got %d", key, n)
	}
	*dst = n
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	}
	return nil
}

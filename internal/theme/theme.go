package theme

import (
	"image/color"
)

// Theme defines the colours of the editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window area around the image
	Foreground color.RGBA // Status text

	// Status bar
	StatusBackground color.RGBA
	StatusDisabled   color.RGBA // Undo/redo hints when unavailable

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Overlays
	CropMarquee    color.RGBA // Dashed crop rectangle, first dash colour
	CropMarqueeAlt color.RGBA // Dashed crop rectangle, second dash colour
	CropShade      color.RGBA // Tint over the area outside the crop rectangle
	LayerOutline   color.RGBA // Box around the active layer
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{220, 220, 220, 255},
		Foreground:       color.RGBA{0, 0, 0, 255},
		StatusBackground: color.RGBA{200, 200, 200, 255},
		StatusDisabled:   color.RGBA{130, 130, 130, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
		CropMarquee:      color.RGBA{0, 0, 0, 255},
		CropMarqueeAlt:   color.RGBA{255, 255, 255, 255},
		CropShade:        color.RGBA{0, 0, 0, 96},
		LayerOutline:     color.RGBA{0, 120, 215, 255},
	}
}

// Fields lists the colour keys of a theme in declaration order.
func Fields() []string {
	return []string{
		"Background", "Foreground",
		"StatusBackground", "StatusDisabled",
		"CheckerLight", "CheckerDark",
		"CropMarquee", "CropMarqueeAlt", "CropShade", "LayerOutline",
	}
}

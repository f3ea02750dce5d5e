package editor

import (
	"log/slog"

	"github.com/example/quarkedit/internal/history"
	"github.com/example/quarkedit/internal/layer"
	"github.com/example/quarkedit/internal/render"
)

// Option modifies a Session during creation.
type Option func(*Session)

// WithHistoryLimit sets how many snapshots the undo history keeps.
func WithHistoryLimit(n int) Option { return func(s *Session) { s.historyLimit = n } }

// WithLogger routes debug records about renders, snapshots and crops to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithThumbnailSize sets the longest edge of history thumbnails.
func WithThumbnailSize(n int) Option { return func(s *Session) { s.thumbSize = n } }

// WithTextSize sets the font size of new text layers.
func WithTextSize(n int) Option { return func(s *Session) { s.textSize = n } }

// WithStickerSize sets the size of new sticker layers.
func WithStickerSize(n int) Option { return func(s *Session) { s.stickerSize = n } }

// WithJPEGQuality sets the quality used by Export for JPEG output.
func WithJPEGQuality(q int) Option { return func(s *Session) { s.jpegQuality = q } }

// WithMeasurer replaces the font-backed text measurer used for hit-testing.
func WithMeasurer(m layer.Measurer) Option { return func(s *Session) { s.measurer = m } }

// WithLayerIDs overrides layer identifier generation.
func WithLayerIDs(fn func() string) Option { return func(s *Session) { s.newID = fn } }

// WithTextShadow casts render.DefaultShadow under text layers when on.
func WithTextShadow(on bool) Option {
	return func(s *Session) {
		s.textShadow = nil
		if on {
			sh := render.DefaultShadow()
			s.textShadow = &sh
		}
	}
}

func defaults() *Session {
	return &Session{
		logger:       slog.New(slog.DiscardHandler),
		historyLimit: history.DefaultLimit,
		thumbSize:    history.DefaultThumbnailSize,
		textSize:     layer.DefaultTextSize,
		stickerSize:  layer.DefaultStickerSize,
	}
}

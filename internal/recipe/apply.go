package recipe

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/example/quarkedit/internal/editor"
)

// Apply runs the steps against sess in order. sess must already hold an
// image. Filter steps only re-render; add a commit step to record them.
func (rc *Recipe) Apply(ctx context.Context, sess *editor.Session) error {
	if !sess.Loaded() {
		return editor.ErrNoImage
	}
	for i, st := range rc.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := applyStep(sess, st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Action(), err)
		}
	}
	return nil
}

var errNoLayer = errors.New("no layer at index")

func applyStep(sess *editor.Session, st Step) error {
	switch {
	case st.Scale != nil:
		sess.SetScale(*st.Scale)
	case st.Zoom != nil:
		sess.Zoom(*st.Zoom)
	case st.Rotate != nil:
		sess.Rotate(*st.Rotate)
	case st.Brightness != nil:
		sess.SetBrightness(*st.Brightness)
	case st.Blur != nil:
		sess.SetBlur(*st.Blur)
	case st.Grayscale != nil:
		sess.SetGrayscale(*st.Grayscale)
	case st.Sticker != nil:
		sess.AddSticker(*st.Sticker)
	case st.Text != nil:
		col := color.RGBA{255, 255, 255, 255}
		if st.Text.Color != "" {
			c, err := ParseColor(st.Text.Color)
			if err != nil {
				return err
			}
			col = c
		}
		sess.AddText(st.Text.Value, col)
	case st.Crop != nil:
		c := st.Crop
		sess.SetCropRect(image.Rect(c.X, c.Y, c.X+c.W, c.Y+c.H))
		if !sess.ApplyCrop() {
			sess.CancelCrop()
			return fmt.Errorf("crop %dx%d+%d+%d lies outside the image", c.W, c.H, c.X, c.Y)
		}
	case st.Move != nil:
		layers := sess.Layers()
		if st.Move.Layer >= len(layers) {
			return fmt.Errorf("%w %d (have %d)", errNoLayer, st.Move.Layer, len(layers))
		}
		sess.DragLayer(layers[st.Move.Layer].ID, image.Pt(st.Move.X, st.Move.Y))
	case st.Undo != nil:
		for n := max(1, *st.Undo); n > 0 && sess.Undo(); n-- {
		}
	case st.Redo != nil:
		for n := max(1, *st.Redo); n > 0 && sess.Redo(); n-- {
		}
	case st.Commit != nil:
		if *st.Commit {
			sess.Commit()
		}
	default:
		return ErrInvalidStep
	}
	return nil
}

// Package recipe runs scripted edits against an editor session. A recipe is
// a YAML document naming an input image, a list of steps and an output.
//
//	input: holiday.jpg
//	steps:
//	  - rotate: 90
//	  - brightness: 120
//	  - commit: true
//	  - text: {value: "Hello", color: "#ffcc00"}
//	  - move: {layer: 0, x: 40, y: 300}
//	  - crop: {x: 0, y: 0, w: 800, h: 600}
//	output:
//	  name: holiday-edit
//	  format: jpg
package recipe

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/quarkedit/internal/imageio"
)

// ErrInvalidStep reports a step that sets no action, several actions, or an
// unusable value.
var ErrInvalidStep = errors.New("invalid recipe step")

// Recipe is a parsed recipe document.
type Recipe struct {
	Input  string `yaml:"input"`
	Steps  []Step `yaml:"steps"`
	Output Output `yaml:"output"`
}

// Output names where the result is written.
type Output struct {
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
}

// Step holds exactly one action.
type Step struct {
	Scale      *float64  `yaml:"scale"`
	Zoom       *float64  `yaml:"zoom"`
	Rotate     *float64  `yaml:"rotate"`
	Brightness *float64  `yaml:"brightness"`
	Blur       *float64  `yaml:"blur"`
	Grayscale  *float64  `yaml:"grayscale"`
	Sticker    *string   `yaml:"sticker"`
	Text       *TextStep `yaml:"text"`
	Crop       *Rect     `yaml:"crop"`
	Move       *Move     `yaml:"move"`
	Undo       *int      `yaml:"undo"`
	Redo       *int      `yaml:"redo"`
	Commit     *bool     `yaml:"commit"`
}

// TextStep adds a text layer.
type TextStep struct {
	Value string `yaml:"value"`
	Color string `yaml:"color"`
}

// Rect is a crop rectangle in display pixels.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Move drags the layer at index Layer so its origin lands on X,Y.
type Move struct {
	Layer int `yaml:"layer"`
	X     int `yaml:"x"`
	Y     int `yaml:"y"`
}

// Parse decodes and validates a recipe. Unknown keys are rejected.
func Parse(r io.Reader) (*Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var rc Recipe
	if err := dec.Decode(&rc); err != nil {
		if errors.Is(err, io.EOF) {
			return &rc, nil
		}
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return &rc, nil
}

// LoadFile parses the recipe at path.
func LoadFile(path string) (*Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks every step and the output format.
func (rc *Recipe) Validate() error {
	for i, st := range rc.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	if _, err := imageio.ParseFormat(rc.Output.Format); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// Format returns the output format, PNG when unset.
func (rc *Recipe) Format() imageio.Format {
	f, err := imageio.ParseFormat(rc.Output.Format)
	if err != nil {
		return imageio.PNG
	}
	return f
}

// Action names the single action a step performs.
func (st Step) Action() string {
	names := st.actions()
	if len(names) != 1 {
		return ""
	}
	return names[0]
}

func (st Step) actions() []string {
	var names []string
	add := func(set bool, name string) {
		if set {
			names = append(names, name)
		}
	}
	add(st.Scale != nil, "scale")
	add(st.Zoom != nil, "zoom")
	add(st.Rotate != nil, "rotate")
	add(st.Brightness != nil, "brightness")
	add(st.Blur != nil, "blur")
	add(st.Grayscale != nil, "grayscale")
	add(st.Sticker != nil, "sticker")
	add(st.Text != nil, "text")
	add(st.Crop != nil, "crop")
	add(st.Move != nil, "move")
	add(st.Undo != nil, "undo")
	add(st.Redo != nil, "redo")
	add(st.Commit != nil, "commit")
	return names
}

// number returns the numeric value of the step's action, if it has one.
func (st Step) number() (string, *float64) {
	switch {
	case st.Scale != nil:
		return "scale", st.Scale
	case st.Zoom != nil:
		return "zoom", st.Zoom
	case st.Rotate != nil:
		return "rotate", st.Rotate
	case st.Brightness != nil:
		return "brightness", st.Brightness
	case st.Blur != nil:
		return "blur", st.Blur
	case st.Grayscale != nil:
		return "grayscale", st.Grayscale
	}
	return "", nil
}

func (st Step) validate() error {
	names := st.actions()
	switch len(names) {
	case 0:
		return fmt.Errorf("%w: no action", ErrInvalidStep)
	case 1:
	default:
		return fmt.Errorf("%w: several actions %v", ErrInvalidStep, names)
	}
	if name, v := st.number(); v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidStep, name)
	}
	switch {
	case st.Scale != nil && *st.Scale <= 0:
		return fmt.Errorf("%w: scale must be positive", ErrInvalidStep)
	case st.Blur != nil && *st.Blur < 0:
		return fmt.Errorf("%w: blur must not be negative", ErrInvalidStep)
	case st.Sticker != nil && *st.Sticker == "":
		return fmt.Errorf("%w: empty sticker", ErrInvalidStep)
	case st.Text != nil && st.Text.Value == "":
		return fmt.Errorf("%w: empty text", ErrInvalidStep)
	case st.Crop != nil && (st.Crop.W < 1 || st.Crop.H < 1):
		return fmt.Errorf("%w: crop needs w and h of at least 1", ErrInvalidStep)
	case st.Move != nil && st.Move.Layer < 0:
		return fmt.Errorf("%w: negative layer index", ErrInvalidStep)
	case st.Undo != nil && *st.Undo < 0, st.Redo != nil && *st.Redo < 0:
		return fmt.Errorf("%w: negative count", ErrInvalidStep)
	}
	if st.Text != nil && st.Text.Color != "" {
		if _, err := ParseColor(st.Text.Color); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStep, err)
		}
	}
	return nil
}

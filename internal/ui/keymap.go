package ui

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// Action is something a key press asks the viewer to do.
type Action string

const (
	ActionUndo        Action = "undo"
	ActionRedo        Action = "redo"
	ActionZoomIn      Action = "zoom-in"
	ActionZoomOut     Action = "zoom-out"
	ActionRotateRight Action = "rotate-right"
	ActionRotateLeft  Action = "rotate-left"
	ActionExport      Action = "export"
	ActionCopy        Action = "copy"
	ActionPaste       Action = "paste"
	ActionToggleCrop  Action = "toggle-crop"
	ActionApplyCrop   Action = "apply-crop"
	ActionCancelCrop  Action = "cancel-crop"
	ActionAddText     Action = "add-text"
	ActionAddSticker  Action = "add-sticker"
	ActionDeleteLayer Action = "delete-layer"
	ActionQuit        Action = "quit"
)

// KeyShortcut identifies a key press. Either Rune or Code is set, never both.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// Keymap binds shortcuts to actions.
type Keymap map[KeyShortcut]Action

const modMask = key.ModShift | key.ModControl | key.ModAlt | key.ModMeta

// DefaultKeymap returns the standard bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		{Code: key.CodeZ, Modifiers: key.ModControl}:                ActionUndo,
		{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}: ActionRedo,
		{Code: key.CodeY, Modifiers: key.ModControl}:                ActionRedo,
		{Code: key.CodeS, Modifiers: key.ModControl}:                ActionExport,
		{Code: key.CodeC, Modifiers: key.ModControl}:                ActionCopy,
		{Code: key.CodeV, Modifiers: key.ModControl}:                ActionPaste,
		{Rune: '+'}:                                  ActionZoomIn,
		{Rune: '='}:                                  ActionZoomIn,
		{Rune: '-'}:                                  ActionZoomOut,
		{Code: key.CodeKeypadPlusSign}:               ActionZoomIn,
		{Code: key.CodeKeypadHyphenMinus}:            ActionZoomOut,
		{Rune: 'r'}:                                  ActionRotateRight,
		{Rune: 'r', Modifiers: key.ModShift}:         ActionRotateLeft,
		{Rune: 'c'}:                                  ActionToggleCrop,
		{Code: key.CodeReturnEnter}:                  ActionApplyCrop,
		{Code: key.CodeKeypadEnter}:                  ActionApplyCrop,
		{Code: key.CodeEscape}:                       ActionCancelCrop,
		{Rune: 't'}:                                  ActionAddText,
		{Rune: 'k'}:                                  ActionAddSticker,
		{Code: key.CodeDeleteForward}:                ActionDeleteLayer,
		{Code: key.CodeDeleteBackspace}:              ActionDeleteLayer,
		{Rune: 'q'}:                                  ActionQuit,
	}
}

// Lookup resolves a key event. Printable runes are tried first so layout
// specific characters such as '+' work; letters fold to lower case with
// Shift recorded as a modifier. Releases never match.
func (k Keymap) Lookup(e key.Event) (Action, bool) {
	if e.Direction == key.DirRelease {
		return "", false
	}
	mods := e.Modifiers & modMask
	if e.Rune > 0 && unicode.IsPrint(e.Rune) {
		r, m := e.Rune, mods
		if unicode.IsLetter(r) {
			if unicode.IsUpper(r) {
				r = unicode.ToLower(r)
				m |= key.ModShift
			}
		} else {
			m &^= key.ModShift
		}
		if a, ok := k[KeyShortcut{Rune: r, Modifiers: m}]; ok {
			return a, true
		}
	}
	if e.Code != key.CodeUnknown {
		if a, ok := k[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok {
			return a, true
		}
	}
	return "", false
}

package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code identifies the key.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// Action names understood by the controller.
const (
	actionPen        = "pen"
	actionCircle     = "circle"
	actionSquare     = "square"
	actionCrop       = "crop"
	actionAdjust     = "adjust"
	actionApply      = "apply"
	actionCancel     = "cancel"
	actionUndo       = "undo"
	actionRedo       = "redo"
	actionSave       = "save"
	actionCopy       = "copy"
	actionPaste      = "paste"
	actionRevertCrop = "revert-crop"
	actionClear      = "clear"
	actionReset      = "reset-adjust"
	actionQuit       = "quit"

	actionBrightnessDown = "brightness-"
	actionBrightnessUp   = "brightness+"
	actionContrastDown   = "contrast-"
	actionContrastUp     = "contrast+"
	actionSaturationDown = "saturation-"
	actionSaturationUp   = "saturation+"
)

type binding struct {
	action string
	keys   KeyboardShortcuts
}

var bindings = []binding{
	{actionPen, shortcutList{{Rune: 'p'}}},
	{actionCircle, shortcutList{{Rune: 'o'}}},
	{actionSquare, shortcutList{{Rune: 'x'}}},
	{actionCrop, shortcutList{{Rune: 'r'}}},
	{actionAdjust, shortcutList{{Rune: 'j'}}},
	{actionApply, shortcutList{{Code: key.CodeReturnEnter}, {Code: key.CodeKeypadEnter}}},
	{actionCancel, shortcutList{{Code: key.CodeEscape}}},
	{actionUndo, shortcutList{{Rune: 'z', Modifiers: key.ModControl}}},
	{actionRedo, shortcutList{{Rune: 'y', Modifiers: key.ModControl}, {Rune: 'z', Modifiers: key.ModControl | key.ModShift}}},
	{actionSave, shortcutList{{Rune: 's', Modifiers: key.ModControl}}},
	{actionCopy, shortcutList{{Rune: 'c', Modifiers: key.ModControl}}},
	{actionPaste, shortcutList{{Rune: 'v', Modifiers: key.ModControl}}},
	{actionRevertCrop, shortcutList{{Code: key.CodeDeleteBackspace}}},
	{actionClear, shortcutList{{Code: key.CodeDeleteForward}}},
	{actionReset, shortcutList{{Rune: '0'}}},
	{actionQuit, shortcutList{{Rune: 'q'}}},
	{actionBrightnessDown, shortcutList{{Rune: '['}}},
	{actionBrightnessUp, shortcutList{{Rune: ']'}}},
	{actionContrastDown, shortcutList{{Rune: ','}}},
	{actionContrastUp, shortcutList{{Rune: '.'}}},
	{actionSaturationDown, shortcutList{{Rune: ';'}}},
	{actionSaturationUp, shortcutList{{Rune: '\''}}},
}

var keyboardAction = func() map[KeyShortcut]string {
	m := make(map[KeyShortcut]string)
	for _, b := range bindings {
		for _, sc := range b.keys.KeyboardShortcuts() {
			m[sc] = b.action
		}
	}
	return m
}()

const relevantModifiers = key.ModControl | key.ModShift | key.ModAlt | key.ModMeta

// lookupKey returns the action bound to a key press. Shift is ignored for
// printable keys unless a binding names it explicitly.
func lookupKey(e key.Event) (string, bool) {
	mods := e.Modifiers & relevantModifiers
	r := unicode.ToLower(e.Rune)
	if (r <= 0 || unicode.IsControl(r)) && e.Code >= key.CodeA && e.Code <= key.CodeZ {
		r = 'a' + rune(e.Code-key.CodeA)
	}
	if r > 0 && !unicode.IsControl(r) {
		if a, ok := keyboardAction[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
			return a, true
		}
		if a, ok := keyboardAction[KeyShortcut{Rune: r, Modifiers: mods &^ key.ModShift}]; ok {
			return a, true
		}
	}
	a, ok := keyboardAction[KeyShortcut{Code: e.Code, Modifiers: mods}]
	return a, ok
}

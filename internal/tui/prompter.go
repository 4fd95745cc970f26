package tui

import "errors"

// Prompter answers session prompts with alt-screen pickers.
type Prompter struct{}

func (Prompter) Select(title string, options []string, def int) (int, error) {
	return Pick(title, options, def)
}

// Confirm renders a yes/no picker. Backing out counts as "no" so a canceled
// confirmation never tears down the surrounding flow.
func (Prompter) Confirm(prompt string, def bool) (bool, error) {
	defIdx := 1
	if def {
		defIdx = 0
	}
	idx, err := Pick(prompt, []string{"Yes", "No"}, defIdx)
	if errors.Is(err, ErrCanceled) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return idx == 0, nil
}

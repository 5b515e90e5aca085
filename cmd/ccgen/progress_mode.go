package main

import (
	"fmt"
	"strings"
)

// progressMode selects when build draws the bubbletea progress view.
type progressMode uint8

const (
	progressAuto progressMode = iota
	progressOn
	progressOff
)

func parseProgressMode(value string) (progressMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return progressAuto, nil
	case "on":
		return progressOn, nil
	case "off":
		return progressOff, nil
	}
	return progressAuto, fmt.Errorf("unsupported --ui %q (must be auto, on or off)", value)
}

// useProgressView decides for one build. The view takes over stdout, so it
// is never drawn when IR is printed there or output is quiet. Auto also needs
// a terminal and more than one unit.
func (s *buildSettings) useProgressView(tty bool) bool {
	if s.stdout || s.quiet {
		return false
	}
	switch s.ui {
	case progressOn:
		return true
	case progressOff:
		return false
	}
	return tty && len(s.inputs) > 1
}

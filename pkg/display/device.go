package display

import (
	"golang.org/x/term"
)

// Column breakpoints between layout classes.
const (
	tabletColumns  = 80
	desktopColumns = 120
	tvColumns      = 200
)

// DetectDevice picks a layout class from a terminal width in columns.
// Unknown widths (<= 0) count as desktop.
func DetectDevice(columns int) Device {
	switch {
	case columns <= 0:
		return DeviceDesktop
	case columns < tabletColumns:
		return DeviceMobile
	case columns < desktopColumns:
		return DeviceTablet
	case columns < tvColumns:
		return DeviceDesktop
	default:
		return DeviceTV
	}
}

// ResolveDevice applies a settings preference. "auto" and unknown values
// fall back to detection.
func ResolveDevice(preference string, columns int) Device {
	switch Device(preference) {
	case DeviceMobile, DeviceTablet, DeviceDesktop, DeviceTV:
		return Device(preference)
	default:
		return DetectDevice(columns)
	}
}

// TerminalColumns returns the width of the terminal on fd, or 0 when fd is
// not a terminal.
func TerminalColumns(fd int) int {
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// Compact reports whether a layout class should use compact output.
func (d Device) Compact() bool {
	return d == DeviceMobile
}

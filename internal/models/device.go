package models

// Device classes used for counter bucketing and creative selection.
// The classification is deliberately binary: anything handheld counts as
// mobile, everything else as desktop.
const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
)

// ValidDevice reports whether s is one of the two recognized device classes.
func ValidDevice(s string) bool {
	return s == DeviceMobile || s == DeviceDesktop
}

// ValidPosition reports whether s is one of the two placement slots.
func ValidPosition(s string) bool {
	return s == PositionTop || s == PositionBottom
}

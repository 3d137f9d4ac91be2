package logic

import (
	"net/http"

	"github.com/avct/uasurfer"

	"github.com/pathgriho/adrotor/internal/models"
)

// DeviceClassFromUA classifies a raw User-Agent string into the binary
// device model used for counter bucketing. Handheld form factors count as
// mobile; everything else, including bots and unknowns, falls back to
// desktop.
func DeviceClassFromUA(uaString string) string {
	u := uasurfer.Parse(uaString)
	switch u.DeviceType {
	case uasurfer.DevicePhone, uasurfer.DeviceTablet, uasurfer.DeviceWearable:
		return models.DeviceMobile
	default:
		return models.DeviceDesktop
	}
}

// DeviceClassFromRequest derives the device class from request signals,
// preferring the Sec-CH-UA-Mobile client hint over User-Agent parsing.
func DeviceClassFromRequest(r *http.Request) string {
	switch r.Header.Get("Sec-CH-UA-Mobile") {
	case "?1":
		return models.DeviceMobile
	case "?0":
		return models.DeviceDesktop
	}
	return DeviceClassFromUA(r.Header.Get("User-Agent"))
}

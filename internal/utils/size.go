package utils

import "strconv"

const byteUnitStep = 1024

var byteUnits = [...]string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count for progress summaries, such as "512 B",
// "1.5 KB" or "10 MB". Values below ten keep one decimal unless it is zero.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 " + byteUnits[0]
	}
	if bytes < byteUnitStep {
		return strconv.FormatInt(bytes, 10) + " " + byteUnits[0]
	}
	scaled := float64(bytes)
	unit := 0
	for scaled >= byteUnitStep && unit < len(byteUnits)-1 {
		scaled /= byteUnitStep
		unit++
	}
	precision := 0
	if scaled < 10 && scaled != float64(int64(scaled)) {
		precision = 1
	}
	return strconv.FormatFloat(scaled, 'f', precision, 64) + " " + byteUnits[unit]
}

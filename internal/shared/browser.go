package shared

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

var getRuntime = func() string { return runtime.GOOS }

// FlightURL builds the public search page URL for a route and travel date,
// e.g. FlightURL("VCE", "LON", date) -> ".../trasporti/voli/vce/lon/260206/".
func FlightURL(originCode, destCode string, date time.Time) string {
	return fmt.Sprintf(
		"https://www.skyscanner.it/trasporti/voli/%s/%s/%s/",
		strings.ToLower(originCode),
		strings.ToLower(destCode),
		date.Format("060102"),
	)
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

package common

import (
	"github.com/ternarybob/banner"
)

// AppName is the display name used in banners and commit messages.
const AppName = "canDLE"

// PrintBanner displays the application banner
func PrintBanner(version string) {
	banner.Print(AppName, version)
}

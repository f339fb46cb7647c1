package theme

import (
	"os"

	"github.com/grovetools/scaffolder/config"
)

const (
	nerdIconFolder     = "\uF07B"     // fa-folder (U+F07B)
	nerdIconFolderOpen = "\uF07C"     // fa-folder_open (U+F07C)
	nerdIconFile       = "\uF016"     // fa-file_o (U+F016)
	nerdIconAngular    = "\uE753"     // dev-angular (U+E753)
	nerdIconReact      = "\uE7BA"     // dev-react (U+E7BA)
	nerdIconVue        = "\U000F0844" // md-vuejs (U+F0844)
	nerdIconNodeJS     = "\uE718"     // dev-nodejs_small (U+E718)
	nerdIconSuccess    = "\U000F012C" // md-check (U+F012C)
	nerdIconError      = "\uEA87"     // cod-error (U+EA87)
	nerdIconWarning    = "\uF071"     // fa-warning (U+F071)
	nerdIconInfo       = "\U000F02FC" // md-information (U+F02FC)
	nerdIconArrow      = "\U000F0054" // md-arrow_right (U+F0054)
	nerdIconBullet     = "\uF444"     // oct-dot_fill (U+F444)
)

const (
	asciiIconFolder     = "▸"
	asciiIconFolderOpen = "▾"
	asciiIconFile       = "·"
	asciiIconAngular    = "A"
	asciiIconReact      = "R"
	asciiIconVue        = "V"
	asciiIconNodeJS     = "N"
	asciiIconSuccess    = "✓"
	asciiIconError      = "✗"
	asciiIconWarning    = "⚠"
	asciiIconInfo       = "ℹ"
	asciiIconArrow      = "→"
	asciiIconBullet     = "•"
)

var (
	IconFolder     string
	IconFolderOpen string
	IconFile       string
	IconAngular    string
	IconReact      string
	IconVue        string
	IconNodeJS     string
	IconSuccess    string
	IconError      string
	IconWarning    string
	IconInfo       string
	IconArrow      string
	IconBullet     string
)

// init function determines which icon set to use
func init() {
	useASCII := false

	if os.Getenv("SCAFFOLDER_ICONS") == "ascii" {
		useASCII = true
	} else {
		cfg, err := config.LoadDefault()
		if err == nil && cfg.TUI != nil && cfg.TUI.Icons == "ascii" {
			useASCII = true
		}
	}

	if useASCII {
		IconFolder = asciiIconFolder
		IconFolderOpen = asciiIconFolderOpen
		IconFile = asciiIconFile
		IconAngular = asciiIconAngular
		IconReact = asciiIconReact
		IconVue = asciiIconVue
		IconNodeJS = asciiIconNodeJS
		IconSuccess = asciiIconSuccess
		IconError = asciiIconError
		IconWarning = asciiIconWarning
		IconInfo = asciiIconInfo
		IconArrow = asciiIconArrow
		IconBullet = asciiIconBullet
	} else {
		IconFolder = nerdIconFolder
		IconFolderOpen = nerdIconFolderOpen
		IconFile = nerdIconFile
		IconAngular = nerdIconAngular
		IconReact = nerdIconReact
		IconVue = nerdIconVue
		IconNodeJS = nerdIconNodeJS
		IconSuccess = nerdIconSuccess
		IconError = nerdIconError
		IconWarning = nerdIconWarning
		IconInfo = nerdIconInfo
		IconArrow = nerdIconArrow
		IconBullet = nerdIconBullet
	}
}

// ProjectTypeIcon returns the icon for a classified directory, or "" if unknown.
func ProjectTypeIcon(projectType string) string {
	switch projectType {
	case "angular":
		return IconAngular
	case "react":
		return IconReact
	case "vue":
		return IconVue
	case "nodejs":
		return IconNodeJS
	default:
		return ""
	}
}

// Package notify sends the desktop notification shown when an install run
// finishes.
package notify

import (
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"

	"toolsuite/internal/models"
)

// AppName is used as the notification sender
const AppName = "Tool Suite Installer"

// send delivers a notification; replaced in tests
var send = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Title returns the notification title for an outcome
func Title(outcome models.InstallOutcome) string {
	if outcome.Failed() {
		return "Installation Failed"
	}
	return "Installation Complete"
}

// Body returns the notification text for an outcome
func Body(outcome models.InstallOutcome, fileManager string) string {
	if outcome.Failed() {
		return outcome.Message()
	}

	body := fmt.Sprintf("Successfully installed %d scripts.", outcome.Installed)
	if fileManager != "" {
		body += fmt.Sprintf("\n%s has been restarted.", displayName(fileManager))
	}
	return body
}

// Outcome notifies the desktop about a finished run
func Outcome(outcome models.InstallOutcome, fileManager string) error {
	beeep.AppName = AppName
	return send(Title(outcome), Body(outcome, fileManager))
}

// displayName capitalizes a command name ("nautilus" -> "Nautilus")
func displayName(command string) string {
	if command == "" {
		return command
	}
	return strings.ToUpper(command[:1]) + command[1:]
}

package models

// InstallRequest describes one install action
type InstallRequest struct {
	Scripts    []string // Names of the scripts to install, in order
	InstallApp bool     // Also install the launcher app
}

// NewInstallRequest builds a request, dropping duplicate and empty names
func NewInstallRequest(scripts []string, installApp bool) InstallRequest {
	seen := make(map[string]bool, len(scripts))
	unique := make([]string, 0, len(scripts))
	for _, name := range scripts {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, name)
	}
	return InstallRequest{Scripts: unique, InstallApp: installApp}
}

// Has reports whether name is among the requested scripts
func (r InstallRequest) Has(name string) bool {
	for _, s := range r.Scripts {
		if s == name {
			return true
		}
	}
	return false
}

// InstallOutcome is the terminal result of an install run. A run either
// succeeds with a count of copied scripts or fails with the error that
// aborted it.
type InstallOutcome struct {
	Installed    int      // Number of scripts actually copied
	Scripts      []string // Names of the copied scripts
	AppInstalled bool     // Launcher app was written
	BackupDir    string   // Backup directory of this run, empty if none was needed
	Err          error    // Non-nil when the run was aborted
}

// Failed reports whether the run was aborted
func (o InstallOutcome) Failed() bool {
	return o.Err != nil
}

// Message returns the raw error text for a failed run, or "" on success
func (o InstallOutcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

package domain

import "time"

// InstallState is the lifecycle of the one-time installation.
type InstallState string

const (
	StateUninstalled InstallState = "uninstalled"
	// StateInstalling marks a claimed installation that has not completed yet.
	StateInstalling InstallState = "installing"
	StateInstalled  InstallState = "installed"
)

// Installation is the durable singleton record of the installation state.
type Installation struct {
	State      InstallState
	ClaimToken string
	ClaimedAt  time.Time
	// AdminID is the admin the claim holder is about to create. A takeover
	// uses it to remove what an abandoned attempt left behind.
	AdminID     string
	InstalledAt *time.Time
}

// InstallationStatus is the public view returned by the first-run probe.
type InstallationStatus struct {
	State       InstallState `json:"state"`
	Installed   bool         `json:"installed"`
	InProgress  bool         `json:"in_progress"`
	InstalledAt *time.Time   `json:"installed_at,omitempty"`
}

// Status converts the stored record into its public view. A claimed but
// unfinished installation is still reported as uninstalled.
func (i *Installation) Status() InstallationStatus {
	if i == nil {
		return InstallationStatus{State: StateUninstalled}
	}
	switch i.State {
	case StateInstalled:
		return InstallationStatus{State: StateInstalled, Installed: true, InstalledAt: i.InstalledAt}
	case StateInstalling:
		return InstallationStatus{State: StateUninstalled, InProgress: true}
	default:
		return InstallationStatus{State: StateUninstalled}
	}
}

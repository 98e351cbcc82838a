package domain

// ReleaseDecision is computed once per run and selects the workflow path.
type ReleaseDecision struct {
	Current                Version
	Target                 Version
	IsAlphaOnFeatureBranch bool
	BaseBranch             string
	// ReleaseBranch is empty on the same-branch path.
	ReleaseBranch     string
	GenerateChangelog bool
}

// Release holds all metadata related to a prepared release.
type Release struct {
	Version    Version
	Changelog  string
	BranchName string
	BaseBranch string
	CompareURL string
}

package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckReportCompatibility checks whether a report written by reportVersion
// can be read by this build.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - An empty report version predates versioned reports and is rejected
//   - Major versions must match exactly
//   - Before 1.0.0, minor versions must match too
//   - Otherwise the report may be older than the build but not newer
//
// Examples:
//   - Build 0.3.1, Report 0.3.0 -> OK
//   - Build 0.4.0, Report 0.3.0 -> ERROR (minor differs before 1.0.0)
//   - Build 1.4.0, Report 1.2.0 -> OK
//   - Build 1.2.0, Report 1.4.0 -> ERROR (report is newer)
//   - Build 2.0.0, Report 1.2.0 -> ERROR (major differs)
func CheckReportCompatibility(buildVersion, reportVersion string) error {
	buildVersion = strings.TrimPrefix(buildVersion, "v")
	reportVersion = strings.TrimPrefix(reportVersion, "v")

	if buildVersion == "main" || reportVersion == "main" {
		return nil
	}

	if reportVersion == "" {
		return fmt.Errorf("report has no version")
	}

	build, err := semver.NewVersion(buildVersion)
	if err != nil {
		return fmt.Errorf("invalid build version '%s': %w", buildVersion, err)
	}

	report, err := semver.NewVersion(reportVersion)
	if err != nil {
		return fmt.Errorf("invalid report version '%s': %w", reportVersion, err)
	}

	if build.Major() != report.Major() {
		return fmt.Errorf("major version mismatch: build is %d.x.x but report was written by %d.x.x",
			build.Major(), report.Major())
	}

	if build.Major() == 0 && build.Minor() != report.Minor() {
		return fmt.Errorf("minor version mismatch: build is 0.%d.x but report was written by 0.%d.x",
			build.Minor(), report.Minor())
	}

	if report.GreaterThan(build) && report.Minor() != build.Minor() {
		return fmt.Errorf("report version %s is newer than build %s", report, build)
	}

	return nil
}

package geocaching

import (
	"strings"
	"time"
)

// LogType is the kind of a logbook entry. Its value is the lowercase
// display name, which is also what the log submission form keys its
// options by.
type LogType string

const (
	LogTypeFoundIt            LogType = "found it"
	LogTypeDNF                LogType = "didn't find it"
	LogTypeNote               LogType = "write note"
	LogTypeNeedsMaintenance   LogType = "needs maintenance"
	LogTypeOwnerMaintenance   LogType = "owner maintenance"
	LogTypePublishListing     LogType = "publish listing"
	LogTypeEnableListing      LogType = "enable listing"
	LogTypeTempDisableListing LogType = "temporarily disable listing"
	LogTypeNeedsArchived      LogType = "needs archived"
	LogTypeArchive            LogType = "archive"
	LogTypeUnarchive          LogType = "unarchive"
	LogTypeWillAttend         LogType = "will attend"
	LogTypeAttended           LogType = "attended"
	LogTypeWebcamPhotoTaken   LogType = "webcam photo taken"
	LogTypeUpdateCoordinates  LogType = "update coordinates"
	LogTypePostReviewerNote   LogType = "post reviewer note"
	LogTypeAnnouncement       LogType = "announcement"
	LogTypeRetrievedIt        LogType = "retrieved it"
	LogTypePlacedIt           LogType = "placed it"
	LogTypeGrabbedIt          LogType = "grabbed it"
	LogTypeDiscoveredIt       LogType = "discovered it"
	LogTypeVisit              LogType = "visit"
)

var logTypes = map[LogType]bool{
	LogTypeFoundIt:            true,
	LogTypeDNF:                true,
	LogTypeNote:               true,
	LogTypeNeedsMaintenance:   true,
	LogTypeOwnerMaintenance:   true,
	LogTypePublishListing:     true,
	LogTypeEnableListing:      true,
	LogTypeTempDisableListing: true,
	LogTypeNeedsArchived:      true,
	LogTypeArchive:            true,
	LogTypeUnarchive:          true,
	LogTypeWillAttend:         true,
	LogTypeAttended:           true,
	LogTypeWebcamPhotoTaken:   true,
	LogTypeUpdateCoordinates:  true,
	LogTypePostReviewerNote:   true,
	LogTypeAnnouncement:       true,
	LogTypeRetrievedIt:        true,
	LogTypePlacedIt:           true,
	LogTypeGrabbedIt:          true,
	LogTypeDiscoveredIt:       true,
	LogTypeVisit:              true,
}

// LogTypeFromLabel resolves a log type from its display name.
func LogTypeFromLabel(label string) (LogType, error) {
	t := LogType(strings.ToLower(strings.TrimSpace(label)))
	if !logTypes[t] {
		return "", invalidf("log type", "unknown name %q", label)
	}
	return t, nil
}

// Log is one logbook entry.
type Log struct {
	Type    LogType
	Text    string
	Visited time.Time
	Author  string
}
